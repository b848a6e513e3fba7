package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/streamline-io/streamline/internal/models"
	"github.com/streamline-io/streamline/internal/store"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Avatars are the profile images assigned at signup.
var Avatars = []string{"/avatar1.png", "/avatar2.png", "/avatar3.png"}

// UserStore is the slice of the credential store the auth flows need
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service implements signup and login against a UserStore
type Service struct {
	users      UserStore
	logger     *slog.Logger
	hashCost   int
	pickAvatar func([]string) string
}

// Option tweaks a Service
type Option func(*Service)

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// WithAvatarPicker replaces the random avatar choice.
func WithAvatarPicker(pick func([]string) string) Option {
	return func(s *Service) { s.pickAvatar = pick }
}

func NewService(users UserStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		users:  users,
		logger: logger,
		pickAvatar: func(choices []string) string {
			return choices[rand.IntN(len(choices))]
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup validates the request, rejects a taken email or username, and
// creates the account. The returned user has its password blanked.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if err := ValidateSignup(req); err != nil {
		return nil, err
	}

	if err := s.ensureFree(ctx, s.users.GetUserByEmail, req.Email, store.ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.users.GetUserByUsername, req.Username, store.ErrUsernameTaken); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Image:    s.pickAvatar(Avatars),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return user.Public(), nil
}

func (s *Service) ensureFree(ctx context.Context, lookup func(context.Context, string) (*models.User, error), value string, taken error) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("check uniqueness: %w", err)
	}
}

// Login checks the credentials and returns the user with its password
// blanked. Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	if err := ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := CheckPassword(user.Password, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Debug("password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user.Public(), nil
}
