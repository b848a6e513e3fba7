package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/streamline-io/streamline/internal/models"
	"github.com/streamline-io/streamline/internal/store"
)

// SessionHandler is a handler that runs only for an authenticated user.
type SessionHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

// RejectFunc writes the response for a request that failed authentication.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate resolves the request's session to a user with the password
// blanked. The error is ErrNoToken, ErrInvalidToken, store.ErrUserNotFound,
// or an unexpected store failure.
func (s *Sessions) Authenticate(r *http.Request) (*models.User, error) {
	token := s.cookies.read(r)
	if token == "" {
		return nil, ErrNoToken
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(r.Context(), userID)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return user.Public(), nil
}

// Require adapts next into a plain handler. next is only called with a
// resolved user; every failure goes to reject instead.
func (s *Sessions) Require(next SessionHandler, reject RejectFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.Authenticate(r)
		if err != nil {
			reject(w, r, err)
			return
		}
		next(w, r, user)
	}
}
