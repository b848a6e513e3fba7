package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/streamline-io/streamline/internal/database"
	"github.com/streamline-io/streamline/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already exists")
)

// Store handles all credential and search-history persistence
type Store struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

// New creates a new store instance
func New(db *database.DB) *Store {
	return &Store{db: db.DB, dialect: db.Dialect, now: time.Now}
}

const userColumns = "id, username, email, password, image, created_at"

// CreateUser inserts a user record. An empty ID is replaced with a fresh UUID.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)"),
		user.ID, user.Username, user.Email, user.Password, user.Image, user.CreatedAt,
	)
	if err != nil {
		if uerr := uniqueViolation(err); uerr != nil {
			return uerr
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user and their search history
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?"), value,
	).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Image, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by %s: %w", column, err)
	}

	history, err := s.ListHistory(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.SearchHistory = history
	return user, nil
}

// AppendHistory adds an entry to the end of the user's history list.
func (s *Store) AppendHistory(ctx context.Context, userID string, entry models.HistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO search_history (user_id, content_id, title, image, search_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		userID, entry.ID, entry.Title, entry.Image, string(entry.SearchType), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// RemoveHistory drops every entry with the given content id. Removing an id
// that isn't present is not an error.
func (s *Store) RemoveHistory(ctx context.Context, userID string, contentID int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		"DELETE FROM search_history WHERE user_id = ? AND content_id = ?"),
		userID, contentID,
	)
	if err != nil {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

// ListHistory returns the user's entries in insertion order
func (s *Store) ListHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT content_id, title, image, search_type, created_at
		FROM search_history WHERE user_id = ? ORDER BY seq`), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	history := []models.HistoryEntry{}
	for rows.Next() {
		var (
			e    models.HistoryEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Image, &kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.SearchType = models.ContentKind(kind)
		history = append(history, e)
	}
	return history, rows.Err()
}

// rebind rewrites ? placeholders into $n for postgres
func (s *Store) rebind(query string) string {
	if s.dialect != database.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// uniqueViolation maps driver unique-constraint errors onto the store's
// conflict errors, or returns nil for anything else.
func uniqueViolation(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return conflictFor(sqliteErr.Error())
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return conflictFor(pqErr.Constraint + " " + pqErr.Message)
	}
	return nil
}

func conflictFor(detail string) error {
	if strings.Contains(detail, "username") {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}
