package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoToken means the request carried no session cookie.
var ErrNoToken = errors.New("no session token provided")

// Sessions binds the token manager to the session cookie and the user store.
type Sessions struct {
	tokens  *TokenManager
	cookies CookieConfig
	users   UserStore
}

// NewSessions creates a Sessions. The cookie lifetime follows the token TTL
// unless cookies.MaxAge is set.
func NewSessions(tokens *TokenManager, cookies CookieConfig, users UserStore) *Sessions {
	if cookies.MaxAge == 0 {
		cookies.MaxAge = tokens.TTL()
	}
	return &Sessions{tokens: tokens, cookies: cookies, users: users}
}

// Start issues a token for the user and sets it as the session cookie.
func (s *Sessions) Start(w http.ResponseWriter, userID string) error {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	s.cookies.set(w, token)
	return nil
}

// End clears the session cookie.
func (s *Sessions) End(w http.ResponseWriter) {
	s.cookies.clear(w)
}
