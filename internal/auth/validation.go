package auth

import (
	"regexp"
	"unicode/utf8"
)

const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a user-correctable input problem. Message is safe to
// return to the client as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	errFieldsRequired = &ValidationError{Message: "All fields are required"}
	errInvalidEmail   = &ValidationError{Message: "Invalid email"}
	errShortPassword  = &ValidationError{Message: "Password must be at least 6 characters"}
	errLongPassword   = &ValidationError{Message: "Password must be at most 72 bytes"}
)

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks if a password is long enough
func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// ValidateSignup checks a signup request in the order the client sees the
// messages: missing fields, email shape, password length.
func ValidateSignup(req SignupRequest) error {
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return errFieldsRequired
	}
	if !ValidateEmail(req.Email) {
		return errInvalidEmail
	}
	if !ValidatePassword(req.Password) {
		return errShortPassword
	}
	if len(req.Password) > MaxPasswordBytes {
		return errLongPassword
	}
	return nil
}

// ValidateLogin only requires both fields to be present.
func ValidateLogin(req LoginRequest) error {
	if req.Email == "" || req.Password == "" {
		return errFieldsRequired
	}
	return nil
}
