package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates a local login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, expired or invalid bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the actor does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateEmail indicates a registration against an already used email.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserSafeMessage returns a message safe to show to API clients. Internal
// detail stays in the logs.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Resource not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, ErrUnauthenticated):
		return "Not authenticated"
	case errors.Is(err, ErrForbidden):
		return "Not authorized"
	case errors.Is(err, ErrDuplicateEmail):
		return "User already exists with this email"
	default:
		return "Server error"
	}
}
