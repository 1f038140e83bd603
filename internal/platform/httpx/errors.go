package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/inkpost/inkpost/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Store and network
// faults fall through to a generic 500 so no internal detail leaks.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrUnauthenticated):
		Fail(w, http.StatusUnauthorized, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrDuplicateEmail):
		Fail(w, http.StatusConflict, shared.UserSafeMessage(err))
	default:
		Fail(w, http.StatusInternalServerError, "Server error")
	}
}

// FirstValidationMessage extracts a client-facing message for the first
// failed rule. Clients get one actionable message, not the full list.
func FirstValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field() + " failed on the '" + fe.Tag() + "' rule"
	}
	return "Validation failed"
}
