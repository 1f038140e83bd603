package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/shared"
)

type userContextKey struct{}

// ContextWithUser stores the authenticated user in context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// BearerFromHeader extracts the token from an Authorization header.
func BearerFromHeader(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", shared.ErrUnauthenticated
	}
	return parts[1], nil
}

// Middleware attaches request identities using the bearer strategy.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireAuth rejects requests without a valid bearer token.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := m.authenticate(r)
		if err != nil {
			if !errors.Is(err, shared.ErrUnauthenticated) {
				m.Logger.Error("bearer auth", slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			httpx.Fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches an identity when a valid bearer token is present and
// lets anonymous requests through untouched.
func (m Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx, err := m.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) authenticate(r *http.Request) (context.Context, error) {
	token, err := BearerFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	user, claims, err := m.Service.AuthenticateToken(r.Context(), token)
	if err != nil {
		return nil, err
	}

	ctx := ContextWithUser(r.Context(), user)
	ctx = shared.ContextWithIdentity(ctx, shared.Identity{
		UserID:    user.ID,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	})
	return ctx, nil
}
