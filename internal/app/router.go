package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/comments"
	"github.com/inkpost/inkpost/internal/posts"
	"github.com/inkpost/inkpost/internal/users"
	"github.com/inkpost/inkpost/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	AuthMiddleware  auth.Middleware
	PostsHandler    *posts.Handler
	CommentsHandler *comments.Handler
	UsersHandler    *users.Handler
	JobHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with Inkpost defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints get a tighter per-IP budget than the
			// global limit to slow down brute forcing.
			r.Use(httprate.Limit(20, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
			params.AuthHandler.MountRoutes(r, params.AuthMiddleware)
		})
		r.Route("/posts", func(r chi.Router) {
			params.PostsHandler.MountRoutes(r, params.AuthMiddleware)
		})
		r.Route("/comments", func(r chi.Router) {
			params.CommentsHandler.MountRoutes(r, params.AuthMiddleware)
		})
		r.Route("/users", func(r chi.Router) {
			params.UsersHandler.MountRoutes(r, params.AuthMiddleware)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			params.JobHandler.MountRoutes(r)
		})
	}

	return r
}
