package posts

import (
	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/auth"
)

// MountRoutes registers post routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router, mw auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.OptionalAuth)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Put("/{id}/like", h.toggleLike)
		r.Put("/{id}/bookmark", h.toggleBookmark)
	})
}
