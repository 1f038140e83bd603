package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/auth"
)

// MountRoutes registers user routes on the provided router. Bookmarks are
// mounted before the {id} routes so chi matches the literal path first.
func (h *Handler) MountRoutes(r chi.Router, mw auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/bookmarks", h.listBookmarks)
		r.Put("/profile", h.updateProfile)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.OptionalAuth)
		r.Get("/{id}", h.get)
		r.Get("/{id}/posts", h.listPosts)
	})
}
