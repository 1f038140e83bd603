package comments

import (
	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/auth"
)

// MountRoutes registers comment routes on the provided router. The {id}
// parameter is a post id for the collection routes (GET, POST) and a comment
// id for the item routes (PUT, DELETE), mirroring the public API shape.
func (h *Handler) MountRoutes(r chi.Router, mw auth.Middleware) {
	r.Get("/{id}", h.list)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/{id}", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}
