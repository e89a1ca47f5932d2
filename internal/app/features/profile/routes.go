// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/halloffame/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, writeLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeOwnProfile)
	r.Get("/bookmarks", h.ServeBookmarks)
	r.Get("/{id}", h.ServePublicProfile)

	r.Group(func(wr chi.Router) {
		wr.Use(writeLimit.Middleware)

		wr.Post("/", h.HandleUpdateProfile)
		wr.Post("/notifications", h.HandleUpdateNotifications)
	})

	return r
}
