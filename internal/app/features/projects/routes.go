// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/halloffame/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, writeLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	// Reads are open to signed-in users; the router mounts this tree
	// behind RequireSignedIn.
	r.Get("/", h.ServeProjectsList)
	r.Get("/{id}", h.ServeProjectView)

	// Writes are rate limited per client.
	r.Group(func(wr chi.Router) {
		wr.Use(writeLimit.Middleware)

		wr.Post("/", h.HandleCreateProject)
		wr.Post("/{id}/edit", h.HandleEditProject)
		wr.Post("/{id}/roles/{index}", h.HandleEditRoleTitle)
		wr.Post("/{id}/archive", h.HandleArchiveProject)

		// JOIN / LEAVE workflow
		wr.Post("/{id}/join/{index}", h.HandleJoinRole)
		wr.Post("/{id}/leave", h.HandleLeaveRole)

		wr.Post("/{id}/bookmark", h.HandleToggleBookmark)
	})

	return r
}
