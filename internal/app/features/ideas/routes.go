// internal/app/features/ideas/routes.go
package ideas

import (
	"github.com/dalemusser/halloffame/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, writeLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	// Reads are open to signed-in users; the router mounts this tree
	// behind RequireSignedIn.
	r.Get("/", h.ServeIdeasList)
	r.Get("/{id}", h.ServeIdeaView)

	// CONVERSION draft (read-only prefill for the creator)
	r.Get("/{id}/convert", h.ServeConversionDraft)

	// Writes are rate limited per client.
	r.Group(func(wr chi.Router) {
		wr.Use(writeLimit.Middleware)

		wr.Post("/", h.HandleCreateIdea)
		wr.Post("/{id}/edit", h.HandleEditIdea)
		wr.Post("/{id}/delete", h.HandleDeleteIdea)
		wr.Post("/{id}/media", h.HandleUploadMedia)

		// CONVERSION (idea → project)
		wr.Post("/{id}/convert", h.HandleConvertIdea)
	})

	return r
}
