// internal/app/features/comments/routes.go
package comments

import (
	"github.com/dalemusser/halloffame/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, writeLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/{type}/{id}", h.ServeCommentsList)

	r.Group(func(wr chi.Router) {
		wr.Use(writeLimit.Middleware)

		wr.Post("/{type}/{id}", h.HandleAddComment)
		wr.Post("/{type}/{id}/like", h.HandleToggleLike)
		wr.Post("/{id}/delete", h.HandleDeleteComment)
	})

	return r
}
