// internal/app/features/projects/bookmark.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"go.uber.org/zap"
)

// HandleToggleBookmark adds or removes the project from the signed-in
// user's bookmark list. The store uses $addToSet/$pull, so repeated
// toggles are safe.
// POST /projects/{id}/bookmark
func (h *Handler) HandleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := projectstore.New(h.DB).GetByID(ctx, id); err != nil {
		if err == projectstore.ErrNotFound {
			uierrors.WriteNotFound(w, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "project lookup failed", err, "Could not load the project.")
		return
	}

	users := userstore.New(h.DB)
	user, err := users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "user lookup failed", err, "Could not update bookmarks.")
		return
	}

	bookmarked := false
	for _, b := range user.BookmarkedProjects {
		if b == id {
			bookmarked = true
			break
		}
	}

	if bookmarked {
		err = users.RemoveBookmark(ctx, uid, id)
	} else {
		err = users.AddBookmark(ctx, uid, id)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bookmark toggle failed", err, "Could not update bookmarks.")
		return
	}

	h.Log.Debug("bookmark toggled",
		zap.String("project_id", id.Hex()),
		zap.String("user_id", uid.Hex()),
		zap.Bool("bookmarked", !bookmarked),
	)
	webutil.WriteJSON(w, http.StatusOK, map[string]bool{"bookmarked": !bookmarked})
}
