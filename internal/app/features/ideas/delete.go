// internal/app/features/ideas/delete.go
package ideas

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	commentstore "github.com/dalemusser/halloffame/internal/app/store/comments"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
	likestore "github.com/dalemusser/halloffame/internal/app/store/likes"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/txn"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"go.uber.org/zap"
)

// HandleDeleteIdea removes an idea along with its comments and likes.
// Creator-only. Converted ideas cannot be deleted: the project keeps a
// link back to its originating idea.
// POST /ideas/{id}/delete
func (h *Handler) HandleDeleteIdea(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.ideaIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := ideastore.New(h.DB)
	idea, err := store.GetByID(ctx, id)
	if err != nil {
		if err == ideastore.ErrNotFound {
			uierrors.WriteNotFound(w, "Idea not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "idea lookup failed", err, "Could not load the idea.")
		return
	}
	if idea.CreatorUID != uid {
		uierrors.WritePermissionDenied(w, "Only the idea's creator can delete it.")
		return
	}
	if idea.ConvertedToProject {
		uierrors.WriteConflict(w, "already_converted",
			"This idea became a project and can no longer be deleted.")
		return
	}

	err = txn.Run(ctx, h.DB, h.Log, func(sc context.Context) error {
		if _, err := store.Delete(sc, id); err != nil {
			return err
		}
		if _, err := commentstore.New(h.DB).DeleteByTarget(sc, models.TargetIdea, id); err != nil {
			return err
		}
		if _, err := likestore.New(h.DB).DeleteByTarget(sc, models.TargetIdea, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "idea delete failed", err, "Could not delete the idea.")
		return
	}

	// Media cleanup is best-effort; the documents are already gone.
	for _, p := range idea.MediaPaths {
		if err := h.Media.Delete(p); err != nil {
			h.Log.Warn("idea media cleanup failed",
				zap.String("idea_id", id.Hex()), zap.String("path", p), zap.Error(err))
		}
	}

	h.Log.Info("idea deleted", zap.String("idea_id", id.Hex()), zap.String("creator_uid", uid.Hex()))
	webutil.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
