// internal/app/features/ideas/edit.go
package ideas

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/htmlsanitize"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"go.uber.org/zap"
)

// HandleEditIdea updates an idea's title, summary, and tags. Creator-only.
// The conversion state is never editable through this path.
// POST /ideas/{id}/edit
func (h *Handler) HandleEditIdea(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.ideaIDParam(w, r)
	if !ok {
		return
	}

	var req editIdeaRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}

	title := htmlsanitize.Plain(req.Title)
	summary := htmlsanitize.Summary(req.Summary)
	tags := normalize.Tags(htmlsanitize.PlainAll(req.Tags))

	if field, msg, ok := validateIdeaFields(title, summary, tags); !ok {
		uierrors.WriteValidation(w, field, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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
		uierrors.WritePermissionDenied(w, "Only the idea's creator can edit it.")
		return
	}

	if err := store.Update(ctx, id, title, summary, tags); err != nil {
		h.ErrLog.LogServerError(w, r, "idea update failed", err, "Could not update the idea.")
		return
	}

	h.Log.Info("idea updated", zap.String("idea_id", id.Hex()), zap.String("editor_uid", uid.Hex()))

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "idea reload failed", err, "Could not load the idea.")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, h.ideaViewOf(ctx, updated))
}
