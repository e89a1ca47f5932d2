// internal/app/features/projects/leave.go
package projects

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/txn"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"go.uber.org/zap"
)

// HandleLeaveRole releases the signed-in user's role slot. The slot reopens
// (userID cleared, status Open together), and when the roster empties the
// project becomes "Looking for Members". The leaver's current project is
// cleared unconditionally.
// POST /projects/{id}/leave
func (h *Handler) HandleLeaveRole(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var left models.Project
	err := txn.Run(ctx, h.DB, h.Log, func(sc context.Context) error {
		p, _, err := projectstore.New(h.DB).ReleaseRole(sc, id, uid)
		if err != nil {
			return err
		}
		left = p
		return userstore.New(h.DB).ClearCurrentProject(sc, uid)
	})
	if err != nil {
		switch err {
		case projectstore.ErrNotFound:
			uierrors.WriteNotFound(w, "Project not found.")
		case projectstore.ErrNotMember:
			uierrors.WriteNotFound(w, "You hold no role on this project.")
		default:
			h.ErrLog.LogServerError(w, r, "role leave failed", err, "Could not leave the project.")
		}
		return
	}

	h.AuditLog.RoleLeft(ctx, r, uid, id)
	h.Log.Info("role left",
		zap.String("project_id", id.Hex()),
		zap.String("user_id", uid.Hex()),
		zap.String("status", left.Status),
	)

	webutil.WriteJSON(w, http.StatusOK, newProjectView(left))
}
