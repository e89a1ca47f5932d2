// internal/app/features/projects/join.go
package projects

import (
	"context"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/txn"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleJoinRole claims role slot {index} for the signed-in user. The slot
// claim is a single conditional update, so two racing joins for the same
// slot cannot both succeed; the loser gets a role_taken conflict.
// POST /projects/{id}/join/{index}
func (h *Handler) HandleJoinRole(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		uierrors.WriteValidation(w, "index", "Role index must be a non-negative integer.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var joined models.Project
	err = txn.Run(ctx, h.DB, h.Log, func(sc context.Context) error {
		p, err := projectstore.New(h.DB).ClaimRole(sc, id, idx, uid)
		if err != nil {
			return err
		}
		joined = p
		return userstore.New(h.DB).SetCurrentProject(sc, uid, models.CurrentProject{
			ProjectID: p.ID,
			Role:      p.Roles[idx].Role,
			JoinedAt:  time.Now().UTC(),
		})
	})
	if err != nil {
		switch err {
		case projectstore.ErrNotFound:
			uierrors.WriteNotFound(w, "Project not found.")
		case projectstore.ErrArchived:
			uierrors.WriteForbidden(w, "archived", "Archived projects cannot be joined.")
		case projectstore.ErrBadRoleIndex:
			uierrors.WriteValidation(w, "index", "No such role slot on this project.")
		case projectstore.ErrAlreadyMember:
			uierrors.WriteConflict(w, "already_member", "You already hold a role on this project.")
		case projectstore.ErrRoleTaken:
			uierrors.WriteConflict(w, "role_taken", "That role was just taken by someone else.")
		default:
			h.ErrLog.LogServerError(w, r, "role join failed", err, "Could not join the project.")
		}
		return
	}

	h.AuditLog.RoleJoined(ctx, r, uid, id, joined.Roles[idx].Role)
	h.Log.Info("role joined",
		zap.String("project_id", id.Hex()),
		zap.String("user_id", uid.Hex()),
		zap.Int("role_index", idx),
	)

	webutil.WriteJSON(w, http.StatusOK, newProjectView(joined))
}
