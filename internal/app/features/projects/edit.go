// internal/app/features/projects/edit.go
package projects

import (
	"context"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/htmlsanitize"
	"github.com/dalemusser/halloffame/internal/app/system/limits"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var editableStatuses = map[string]bool{
	models.StatusPlanning:          true,
	models.StatusActive:            true,
	models.StatusCompleted:         true,
	models.StatusLookingForMembers: true,
}

// HandleEditProject updates the descriptive fields and status. Creator-only.
// Archiving goes through the dedicated archive endpoint, not a status edit.
// POST /projects/{id}/edit
func (h *Handler) HandleEditProject(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	var req editProjectRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}

	summary := htmlsanitize.Summary(req.Summary)
	area := htmlsanitize.Plain(req.AreaOfInterest)
	tags := normalize.Tags(htmlsanitize.PlainAll(req.Tags))
	skills := normalize.Tags(htmlsanitize.PlainAll(req.SkillsRequired))

	switch {
	case summary == "":
		uierrors.WriteValidation(w, "summary", "Summary is required.")
		return
	case len(summary) > limits.MaxSummaryLen:
		uierrors.WriteValidation(w, "summary", "Summary is too long.")
		return
	case len(tags) > limits.MaxTags:
		uierrors.WriteValidation(w, "tags", "Too many tags.")
		return
	}

	var completion time.Time
	if req.ExpectedCompletionDate != "" {
		parsed, err := time.Parse(completionDateLayout, req.ExpectedCompletionDate)
		if err != nil {
			uierrors.WriteValidation(w, "expected_completion_date", "Use the YYYY-MM-DD date form.")
			return
		}
		completion = parsed
	}
	if req.Status != "" && !editableStatuses[req.Status] {
		uierrors.WriteValidation(w, "status", "Unknown project status.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := projectstore.New(h.DB)
	p, ok := h.requireCreator(ctx, w, r, store, id, uid)
	if !ok {
		return
	}
	if p.Status == models.StatusArchived {
		uierrors.WriteForbidden(w, "archived", "Archived projects cannot be edited.")
		return
	}

	if err := store.UpdateDetails(ctx, id, projectstore.DetailsUpdate{
		Summary:                summary,
		Tags:                   tags,
		SkillsRequired:         skills,
		AreaOfInterest:         area,
		ExpectedCompletionDate: completion,
		Status:                 req.Status,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "project update failed", err, "Could not update the project.")
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "project reload failed", err, "Could not load the project.")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, newProjectView(updated))
}

// HandleEditRoleTitle renames an open role slot. Creator-only; filled slots
// are refused.
// POST /projects/{id}/roles/{index}
func (h *Handler) HandleEditRoleTitle(w http.ResponseWriter, r *http.Request) {
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

	var req editRoleTitleRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}
	role := htmlsanitize.Plain(req.Role)
	subRole := htmlsanitize.Plain(req.SubRole)
	if role == "" {
		uierrors.WriteValidation(w, "role", "Role title is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := projectstore.New(h.DB)
	if _, ok := h.requireCreator(ctx, w, r, store, id, uid); !ok {
		return
	}

	if err := store.UpdateRoleTitle(ctx, id, idx, role, subRole); err != nil {
		switch err {
		case projectstore.ErrBadRoleIndex:
			uierrors.WriteValidation(w, "index", "No such role slot on this project.")
		case projectstore.ErrRoleFilled:
			uierrors.WriteConflict(w, "role_filled", "Filled roles cannot be renamed.")
		default:
			h.ErrLog.LogServerError(w, r, "role title update failed", err, "Could not rename the role.")
		}
		return
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "project reload failed", err, "Could not load the project.")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, newProjectView(updated))
}

// HandleArchiveProject archives the project. Creator-only; archived projects
// reject joins and edits but stay readable.
// POST /projects/{id}/archive
func (h *Handler) HandleArchiveProject(w http.ResponseWriter, r *http.Request) {
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

	store := projectstore.New(h.DB)
	if _, ok := h.requireCreator(ctx, w, r, store, id, uid); !ok {
		return
	}

	if err := store.Archive(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "project archive failed", err, "Could not archive the project.")
		return
	}

	h.AuditLog.ProjectArchived(ctx, r, uid, id)
	h.Log.Info("project archived", zap.String("project_id", id.Hex()), zap.String("creator_uid", uid.Hex()))
	webutil.WriteJSON(w, http.StatusOK, map[string]string{"status": models.StatusArchived})
}

// requireCreator loads the project and enforces creator-only access,
// writing the error response itself when the check fails.
func (h *Handler) requireCreator(ctx context.Context, w http.ResponseWriter, r *http.Request, store *projectstore.Store, id, uid primitive.ObjectID) (models.Project, bool) {
	p, err := store.GetByID(ctx, id)
	if err != nil {
		if err == projectstore.ErrNotFound {
			uierrors.WriteNotFound(w, "Project not found.")
			return models.Project{}, false
		}
		h.ErrLog.LogServerError(w, r, "project lookup failed", err, "Could not load the project.")
		return models.Project{}, false
	}
	if p.CreatorUID != uid {
		uierrors.WritePermissionDenied(w, "Only the project's creator can do that.")
		return models.Project{}, false
	}
	return p, true
}
