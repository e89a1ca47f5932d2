// internal/app/features/projects/create.go
package projects

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreateProject creates a project directly (no originating idea).
// Validation and title uniqueness match the conversion workflow.
// POST /projects
func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	var cfg Config
	if err := webutil.DecodeJSON(r, &cfg); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}
	cfg = SanitizeConfig(cfg)

	now := time.Now().UTC()
	completion, field, msg, ok := ValidateConfig(cfg, now)
	if !ok {
		uierrors.WriteValidation(w, field, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := projectstore.New(h.DB).Create(ctx, models.Project{
		Title:                  cfg.Title,
		Summary:                cfg.ProjectSummary,
		Tags:                   cfg.ProjectTags,
		SkillsRequired:         cfg.SkillsRequired,
		AreaOfInterest:         cfg.AreaOfInterest,
		TeamSize:               cfg.TeamSize,
		ExpectedCompletionDate: completion,
		Roles:                  BuildRoleSlots(cfg, uid, now),
		Status:                 models.StatusActive,
		CreatorUID:             uid,
	})
	if err != nil {
		if err == projectstore.ErrDuplicateTitle {
			uierrors.WriteDuplicateTitle(w, cfg.Title)
			return
		}
		h.ErrLog.LogServerError(w, r, "project create failed", err, "Could not create the project.")
		return
	}

	// The creator holds slot 0, so their current project points here.
	if err := userstore.New(h.DB).SetCurrentProject(ctx, uid, models.CurrentProject{
		ProjectID: project.ID,
		Role:      cfg.UserRole,
		JoinedAt:  now,
	}); err != nil {
		h.Log.Warn("current project not set after create",
			zap.String("project_id", project.ID.Hex()), zap.Error(err))
	}

	h.AuditLog.ProjectCreated(ctx, r, uid, project.ID, project.Title)
	h.Log.Info("project created",
		zap.String("project_id", project.ID.Hex()),
		zap.String("creator_uid", uid.Hex()),
	)

	webutil.WriteJSON(w, http.StatusCreated, newProjectView(project))
}

// projectIDParam parses the {id} route parameter, writing a 404 on failure.
func (h *Handler) projectIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	hex := normalize.QueryParam(chi.URLParam(r, "id"))
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		uierrors.WriteNotFound(w, "Project not found.")
		return primitive.NilObjectID, false
	}
	return id, true
}
