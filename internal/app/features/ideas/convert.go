// internal/app/features/ideas/convert.go
package ideas

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	"github.com/dalemusser/halloffame/internal/app/features/projects"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/saga"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"go.uber.org/zap"
)

// ServeConversionDraft returns a project configuration prefilled from the
// idea, for the creator to edit before confirming the conversion.
// GET /ideas/{id}/convert
func (h *Handler) ServeConversionDraft(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.ideaIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	idea, err := ideastore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == ideastore.ErrNotFound {
			uierrors.WriteNotFound(w, "Idea not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "idea lookup failed", err, "Could not load the idea.")
		return
	}
	if idea.CreatorUID != uid {
		uierrors.WritePermissionDenied(w, "Only the idea's creator can convert it.")
		return
	}
	if idea.ConvertedToProject {
		uierrors.WriteConflict(w, "already_converted", "This idea already became a project.")
		return
	}

	webutil.WriteJSON(w, http.StatusOK, conversionDraft{
		Title:          idea.Title,
		ProjectSummary: idea.Summary,
		SkillsRequired: idea.Tags,
		ProjectTags:    idea.Tags,
	})
}

// HandleConvertIdea turns an idea into a project. Preconditions run in a
// fixed order: ownership, then title uniqueness, then field validation.
// The three writes (project insert, idea flag, creator's current project)
// run as a compensating-action saga so a failure partway through rolls the
// earlier writes back. The idea flag itself is a conditional update, so a
// racing second conversion loses cleanly.
// POST /ideas/{id}/convert
func (h *Handler) HandleConvertIdea(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	id, ok := h.ideaIDParam(w, r)
	if !ok {
		return
	}

	var cfg projects.Config
	if err := webutil.DecodeJSON(r, &cfg); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}
	cfg = projects.SanitizeConfig(cfg)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ideas := ideastore.New(h.DB)
	idea, err := ideas.GetByID(ctx, id)
	if err != nil {
		if err == ideastore.ErrNotFound {
			uierrors.WriteNotFound(w, "Idea not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "idea lookup failed", err, "Could not load the idea.")
		return
	}
	if idea.CreatorUID != uid {
		uierrors.WritePermissionDenied(w, "Only the idea's creator can convert it.")
		return
	}
	if idea.ConvertedToProject {
		uierrors.WriteConflict(w, "already_converted", "This idea already became a project.")
		return
	}

	// Uniqueness is reported before field validation. The unique title
	// index still backstops this read against racing creates.
	projStore := projectstore.New(h.DB)
	if _, err := projStore.GetByTitle(ctx, cfg.Title); err == nil {
		uierrors.WriteDuplicateTitle(w, cfg.Title)
		return
	} else if err != projectstore.ErrNotFound {
		h.ErrLog.LogServerError(w, r, "project title check failed", err, "Could not convert the idea.")
		return
	}

	now := time.Now().UTC()
	completion, field, msg, ok := projects.ValidateConfig(cfg, now)
	if !ok {
		uierrors.WriteValidation(w, field, msg)
		return
	}

	users := userstore.New(h.DB)
	user, err := users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "user lookup failed", err, "Could not convert the idea.")
		return
	}

	var project models.Project
	sg := saga.New("idea_conversion", h.Log)

	err = sg.Step(ctx, "create_project",
		func(sc context.Context) error {
			created, err := projStore.Create(sc, models.Project{
				Title:                  cfg.Title,
				Summary:                cfg.ProjectSummary,
				Tags:                   cfg.ProjectTags,
				SkillsRequired:         cfg.SkillsRequired,
				AreaOfInterest:         cfg.AreaOfInterest,
				TeamSize:               cfg.TeamSize,
				ExpectedCompletionDate: completion,
				Roles:                  projects.BuildRoleSlots(cfg, uid, now),
				Status:                 models.StatusActive,
				CreatorUID:             uid,
				OriginatingIdeaID:      &id,
			})
			if err != nil {
				return err
			}
			project = created
			return nil
		},
		func(sc context.Context) error { return projStore.Delete(sc, project.ID) },
	)
	if err != nil {
		if err == projectstore.ErrDuplicateTitle {
			uierrors.WriteDuplicateTitle(w, cfg.Title)
			return
		}
		h.ErrLog.LogServerError(w, r, "conversion project create failed", err, "Could not convert the idea.")
		return
	}

	err = sg.Step(ctx, "flag_idea_converted",
		func(sc context.Context) error { return ideas.SetConverted(sc, id, project.ID) },
		func(sc context.Context) error { return ideas.UnsetConverted(sc, id, project.ID) },
	)
	if err != nil {
		sg.Compensate(ctx)
		if err == ideastore.ErrAlreadyConverted {
			uierrors.WriteConflict(w, "already_converted", "This idea already became a project.")
			return
		}
		h.ErrLog.LogServerError(w, r, "conversion idea flag failed", err, "Could not convert the idea.")
		return
	}

	prior := user.CurrentProject
	err = sg.Step(ctx, "set_current_project",
		func(sc context.Context) error {
			return users.SetCurrentProject(sc, uid, models.CurrentProject{
				ProjectID: project.ID,
				Role:      cfg.UserRole,
				JoinedAt:  now,
			})
		},
		func(sc context.Context) error {
			if prior == nil {
				return users.ClearCurrentProject(sc, uid)
			}
			return users.SetCurrentProject(sc, uid, *prior)
		},
	)
	if err != nil {
		sg.Compensate(ctx)
		h.ErrLog.LogServerError(w, r, "conversion current project failed", err, "Could not convert the idea.")
		return
	}

	h.AuditLog.IdeaConverted(ctx, r, uid, id, project.ID)
	h.AuditLog.ProjectCreated(ctx, r, uid, project.ID, project.Title)
	h.Log.Info("idea converted",
		zap.String("idea_id", id.Hex()),
		zap.String("project_id", project.ID.Hex()),
		zap.String("creator_uid", uid.Hex()),
	)

	webutil.WriteJSON(w, http.StatusCreated, project)
}
