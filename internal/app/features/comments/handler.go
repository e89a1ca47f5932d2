// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves comments and likes on ideas and projects.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// targetParams parses and verifies the {type}/{id} route parameters. The
// target must be an existing idea or project; commenting on ghosts is a 404.
func (h *Handler) targetParams(ctx context.Context, w http.ResponseWriter, r *http.Request) (targetType string, targetID primitive.ObjectID, ok bool) {
	targetType = normalize.QueryParam(chi.URLParam(r, "type"))
	if targetType != models.TargetIdea && targetType != models.TargetProject {
		uierrors.WriteValidation(w, "type", "Target type must be idea or project.")
		return "", primitive.NilObjectID, false
	}

	hex := normalize.QueryParam(chi.URLParam(r, "id"))
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		uierrors.WriteNotFound(w, "Target not found.")
		return "", primitive.NilObjectID, false
	}

	if targetType == models.TargetIdea {
		if _, err := ideastore.New(h.DB).GetByID(ctx, id); err != nil {
			if err == ideastore.ErrNotFound {
				uierrors.WriteNotFound(w, "Idea not found.")
				return "", primitive.NilObjectID, false
			}
			h.ErrLog.LogServerError(w, r, "target lookup failed", err, "Could not load the target.")
			return "", primitive.NilObjectID, false
		}
	} else {
		if _, err := projectstore.New(h.DB).GetByID(ctx, id); err != nil {
			if err == projectstore.ErrNotFound {
				uierrors.WriteNotFound(w, "Project not found.")
				return "", primitive.NilObjectID, false
			}
			h.ErrLog.LogServerError(w, r, "target lookup failed", err, "Could not load the target.")
			return "", primitive.NilObjectID, false
		}
	}
	return targetType, id, true
}
