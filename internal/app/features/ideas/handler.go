// internal/app/features/ideas/handler.go
package ideas

import (
	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	"github.com/dalemusser/halloffame/internal/app/system/auditlog"
	"github.com/dalemusser/halloffame/internal/app/system/media"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the ideas feature.
// It holds the Mongo database, media store, and loggers so the various
// handlers (create, list, edit, delete, convert) share the same core
// dependencies.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Media    *media.Store
}

// NewHandler constructs an ideas Handler. It is typically called from the
// bootstrap BuildHandler function, where the application's DB, media store,
// and loggers are already initialized.
func NewHandler(db *mongo.Database, mediaStore *media.Store, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Media:    mediaStore,
	}
}
