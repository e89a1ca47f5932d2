// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/halloffame/internal/app/system/auditlog"
	"github.com/dalemusser/halloffame/internal/app/system/auth"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	AuditLog   *auditlog.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		AuditLog:   audit,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout clears the session cookie. Safe to call when not signed in.
// POST /auth/logout
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	uid, _, signedIn := authz.UserCtx(r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed during logout", zap.Error(err))
	}

	if signedIn {
		h.AuditLog.SignedOut(r.Context(), r, uid)
		h.Log.Info("user signed out", zap.String("user_id", uid.Hex()))
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}
