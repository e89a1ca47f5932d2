// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/auditlog"
	"github.com/dalemusser/halloffame/internal/app/system/auth"
	"github.com/dalemusser/halloffame/internal/app/system/htmlsanitize"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// minPasswordLen matches the registration form's stated minimum.
const minPasswordLen = 8

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		AuditLog:   audit,
		SessionMgr: sessionMgr,
	}
}

type registerRequest struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleRegister creates a password account and signs the new member in.
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}

	first := htmlsanitize.Plain(req.FirstName)
	last := htmlsanitize.Plain(req.LastName)
	email := normalize.Email(req.Email)

	switch {
	case first == "":
		uierrors.WriteValidation(w, "first_name", "First name is required.")
		return
	case last == "":
		uierrors.WriteValidation(w, "last_name", "Last name is required.")
		return
	case email == "":
		uierrors.WriteValidation(w, "email", "Email is required.")
		return
	case len(req.Password) < minPasswordLen:
		uierrors.WriteValidation(w, "password", "Password must be at least 8 characters.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		FirstName:  first,
		MiddleName: htmlsanitize.Plain(req.MiddleName),
		LastName:   last,
		Email:      email,
		AuthMethod: "password",
	}, req.Password)
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			uierrors.WriteConflict(w, "email_taken", "An account with this email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "registration failed", err, "Could not create the account.")
		return
	}

	su := &auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName(), Email: u.Email}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "session create failed", err, "Could not sign you in.")
		return
	}

	h.AuditLog.Registered(ctx, r, u.ID, "password")
	h.Log.Info("user registered", zap.String("user_id", u.ID.Hex()))

	webutil.WriteJSON(w, http.StatusCreated, sessionView{ID: su.ID, Name: su.Name, Email: su.Email})
}

// HandleLogin signs a member in with email and password. Unknown emails and
// wrong passwords get the same answer.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" || req.Password == "" {
		uierrors.WriteValidation(w, "email", "Email and password are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Authenticate(ctx, email, req.Password)
	if err != nil {
		if err == userstore.ErrBadCredentials {
			h.AuditLog.SignInFailed(ctx, r, email, "bad_credentials")
			uierrors.WriteUnauthorized(w)
			return
		}
		h.ErrLog.LogServerError(w, r, "login failed", err, "Could not sign you in.")
		return
	}
	if u.Status == "disabled" {
		h.AuditLog.SignInFailed(ctx, r, email, "account_disabled")
		uierrors.WriteForbidden(w, "account_disabled", "This account is disabled.")
		return
	}

	su := &auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName(), Email: u.Email}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.ErrLog.LogServerError(w, r, "session create failed", err, "Could not sign you in.")
		return
	}

	h.AuditLog.SignedIn(ctx, r, u.ID, "password")
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	webutil.WriteJSON(w, http.StatusOK, sessionView{ID: su.ID, Name: su.Name, Email: su.Email})
}
