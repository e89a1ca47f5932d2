// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	authgooglefeature "github.com/dalemusser/halloffame/internal/app/features/authgoogle"
	commentsfeature "github.com/dalemusser/halloffame/internal/app/features/comments"
	errorsfeature "github.com/dalemusser/halloffame/internal/app/features/errors"
	healthfeature "github.com/dalemusser/halloffame/internal/app/features/health"
	ideasfeature "github.com/dalemusser/halloffame/internal/app/features/ideas"
	loginfeature "github.com/dalemusser/halloffame/internal/app/features/login"
	logoutfeature "github.com/dalemusser/halloffame/internal/app/features/logout"
	profilefeature "github.com/dalemusser/halloffame/internal/app/features/profile"
	projectsfeature "github.com/dalemusser/halloffame/internal/app/features/projects"
	auditstore "github.com/dalemusser/halloffame/internal/app/store/audit"
	"github.com/dalemusser/halloffame/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/auditlog"
	"github.com/dalemusser/halloffame/internal/app/system/auth"
	"github.com/dalemusser/halloffame/internal/app/system/media"
	"github.com/dalemusser/halloffame/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, the
// shared audit/error loggers, and the per-client write rate limiter, then
// mounts the feature routers. Everything except /health, /auth, and stored
// media sits behind RequireSignedIn.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request so disabled accounts and profile
	// changes take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Domain: appCfg.AuditLogDomain,
	})
	mediaStore := media.New(appCfg.MediaLocalPath, appCfg.MediaLocalURL)
	writeLimit := ratelimit.New(appCfg.WriteRateLimit, time.Duration(appCfg.WriteRateWindow)*time.Second)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Stored media (idea attachments), served with pre-compressed support
	r.Handle(appCfg.MediaLocalURL+"/*", fileserver.Handler(appCfg.MediaLocalURL, appCfg.MediaLocalPath))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/auth/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		db, sessionMgr, errLog, auditLog, oauthstate.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Signed-in application surface
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		ideasHandler := ideasfeature.NewHandler(db, mediaStore, errLog, auditLog, logger)
		pr.Mount("/ideas", ideasfeature.Routes(ideasHandler, writeLimit))

		projectsHandler := projectsfeature.NewHandler(db, errLog, auditLog, logger)
		pr.Mount("/projects", projectsfeature.Routes(projectsHandler, writeLimit))

		commentsHandler := commentsfeature.NewHandler(db, errLog, logger)
		pr.Mount("/comments", commentsfeature.Routes(commentsHandler, writeLimit))

		profileHandler := profilefeature.NewHandler(db, errLog, logger)
		pr.Mount("/profile", profilefeature.Routes(profileHandler, writeLimit))
	})

	return r, nil
}
