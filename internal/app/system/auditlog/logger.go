// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/halloffame/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, registration).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Domain controls logging for domain events (idea/project CRUD, conversion, role changes).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Domain string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// NewNopLogger returns a Logger with everything disabled. For tests.
func NewNopLogger() *Logger {
	return &Logger{zapLog: zap.NewNop(), config: Config{Auth: "off", Domain: "off"}}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func modeFor(category string, cfg Config) string {
	if category == audit.CategoryAuth {
		return cfg.Auth
	}
	return cfg.Domain
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.TargetID != nil {
		fields = append(fields, zap.String(event.TargetType+"_id", event.TargetID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	if event.Detail != "" {
		fields = append(fields, zap.String("detail", event.Detail))
	}
	l.zapLog.Info("audit event", fields...)
}

// record dispatches the event according to the configured mode. Store
// failures are logged but never fail the caller's request.
func (l *Logger) record(ctx context.Context, ev audit.Event) {
	mode := modeFor(ev.Category, l.config)
	if mode == "off" {
		return
	}
	if mode == "all" || mode == "log" {
		l.logToZap(ev)
	}
	if (mode == "all" || mode == "db") && l.store != nil {
		if err := l.store.Insert(ctx, ev); err != nil {
			l.zapLog.Warn("audit event insert failed",
				zap.String("event_type", ev.EventType), zap.Error(err))
		}
	}
}

/* ---------------------------- auth events ---------------------------- */

// SignedIn records a successful sign-in.
func (l *Logger) SignedIn(ctx context.Context, r *http.Request, uid primitive.ObjectID, method string) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryAuth, EventType: "signed_in",
		ActorID: &uid, Success: true, IP: getClientIP(r), Detail: method,
	})
}

// SignInFailed records a failed sign-in attempt.
func (l *Logger) SignInFailed(ctx context.Context, r *http.Request, email, reason string) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryAuth, EventType: "sign_in_failed",
		Success: false, IP: getClientIP(r), FailureReason: reason, Detail: email,
	})
}

// Registered records a new account.
func (l *Logger) Registered(ctx context.Context, r *http.Request, uid primitive.ObjectID, method string) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryAuth, EventType: "registered",
		ActorID: &uid, Success: true, IP: getClientIP(r), Detail: method,
	})
}

// SignedOut records a sign-out.
func (l *Logger) SignedOut(ctx context.Context, r *http.Request, uid primitive.ObjectID) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryAuth, EventType: "signed_out",
		ActorID: &uid, Success: true, IP: getClientIP(r),
	})
}

/* --------------------------- domain events --------------------------- */

// IdeaCreated records a new idea.
func (l *Logger) IdeaCreated(ctx context.Context, r *http.Request, uid, ideaID primitive.ObjectID, title string) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryDomain, EventType: "idea_created",
		ActorID: &uid, TargetType: "idea", TargetID: &ideaID, Success: true,
		IP: getClientIP(r), Detail: title,
	})
}

// IdeaConverted records a successful idea → project conversion.
func (l *Logger) IdeaConverted(ctx context.Context, r *http.Request, uid, ideaID, projectID primitive.ObjectID) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryDomain, EventType: "idea_converted",
		ActorID: &uid, TargetType: "idea", TargetID: &ideaID, Success: true,
		IP: getClientIP(r), Detail: projectID.Hex(),
	})
}

// ProjectCreated records a new project (direct creation).
func (l *Logger) ProjectCreated(ctx context.Context, r *http.Request, uid, projectID primitive.ObjectID, title string) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryDomain, EventType: "project_created",
		ActorID: &uid, TargetType: "project", TargetID: &projectID, Success: true,
		IP: getClientIP(r), Detail: title,
	})
}

// RoleJoined records a member claiming a role slot.
func (l *Logger) RoleJoined(ctx context.Context, r *http.Request, uid, projectID primitive.ObjectID, role string) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryDomain, EventType: "role_joined",
		ActorID: &uid, TargetType: "project", TargetID: &projectID, Success: true,
		IP: getClientIP(r), Detail: role,
	})
}

// RoleLeft records a member leaving a role slot.
func (l *Logger) RoleLeft(ctx context.Context, r *http.Request, uid, projectID primitive.ObjectID) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryDomain, EventType: "role_left",
		ActorID: &uid, TargetType: "project", TargetID: &projectID, Success: true,
		IP: getClientIP(r),
	})
}

// ProjectArchived records a project being archived by its creator.
func (l *Logger) ProjectArchived(ctx context.Context, r *http.Request, uid, projectID primitive.ObjectID) {
	l.record(ctx, audit.Event{
		Category: audit.CategoryDomain, EventType: "project_archived",
		ActorID: &uid, TargetType: "project", TargetID: &projectID, Success: true,
		IP: getClientIP(r),
	})
}
