// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/authz"
	"github.com/dalemusser/halloffame/internal/app/system/htmlsanitize"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type updateProfileRequest struct {
	FirstName      string   `json:"first_name"`
	MiddleName     string   `json:"middle_name"`
	LastName       string   `json:"last_name"`
	Skills         []string `json:"skills"`
	Tools          []string `json:"tools"`
	AreaOfInterest string   `json:"area_of_interest"`
}

// ownProfileView includes email and preferences; only the owner sees it.
type ownProfileView struct {
	ID             string                   `json:"id"`
	FirstName      string                   `json:"first_name"`
	MiddleName     string                   `json:"middle_name,omitempty"`
	LastName       string                   `json:"last_name"`
	Email          string                   `json:"email"`
	AuthMethod     string                   `json:"auth_method,omitempty"`
	Skills         []string                 `json:"skills,omitempty"`
	Tools          []string                 `json:"tools,omitempty"`
	AreaOfInterest string                   `json:"area_of_interest,omitempty"`
	CurrentProject *models.CurrentProject   `json:"current_project,omitempty"`
	Notifications  models.NotificationPrefs `json:"notifications"`
	CreatedAt      time.Time                `json:"created_at"`
}

// publicProfileView omits email, preferences, and bookmarks.
type publicProfileView struct {
	ID             string                 `json:"id"`
	FullName       string                 `json:"full_name"`
	Skills         []string               `json:"skills,omitempty"`
	Tools          []string               `json:"tools,omitempty"`
	AreaOfInterest string                 `json:"area_of_interest,omitempty"`
	CurrentProject *models.CurrentProject `json:"current_project,omitempty"`
}

// ServeOwnProfile returns the signed-in user's full profile.
// GET /profile
func (h *Handler) ServeOwnProfile(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile lookup failed", err, "Could not load your profile.")
		return
	}

	webutil.WriteJSON(w, http.StatusOK, ownProfileView{
		ID:             u.ID.Hex(),
		FirstName:      u.FirstName,
		MiddleName:     u.MiddleName,
		LastName:       u.LastName,
		Email:          u.Email,
		AuthMethod:     u.AuthMethod,
		Skills:         u.Skills,
		Tools:          u.Tools,
		AreaOfInterest: u.AreaOfInterest,
		CurrentProject: u.CurrentProject,
		Notifications:  u.Notifications,
		CreatedAt:      u.CreatedAt,
	})
}

// ServePublicProfile returns another member's public profile.
// GET /profile/{id}
func (h *Handler) ServePublicProfile(w http.ResponseWriter, r *http.Request) {
	hex := normalize.QueryParam(chi.URLParam(r, "id"))
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		uierrors.WriteNotFound(w, "Member not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == userstore.ErrNotFound {
			uierrors.WriteNotFound(w, "Member not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "profile lookup failed", err, "Could not load the profile.")
		return
	}

	webutil.WriteJSON(w, http.StatusOK, publicProfileView{
		ID:             u.ID.Hex(),
		FullName:       u.FullName(),
		Skills:         u.Skills,
		Tools:          u.Tools,
		AreaOfInterest: u.AreaOfInterest,
		CurrentProject: u.CurrentProject,
	})
}

// HandleUpdateProfile replaces the signed-in user's editable profile fields.
// POST /profile
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	var req updateProfileRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}

	first := htmlsanitize.Plain(req.FirstName)
	last := htmlsanitize.Plain(req.LastName)
	if first == "" {
		uierrors.WriteValidation(w, "first_name", "First name is required.")
		return
	}
	if last == "" {
		uierrors.WriteValidation(w, "last_name", "Last name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := userstore.New(h.DB).UpdateProfile(ctx, uid, userstore.ProfileUpdate{
		FirstName:      first,
		MiddleName:     htmlsanitize.Plain(req.MiddleName),
		LastName:       last,
		Skills:         normalize.Tags(htmlsanitize.PlainAll(req.Skills)),
		Tools:          normalize.Tags(htmlsanitize.PlainAll(req.Tools)),
		AreaOfInterest: htmlsanitize.Plain(req.AreaOfInterest),
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "profile update failed", err, "Could not update your profile.")
		return
	}

	h.Log.Debug("profile updated", zap.String("user_id", uid.Hex()))
	h.ServeOwnProfile(w, r)
}

// HandleUpdateNotifications replaces the notification preference block.
// POST /profile/notifications
func (h *Handler) HandleUpdateNotifications(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	var prefs models.NotificationPrefs
	if err := webutil.DecodeJSON(r, &prefs); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := userstore.New(h.DB).UpdateNotificationPrefs(ctx, uid, prefs); err != nil {
		h.ErrLog.LogServerError(w, r, "notification prefs update failed", err, "Could not save preferences.")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, prefs)
}

// ServeBookmarks returns the user's bookmarked projects, newest first by
// bookmark insertion order.
// GET /profile/bookmarks
func (h *Handler) ServeBookmarks(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile lookup failed", err, "Could not load bookmarks.")
		return
	}
	if len(u.BookmarkedProjects) == 0 {
		webutil.WriteJSON(w, http.StatusOK, map[string]any{"projects": []any{}})
		return
	}

	rows, err := projectstore.New(h.DB).Find(ctx,
		bson.M{"_id": bson.M{"$in": u.BookmarkedProjects}},
		options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}}),
	)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bookmark list failed", err, "Could not load bookmarks.")
		return
	}

	type row struct {
		ID        string   `json:"id"`
		Title     string   `json:"title"`
		Status    string   `json:"status"`
		Tags      []string `json:"tags,omitempty"`
		OpenSlots int      `json:"open_slots"`
	}
	out := make([]row, 0, len(rows))
	for _, p := range rows {
		out = append(out, row{
			ID:        p.ID.Hex(),
			Title:     p.Title,
			Status:    p.Status,
			Tags:      p.Tags,
			OpenSlots: p.OpenSlots(),
		})
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]any{"projects": out})
}
