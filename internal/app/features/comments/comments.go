// internal/app/features/comments/comments.go
package comments

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	commentstore "github.com/dalemusser/halloffame/internal/app/store/comments"
	likestore "github.com/dalemusser/halloffame/internal/app/store/likes"
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

// commentListLimit caps one comment page; targets with heavier threads
// paginate in the UI by created_at.
const commentListLimit = 200

type addCommentRequest struct {
	Body string `json:"body"`
}

type commentView struct {
	ID         string    `json:"id"`
	AuthorUID  string    `json:"author_uid"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func newCommentView(c models.Comment) commentView {
	return commentView{
		ID:         c.ID.Hex(),
		AuthorUID:  c.AuthorUID.Hex(),
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}

// ServeCommentsList returns a target's comments, oldest first.
// GET /comments/{type}/{id}
func (h *Handler) ServeCommentsList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	targetType, targetID, ok := h.targetParams(ctx, w, r)
	if !ok {
		return
	}

	rows, err := commentstore.New(h.DB).ListByTarget(ctx, targetType, targetID, commentListLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "comment list failed", err, "Could not load comments.")
		return
	}

	views := make([]commentView, 0, len(rows))
	for _, c := range rows {
		views = append(views, newCommentView(c))
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]any{"comments": views})
}

// HandleAddComment posts a comment on an idea or project.
// POST /comments/{type}/{id}
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	uid, name, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	var req addCommentRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}
	body := htmlsanitize.Summary(req.Body)
	if body == "" {
		uierrors.WriteValidation(w, "body", "Comment body is required.")
		return
	}
	if len(body) > limits.MaxSummaryLen {
		uierrors.WriteValidation(w, "body", "Comment is too long.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	targetType, targetID, ok := h.targetParams(ctx, w, r)
	if !ok {
		return
	}

	c, err := commentstore.New(h.DB).Create(ctx, models.Comment{
		TargetType: targetType,
		TargetID:   targetID,
		AuthorUID:  uid,
		AuthorName: name,
		Body:       body,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "comment create failed", err, "Could not post the comment.")
		return
	}

	h.Log.Debug("comment added",
		zap.String("target_type", targetType),
		zap.String("target_id", targetID.Hex()),
		zap.String("author_uid", uid.Hex()),
	)
	webutil.WriteJSON(w, http.StatusCreated, newCommentView(c))
}

// HandleDeleteComment removes the signed-in user's own comment. Deleting
// someone else's comment reads as not-found, not forbidden.
// POST /comments/{id}/delete
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	hex := normalize.QueryParam(chi.URLParam(r, "id"))
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		uierrors.WriteNotFound(w, "Comment not found.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := commentstore.New(h.DB).DeleteOwn(ctx, id, uid); err != nil {
		if err == commentstore.ErrNotFound {
			uierrors.WriteNotFound(w, "Comment not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "comment delete failed", err, "Could not delete the comment.")
		return
	}
	webutil.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// HandleToggleLike flips the signed-in user's like on an idea or project.
// The unique index on (target, user) makes concurrent toggles settle on
// one state instead of double-counting.
// POST /comments/{type}/{id}/like
func (h *Handler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	targetType, targetID, ok := h.targetParams(ctx, w, r)
	if !ok {
		return
	}

	likes := likestore.New(h.DB)
	liked, err := likes.Toggle(ctx, targetType, targetID, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "like toggle failed", err, "Could not update the like.")
		return
	}
	count, err := likes.CountByTarget(ctx, targetType, targetID)
	if err != nil {
		h.Log.Warn("like count failed", zap.String("target_id", targetID.Hex()), zap.Error(err))
	}

	webutil.WriteJSON(w, http.StatusOK, map[string]any{
		"liked":      liked,
		"like_count": count,
	})
}
