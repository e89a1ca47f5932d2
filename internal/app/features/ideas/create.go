// internal/app/features/ideas/create.go
package ideas

import (
	"context"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
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

// HandleCreateIdea creates a new idea for the signed-in user.
// POST /ideas
func (h *Handler) HandleCreateIdea(w http.ResponseWriter, r *http.Request) {
	uid, name, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	var req createIdeaRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		uierrors.WriteBadRequest(w, "Invalid JSON body.")
		return
	}

	title := htmlsanitize.Plain(req.Title)
	summary := htmlsanitize.Summary(req.Summary)
	tags := normalize.Tags(htmlsanitize.PlainAll(req.Tags))

	if field, msg, ok := validateIdeaFields(title, summary, tags); !ok {
		uierrors.WriteValidation(w, field, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	idea, err := ideastore.New(h.DB).Create(ctx, models.Idea{
		Title:       title,
		Summary:     summary,
		Tags:        tags,
		CreatorUID:  uid,
		CreatorName: name,
	})
	if err != nil {
		if err == ideastore.ErrQuotaExceeded {
			uierrors.WriteQuotaExceeded(w, fmt.Sprintf(
				"You can post at most %d ideas per day.", limits.MaxIdeasPerDay))
			return
		}
		h.ErrLog.LogServerError(w, r, "idea create failed", err, "Could not create the idea.")
		return
	}

	h.AuditLog.IdeaCreated(ctx, r, uid, idea.ID, idea.Title)
	h.Log.Info("idea created",
		zap.String("idea_id", idea.ID.Hex()),
		zap.String("creator_uid", uid.Hex()),
	)

	webutil.WriteJSON(w, http.StatusCreated, h.ideaViewOf(ctx, idea))
}

// validateIdeaFields checks the owner-supplied idea fields. Returns the
// offending field name and message when invalid.
func validateIdeaFields(title, summary string, tags []string) (field, msg string, ok bool) {
	switch {
	case title == "":
		return "title", "Title is required.", false
	case len(title) > limits.MaxTitleLen:
		return "title", fmt.Sprintf("Title must be at most %d characters.", limits.MaxTitleLen), false
	case summary == "":
		return "summary", "Summary is required.", false
	case len(summary) > limits.MaxSummaryLen:
		return "summary", fmt.Sprintf("Summary must be at most %d characters.", limits.MaxSummaryLen), false
	case len(tags) > limits.MaxTags:
		return "tags", fmt.Sprintf("At most %d tags are allowed.", limits.MaxTags), false
	}
	return "", "", true
}

// HandleUploadMedia attaches one uploaded file to an idea (owner-only).
// If linking the stored file to the idea fails, the file is removed again
// so no orphaned media is left behind.
// POST /ideas/{id}/media (multipart, field "file")
func (h *Handler) HandleUploadMedia(w http.ResponseWriter, r *http.Request) {
	uid, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	ideaID, ok := h.ideaIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := ideastore.New(h.DB)
	idea, err := store.GetByID(ctx, ideaID)
	if err != nil {
		if err == ideastore.ErrNotFound {
			uierrors.WriteNotFound(w, "Idea not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "idea lookup failed", err, "Could not load the idea.")
		return
	}
	if idea.CreatorUID != uid {
		uierrors.WritePermissionDenied(w, "Only the idea's creator can attach media.")
		return
	}

	if err := r.ParseMultipartForm(limits.MaxMediaUploadSize); err != nil {
		uierrors.WriteBadRequest(w, "Upload too large or malformed.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		uierrors.WriteValidation(w, "file", "A file upload is required.")
		return
	}
	defer file.Close()

	rel, err := h.Media.Save(header.Filename, file)
	if err != nil {
		uierrors.WriteValidation(w, "file", err.Error())
		return
	}

	if err := store.AddMedia(ctx, ideaID, rel); err != nil {
		// Compensate: never leave an orphaned file on disk.
		if delErr := h.Media.Delete(rel); delErr != nil {
			h.Log.Error("orphaned media cleanup failed",
				zap.String("path", rel), zap.Error(delErr))
		}
		h.ErrLog.LogServerError(w, r, "idea media link failed", err, "Could not attach the file.")
		return
	}

	webutil.WriteJSON(w, http.StatusCreated, map[string]string{
		"path": rel,
		"url":  h.Media.URL(rel),
	})
}

// ideaIDParam parses the {id} route parameter, writing a 404 on failure.
func (h *Handler) ideaIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	hex := normalize.QueryParam(chi.URLParam(r, "id"))
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		uierrors.WriteNotFound(w, "Idea not found.")
		return primitive.NilObjectID, false
	}
	return id, true
}
