// internal/app/features/ideas/list.go
package ideas

import (
	"context"
	"net/http"
	"regexp"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	commentstore "github.com/dalemusser/halloffame/internal/app/store/comments"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
	likestore "github.com/dalemusser/halloffame/internal/app/store/likes"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/app/system/paging"
	"github.com/dalemusser/halloffame/internal/app/system/timeouts"
	"github.com/dalemusser/halloffame/internal/app/system/webutil"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ServeIdeasList lists ideas with keyset pagination on the folded title.
// Optional filters: search (title prefix), tag, creator, unconverted=1.
// GET /ideas
func (h *Handler) ServeIdeasList(w http.ResponseWriter, r *http.Request) {
	search := normalize.QueryParam(query.Get(r, "search"))
	tag := normalize.QueryParam(query.Get(r, "tag"))
	creator := normalize.QueryParam(query.Get(r, "creator"))
	unconverted := query.Get(r, "unconverted") == "1"
	before := query.Get(r, "before")
	after := query.Get(r, "after")

	filter := bson.M{}
	if search != "" {
		filter["title_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(search))}
	}
	if tag != "" {
		filter["tags"] = tag
	}
	if creator != "" {
		cid, err := primitive.ObjectIDFromHex(creator)
		if err != nil {
			uierrors.WriteValidation(w, "creator", "Invalid creator id.")
			return
		}
		filter["creator_uid"] = cid
	}
	if unconverted {
		filter["converted_to_project"] = false
	}

	cfg := paging.ConfigureKeyset(before, after)
	if win := cfg.KeysetWindow("title_ci"); win != nil {
		for k, v := range win {
			filter[k] = v
		}
	}

	find := options.Find()
	cfg.ApplyToFind(find, "title_ci")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := ideastore.New(h.DB).Find(ctx, filter, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "idea list failed", err, "Could not load ideas.")
		return
	}

	res := paging.TrimPage(&rows, before, after)
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	items := make([]ideaListItem, 0, len(rows))
	for _, i := range rows {
		items = append(items, newIdeaListItem(i))
	}

	prev, next := paging.BuildCursors(rows,
		func(i models.Idea) string { return i.TitleCI },
		func(i models.Idea) primitive.ObjectID { return i.ID },
	)

	resp := ideaListResponse{Ideas: items, HasPrev: res.HasPrev, HasNext: res.HasNext}
	if res.HasPrev {
		resp.PrevCursor = prev
	}
	if res.HasNext {
		resp.NextCursor = next
	}
	webutil.WriteJSON(w, http.StatusOK, resp)
}

// ServeIdeaView returns one idea with its media URLs and engagement counts.
// GET /ideas/{id}
func (h *Handler) ServeIdeaView(w http.ResponseWriter, r *http.Request) {
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

	webutil.WriteJSON(w, http.StatusOK, h.ideaViewOf(ctx, idea))
}

// ideaViewOf assembles the full idea view. Count lookups are best-effort;
// a failed count renders as zero rather than failing the whole page.
func (h *Handler) ideaViewOf(ctx context.Context, idea models.Idea) ideaView {
	v := ideaView{
		ID:                 idea.ID.Hex(),
		Title:              idea.Title,
		Summary:            idea.Summary,
		Tags:               idea.Tags,
		CreatorUID:         idea.CreatorUID.Hex(),
		CreatorName:        idea.CreatorName,
		ConvertedToProject: idea.ConvertedToProject,
		CreatedAt:          idea.CreatedAt,
	}
	if idea.ProjectID != nil {
		v.ProjectID = idea.ProjectID.Hex()
	}
	for _, p := range idea.MediaPaths {
		v.MediaURLs = append(v.MediaURLs, h.Media.URL(p))
	}

	var err error
	if v.CommentCount, err = commentstore.New(h.DB).Count(ctx, bson.M{
		"target_type": models.TargetIdea,
		"target_id":   idea.ID,
	}); err != nil {
		h.Log.Warn("comment count failed", zap.String("idea_id", v.ID), zap.Error(err))
	}
	if v.LikeCount, err = likestore.New(h.DB).CountByTarget(ctx, models.TargetIdea, idea.ID); err != nil {
		h.Log.Warn("like count failed", zap.String("idea_id", v.ID), zap.Error(err))
	}
	return v
}
