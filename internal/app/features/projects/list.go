// internal/app/features/projects/list.go
package projects

import (
	"context"
	"net/http"
	"regexp"

	uierrors "github.com/dalemusser/halloffame/internal/app/features/errors"
	commentstore "github.com/dalemusser/halloffame/internal/app/store/comments"
	likestore "github.com/dalemusser/halloffame/internal/app/store/likes"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
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

// ServeProjectsList lists projects with keyset pagination on the folded
// title. Optional filters: search (title prefix), tag, status, creator,
// open=1 (at least one open role slot).
// GET /projects
func (h *Handler) ServeProjectsList(w http.ResponseWriter, r *http.Request) {
	search := normalize.QueryParam(query.Get(r, "search"))
	tag := normalize.QueryParam(query.Get(r, "tag"))
	status := normalize.QueryParam(query.Get(r, "status"))
	creator := normalize.QueryParam(query.Get(r, "creator"))
	openOnly := query.Get(r, "open") == "1"
	before := query.Get(r, "before")
	after := query.Get(r, "after")

	filter := bson.M{}
	if search != "" {
		filter["title_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(search))}
	}
	if tag != "" {
		filter["tags"] = tag
	}
	if status != "" {
		filter["status"] = status
	}
	if creator != "" {
		cid, err := primitive.ObjectIDFromHex(creator)
		if err != nil {
			uierrors.WriteValidation(w, "creator", "Invalid creator id.")
			return
		}
		filter["creator_uid"] = cid
	}
	if openOnly {
		// Availability comes from the roster, never a stored flag.
		filter["roles"] = bson.M{"$elemMatch": bson.M{"user_id": nil}}
		filter["status"] = bson.M{"$ne": models.StatusArchived}
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

	rows, err := projectstore.New(h.DB).Find(ctx, filter, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "project list failed", err, "Could not load projects.")
		return
	}

	res := paging.TrimPage(&rows, before, after)
	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	items := make([]projectListItem, 0, len(rows))
	for _, p := range rows {
		items = append(items, newProjectListItem(p))
	}

	prev, next := paging.BuildCursors(rows,
		func(p models.Project) string { return p.TitleCI },
		func(p models.Project) primitive.ObjectID { return p.ID },
	)

	resp := projectListResponse{Projects: items, HasPrev: res.HasPrev, HasNext: res.HasNext}
	if res.HasPrev {
		resp.PrevCursor = prev
	}
	if res.HasNext {
		resp.NextCursor = next
	}
	webutil.WriteJSON(w, http.StatusOK, resp)
}

// ServeProjectView returns one project with roster and engagement counts.
// GET /projects/{id}
func (h *Handler) ServeProjectView(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := projectstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == projectstore.ErrNotFound {
			uierrors.WriteNotFound(w, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "project lookup failed", err, "Could not load the project.")
		return
	}

	v := newProjectView(p)
	if v.CommentCount, err = commentstore.New(h.DB).Count(ctx, bson.M{
		"target_type": models.TargetProject,
		"target_id":   p.ID,
	}); err != nil {
		h.Log.Warn("comment count failed", zap.String("project_id", v.ID), zap.Error(err))
	}
	if v.LikeCount, err = likestore.New(h.DB).CountByTarget(ctx, models.TargetProject, p.ID); err != nil {
		h.Log.Warn("like count failed", zap.String("project_id", v.ID), zap.Error(err))
	}
	webutil.WriteJSON(w, http.StatusOK, v)
}
