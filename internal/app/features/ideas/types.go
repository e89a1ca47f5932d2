// internal/app/features/ideas/types.go
package ideas

import (
	"time"

	"github.com/dalemusser/halloffame/internal/domain/models"
)

// createIdeaRequest is the JSON body for POST /ideas.
type createIdeaRequest struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// editIdeaRequest is the JSON body for POST /ideas/{id}/edit.
type editIdeaRequest struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// ideaView is the JSON shape returned for a single idea.
type ideaView struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Summary            string    `json:"summary"`
	Tags               []string  `json:"tags"`
	CreatorUID         string    `json:"creator_uid"`
	CreatorName        string    `json:"creator_name"`
	ConvertedToProject bool      `json:"converted_to_project"`
	ProjectID          string    `json:"project_id,omitempty"`
	MediaURLs          []string  `json:"media_urls,omitempty"`
	CommentCount       int64     `json:"comment_count"`
	LikeCount          int64     `json:"like_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// ideaListItem is the JSON shape for idea list rows.
type ideaListItem struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Summary            string    `json:"summary"`
	Tags               []string  `json:"tags"`
	CreatorName        string    `json:"creator_name"`
	ConvertedToProject bool      `json:"converted_to_project"`
	CreatedAt          time.Time `json:"created_at"`
}

// ideaListResponse is the JSON body for GET /ideas.
type ideaListResponse struct {
	Ideas      []ideaListItem `json:"ideas"`
	HasPrev    bool           `json:"has_prev"`
	HasNext    bool           `json:"has_next"`
	PrevCursor string         `json:"prev_cursor,omitempty"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// conversionDraft is the prefilled project configuration returned by
// GET /ideas/{id}/convert for the creator to edit before confirming.
type conversionDraft struct {
	Title          string   `json:"title"`
	ProjectSummary string   `json:"project_summary"`
	SkillsRequired []string `json:"skills_required"`
	ProjectTags    []string `json:"project_tags"`
}

func newIdeaListItem(i models.Idea) ideaListItem {
	return ideaListItem{
		ID:                 i.ID.Hex(),
		Title:              i.Title,
		Summary:            i.Summary,
		Tags:               i.Tags,
		CreatorName:        i.CreatorName,
		ConvertedToProject: i.ConvertedToProject,
		CreatedAt:          i.CreatedAt,
	}
}
