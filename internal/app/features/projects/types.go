// internal/app/features/projects/types.go
package projects

import (
	"time"

	"github.com/dalemusser/halloffame/internal/domain/models"
)

// roleView is one roster slot as shown to readers. The holder's id is
// exposed so the UI can mark the viewer's own slot.
type roleView struct {
	Index    int        `json:"index"`
	Role     string     `json:"role"`
	SubRole  string     `json:"sub_role,omitempty"`
	Status   string     `json:"status"`
	UserID   string     `json:"user_id,omitempty"`
	JoinedAt *time.Time `json:"joined_at,omitempty"`
}

// projectView is the JSON shape returned for a single project. Availability
// is always computed from the roster, never stored.
type projectView struct {
	ID                     string     `json:"id"`
	Title                  string     `json:"title"`
	Summary                string     `json:"summary"`
	Tags                   []string   `json:"tags,omitempty"`
	SkillsRequired         []string   `json:"skills_required,omitempty"`
	AreaOfInterest         string     `json:"area_of_interest"`
	TeamSize               int        `json:"team_size"`
	ExpectedCompletionDate time.Time  `json:"expected_completion_date"`
	Status                 string     `json:"status"`
	CreatorUID             string     `json:"creator_uid"`
	OriginatingIdeaID      string     `json:"originating_idea_id,omitempty"`
	Roles                  []roleView `json:"roles"`
	FilledSlots            int        `json:"filled_slots"`
	OpenSlots              int        `json:"open_slots"`
	CommentCount           int64      `json:"comment_count"`
	LikeCount              int64      `json:"like_count"`
	CreatedAt              time.Time  `json:"created_at"`
}

// projectListItem is the JSON shape for project list rows.
type projectListItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Tags        []string  `json:"tags,omitempty"`
	Status      string    `json:"status"`
	TeamSize    int       `json:"team_size"`
	FilledSlots int       `json:"filled_slots"`
	OpenSlots   int       `json:"open_slots"`
	CreatedAt   time.Time `json:"created_at"`
}

// projectListResponse is the JSON body for GET /projects.
type projectListResponse struct {
	Projects   []projectListItem `json:"projects"`
	HasPrev    bool              `json:"has_prev"`
	HasNext    bool              `json:"has_next"`
	PrevCursor string            `json:"prev_cursor,omitempty"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// editProjectRequest is the JSON body for POST /projects/{id}/edit.
type editProjectRequest struct {
	Summary                string   `json:"summary"`
	Tags                   []string `json:"tags"`
	SkillsRequired         []string `json:"skills_required"`
	AreaOfInterest         string   `json:"area_of_interest"`
	ExpectedCompletionDate string   `json:"expected_completion_date"`
	Status                 string   `json:"status"`
}

// editRoleTitleRequest is the JSON body for POST /projects/{id}/roles/{index}.
type editRoleTitleRequest struct {
	Role    string `json:"role"`
	SubRole string `json:"sub_role"`
}

func newProjectListItem(p models.Project) projectListItem {
	return projectListItem{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		Summary:     p.Summary,
		Tags:        p.Tags,
		Status:      p.Status,
		TeamSize:    p.TeamSize,
		FilledSlots: p.FilledSlots(),
		OpenSlots:   p.OpenSlots(),
		CreatedAt:   p.CreatedAt,
	}
}

func newProjectView(p models.Project) projectView {
	v := projectView{
		ID:                     p.ID.Hex(),
		Title:                  p.Title,
		Summary:                p.Summary,
		Tags:                   p.Tags,
		SkillsRequired:         p.SkillsRequired,
		AreaOfInterest:         p.AreaOfInterest,
		TeamSize:               p.TeamSize,
		ExpectedCompletionDate: p.ExpectedCompletionDate,
		Status:                 p.Status,
		CreatorUID:             p.CreatorUID.Hex(),
		FilledSlots:            p.FilledSlots(),
		OpenSlots:              p.OpenSlots(),
		CreatedAt:              p.CreatedAt,
	}
	if p.OriginatingIdeaID != nil {
		v.OriginatingIdeaID = p.OriginatingIdeaID.Hex()
	}
	v.Roles = make([]roleView, len(p.Roles))
	for i, rs := range p.Roles {
		rv := roleView{
			Index:    i,
			Role:     rs.Role,
			SubRole:  rs.SubRole,
			Status:   rs.Status,
			JoinedAt: rs.JoinedAt,
		}
		if rs.UserID != nil {
			rv.UserID = rs.UserID.Hex()
		}
		v.Roles[i] = rv
	}
	return v
}
