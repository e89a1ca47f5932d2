// internal/app/features/projects/config.go
package projects

import (
	"fmt"
	"time"

	"github.com/dalemusser/halloffame/internal/app/system/htmlsanitize"
	"github.com/dalemusser/halloffame/internal/app/system/limits"
	"github.com/dalemusser/halloffame/internal/app/system/normalize"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// completionDateLayout is the wire form of expected_completion_date.
const completionDateLayout = "2006-01-02"

// Config is the user-supplied configuration for creating a project, either
// directly or by converting an idea. UserRole is the role title the creator
// takes on the roster.
type Config struct {
	Title                  string   `json:"title"`
	TeamSize               int      `json:"team_size"`
	ExpectedCompletionDate string   `json:"expected_completion_date"`
	SkillsRequired         []string `json:"skills_required"`
	ProjectTags            []string `json:"project_tags"`
	AreaOfInterest         string   `json:"area_of_interest"`
	ProjectSummary         string   `json:"project_summary"`
	UserRole               string   `json:"user_role"`
}

// SanitizeConfig strips markup from every user-supplied field and
// normalizes the tag and skill lists.
func SanitizeConfig(cfg Config) Config {
	cfg.Title = htmlsanitize.Plain(cfg.Title)
	cfg.ProjectSummary = htmlsanitize.Summary(cfg.ProjectSummary)
	cfg.AreaOfInterest = htmlsanitize.Plain(cfg.AreaOfInterest)
	cfg.UserRole = htmlsanitize.Plain(cfg.UserRole)
	cfg.SkillsRequired = normalize.Tags(htmlsanitize.PlainAll(cfg.SkillsRequired))
	cfg.ProjectTags = normalize.Tags(htmlsanitize.PlainAll(cfg.ProjectTags))
	return cfg
}

// ValidateConfig checks a sanitized Config. Returns the parsed completion
// date and, when invalid, the offending field name with a message. The
// completion date may not fall before the current UTC calendar day.
func ValidateConfig(cfg Config, now time.Time) (completion time.Time, field, msg string, ok bool) {
	switch {
	case cfg.Title == "":
		return completion, "title", "Title is required.", false
	case len(cfg.Title) > limits.MaxTitleLen:
		return completion, "title",
			fmt.Sprintf("Title must be at most %d characters.", limits.MaxTitleLen), false
	case cfg.TeamSize < limits.TeamSizeMin || cfg.TeamSize > limits.TeamSizeMax:
		return completion, "team_size",
			fmt.Sprintf("Team size must be between %d and %d.", limits.TeamSizeMin, limits.TeamSizeMax), false
	case cfg.ProjectSummary == "":
		return completion, "project_summary", "Project summary is required.", false
	case len(cfg.ProjectSummary) > limits.MaxSummaryLen:
		return completion, "project_summary",
			fmt.Sprintf("Project summary must be at most %d characters.", limits.MaxSummaryLen), false
	case cfg.AreaOfInterest == "":
		return completion, "area_of_interest", "Area of interest is required.", false
	case cfg.UserRole == "":
		return completion, "user_role", "Your role on the project is required.", false
	case len(cfg.ProjectTags) > limits.MaxTags:
		return completion, "project_tags",
			fmt.Sprintf("At most %d tags are allowed.", limits.MaxTags), false
	}

	parsed, err := time.Parse(completionDateLayout, cfg.ExpectedCompletionDate)
	if err != nil {
		return completion, "expected_completion_date", "Use the YYYY-MM-DD date form.", false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if parsed.Before(today) {
		return completion, "expected_completion_date", "Completion date cannot be in the past.", false
	}
	return parsed, "", "", true
}

// BuildRoleSlots builds the initial roster: slot 0 is the creator in their
// chosen role (Active, joined now), slots 1..teamSize-1 are open with
// empty role titles until the project owner names them.
func BuildRoleSlots(cfg Config, creator primitive.ObjectID, now time.Time) []models.RoleSlot {
	slots := make([]models.RoleSlot, cfg.TeamSize)
	creatorID := creator
	joined := now.UTC()
	slots[0] = models.RoleSlot{
		Role:     cfg.UserRole,
		UserID:   &creatorID,
		Status:   models.RoleActive,
		JoinedAt: &joined,
	}
	for i := 1; i < cfg.TeamSize; i++ {
		slots[i] = models.RoleSlot{Status: models.RoleOpen}
	}
	return slots
}
