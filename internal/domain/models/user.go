// internal/domain/models/user.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered member.
//
// NOTE:
//   - Role-slot membership is authoritative on Project.Roles.
//     CurrentProject is a denormalized pointer to the most recent
//     project the user joined or created; it can lag behind Roles
//     and must never be used for availability decisions.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	MiddleName string             `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	LastName   string             `bson:"last_name" json:"last_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	AuthMethod string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // "password" | "google"
	PassHash   string             `bson:"pass_hash,omitempty" json:"-"`
	Status     string             `bson:"status,omitempty" json:"status,omitempty"`

	Skills         []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Tools          []string `bson:"tools,omitempty" json:"tools,omitempty"`
	AreaOfInterest string   `bson:"area_of_interest,omitempty" json:"area_of_interest,omitempty"`

	CurrentProject     *CurrentProject      `bson:"current_project,omitempty" json:"current_project,omitempty"`
	BookmarkedProjects []primitive.ObjectID `bson:"bookmarked_projects,omitempty" json:"bookmarked_projects,omitempty"`

	Notifications NotificationPrefs `bson:"notifications" json:"notifications"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName joins the name parts, skipping empty middle names.
func (u User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// CurrentProject is the denormalized "one project this user is primarily
// associated with" pointer. Set by project creation and by joining a role;
// cleared when the user leaves that project.
type CurrentProject struct {
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	Role      string             `bson:"role" json:"role"`
	JoinedAt  time.Time          `bson:"joined_at" json:"joined_at"`
}

// NotificationPrefs controls which events generate notifications for a user.
type NotificationPrefs struct {
	ProjectActivity bool `bson:"project_activity" json:"project_activity"`
	CommentReplies  bool `bson:"comment_replies" json:"comment_replies"`
	IdeaActivity    bool `bson:"idea_activity" json:"idea_activity"`
	WeeklyDigest    bool `bson:"weekly_digest" json:"weekly_digest"`
}

// DefaultNotificationPrefs returns the prefs assigned at registration.
func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{
		ProjectActivity: true,
		CommentReplies:  true,
		IdeaActivity:    true,
		WeeklyDigest:    false,
	}
}
