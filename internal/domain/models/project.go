// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project statuses. Archived projects reject joins; LookingForMembers is the
// only status the leave workflow auto-transitions into.
const (
	StatusPlanning          = "Planning"
	StatusActive            = "Active"
	StatusCompleted         = "Completed"
	StatusLookingForMembers = "Looking for Members"
	StatusArchived          = "Archived"
)

// Role-slot statuses. Invariant: UserID != nil ⇔ Status == RoleActive.
const (
	RoleActive = "Active"
	RoleOpen   = "Open"
)

// Project is a collaborative work record with a fixed-size roster of
// role slots.
//
// NOTE:
//   - Roles is the authoritative roster. Members mirrors the filled slots
//     for read convenience and is rewritten in the same update as Roles so
//     the two cannot drift.
type Project struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`
	Summary string             `bson:"summary" json:"summary"`

	Tags           []string `bson:"tags,omitempty" json:"tags,omitempty"`
	SkillsRequired []string `bson:"skills_required,omitempty" json:"skills_required,omitempty"`
	AreaOfInterest string   `bson:"area_of_interest" json:"area_of_interest"`

	TeamSize               int       `bson:"team_size" json:"team_size"`
	ExpectedCompletionDate time.Time `bson:"expected_completion_date" json:"expected_completion_date"`

	Roles   []RoleSlot `bson:"roles" json:"roles"`
	Members []Member   `bson:"members" json:"members"`

	Status     string             `bson:"status" json:"status"`
	CreatorUID primitive.ObjectID `bson:"creator_uid" json:"creator_uid"`
	// OriginatingIdeaID is set only when the project was derived from an idea.
	OriginatingIdeaID *primitive.ObjectID `bson:"originating_idea_id,omitempty" json:"originating_idea_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RoleSlot is one seat on a project's roster, either open or filled by
// exactly one user.
type RoleSlot struct {
	Role     string              `bson:"role" json:"role"`
	SubRole  string              `bson:"sub_role,omitempty" json:"sub_role,omitempty"`
	UserID   *primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status   string              `bson:"status" json:"status"`
	JoinedAt *time.Time          `bson:"joined_at,omitempty" json:"joined_at,omitempty"`
}

// Member mirrors one filled role slot.
type Member struct {
	UID      primitive.ObjectID `bson:"uid" json:"uid"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// FilledSlots counts role slots with an assigned user.
func (p Project) FilledSlots() int {
	n := 0
	for _, rs := range p.Roles {
		if rs.UserID != nil {
			n++
		}
	}
	return n
}

// OpenSlots counts unfilled role slots.
func (p Project) OpenSlots() int {
	return len(p.Roles) - p.FilledSlots()
}

// SlotOf returns the index of the role slot held by uid, or -1.
func (p Project) SlotOf(uid primitive.ObjectID) int {
	for i, rs := range p.Roles {
		if rs.UserID != nil && *rs.UserID == uid {
			return i
		}
	}
	return -1
}

// MembersFromRoles rebuilds the denormalized member list from the roster.
// Callers write the result alongside any Roles mutation.
func MembersFromRoles(roles []RoleSlot) []Member {
	members := make([]Member, 0, len(roles))
	for _, rs := range roles {
		if rs.UserID == nil {
			continue
		}
		m := Member{UID: *rs.UserID, Role: rs.Role}
		if rs.JoinedAt != nil {
			m.JoinedAt = *rs.JoinedAt
		}
		members = append(members, m)
	}
	return members
}
