// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment target types.
const (
	TargetIdea    = "idea"
	TargetProject = "project"
)

// Comment is a member remark on an idea or project. AuthorName is
// denormalized at write time so list views need no user lookups.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TargetType string             `bson:"target_type" json:"target_type"` // "idea" | "project"
	TargetID   primitive.ObjectID `bson:"target_id" json:"target_id"`
	AuthorUID  primitive.ObjectID `bson:"author_uid" json:"author_uid"`
	AuthorName string             `bson:"author_name" json:"author_name"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Like marks a user's approval of an idea or project. Exactly one document
// per (target_type, target_id, user_id); the unique index makes the toggle
// race-safe.
type Like struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TargetType string             `bson:"target_type" json:"target_type"`
	TargetID   primitive.ObjectID `bson:"target_id" json:"target_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
