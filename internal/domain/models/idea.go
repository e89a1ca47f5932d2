// internal/domain/models/idea.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea is a pitch record a member can later promote into a Project.
//
// Conversion is one-way: once ConvertedToProject flips to true and ProjectID
// is set, no operation clears them.
type Idea struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`
	Summary string             `bson:"summary" json:"summary"`
	Tags    []string           `bson:"tags,omitempty" json:"tags,omitempty"`

	CreatorUID  primitive.ObjectID `bson:"creator_uid" json:"creator_uid"`
	CreatorName string             `bson:"creator_name" json:"creator_name"` // denormalized for list views

	ConvertedToProject bool                `bson:"converted_to_project" json:"converted_to_project"`
	ProjectID          *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`

	// MediaPaths are storage-relative paths of uploaded attachments.
	MediaPaths []string `bson:"media_paths,omitempty" json:"media_paths,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
