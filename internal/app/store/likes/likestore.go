// internal/app/store/likes/likestore.go
package likestore

import (
	"context"
	"time"

	"github.com/dalemusser/halloffame/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("likes")}
}

// Toggle likes the target if the user has not liked it, or removes the
// like if they have. The unique (target_type, target_id, user_id) index
// makes concurrent toggles race-safe: a duplicate insert loses and is
// treated as "already liked". Returns true when the target is liked after
// the call.
func (s *Store) Toggle(ctx context.Context, targetType string, targetID, userID primitive.ObjectID) (bool, error) {
	like := models.Like{
		ID:         primitive.NewObjectID(),
		TargetType: targetType,
		TargetID:   targetID,
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, like)
	if err == nil {
		return true, nil
	}
	if !wafflemongo.IsDup(err) {
		return false, err
	}

	// Already liked; remove it.
	if _, err := s.c.DeleteOne(ctx, bson.M{
		"target_type": targetType,
		"target_id":   targetID,
		"user_id":     userID,
	}); err != nil {
		return false, err
	}
	return false, nil
}

// CountByTarget returns the number of likes on one idea or project.
func (s *Store) CountByTarget(ctx context.Context, targetType string, targetID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"target_type": targetType, "target_id": targetID})
}

// HasLiked reports whether the user has liked the target.
func (s *Store) HasLiked(ctx context.Context, targetType string, targetID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"target_type": targetType,
		"target_id":   targetID,
		"user_id":     userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByTarget removes all likes on one idea or project.
func (s *Store) DeleteByTarget(ctx context.Context, targetType string, targetID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"target_type": targetType, "target_id": targetID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the likes collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// One like per user per target; makes Toggle race-safe
		{
			Keys: bson.D{
				{Key: "target_type", Value: 1},
				{Key: "target_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("idx_like_target_user"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
