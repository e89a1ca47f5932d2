// internal/app/store/ideas/ideastore.go
package ideastore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/halloffame/internal/app/system/limits"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound         = errors.New("idea not found")
	ErrQuotaExceeded    = errors.New("daily idea creation quota reached")
	ErrAlreadyConverted = errors.New("idea has already been converted to a project")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ideas")}
}

// startOfDay returns midnight UTC for the calendar day containing t.
// The creation quota counts per UTC calendar day.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CountCreatedToday returns how many ideas the user created in the current
// UTC calendar day.
func (s *Store) CountCreatedToday(ctx context.Context, creator primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"creator_uid": creator,
		"created_at":  bson.M{"$gte": startOfDay(time.Now())},
	})
}

// Create inserts a new idea after enforcing the per-day creation quota.
// The quota check is best-effort (count then insert); the quota is a
// throttle, not a hard consistency requirement.
func (s *Store) Create(ctx context.Context, idea models.Idea) (models.Idea, error) {
	n, err := s.CountCreatedToday(ctx, idea.CreatorUID)
	if err != nil {
		return models.Idea{}, err
	}
	if n >= limits.MaxIdeasPerDay {
		return models.Idea{}, ErrQuotaExceeded
	}

	now := time.Now().UTC()
	idea.ID = primitive.NewObjectID()
	idea.TitleCI = text.Fold(idea.Title)
	idea.ConvertedToProject = false
	idea.ProjectID = nil
	idea.CreatedAt = now
	idea.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, idea); err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

// GetByID retrieves an idea by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Idea, error) {
	var idea models.Idea
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&idea)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Idea{}, ErrNotFound
		}
		return models.Idea{}, err
	}
	return idea, nil
}

// Update replaces the owner-editable fields. The conversion fields are
// never touched here.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, summary string, tags []string) error {
	set := bson.M{
		"title":      title,
		"title_ci":   text.Fold(title),
		"summary":    summary,
		"tags":       tags,
		"updated_at": time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetConverted flips the one-way conversion flag and links the project.
// The update is conditional on converted_to_project == false, so a second
// conversion attempt cannot overwrite the link; nothing ever clears it.
func (s *Store) SetConverted(ctx context.Context, id, projectID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "converted_to_project": false},
		bson.M{"$set": bson.M{
			"converted_to_project": true,
			"project_id":           projectID,
			"updated_at":           time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish "missing" from "already converted".
		n, cntErr := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if cntErr != nil {
			return cntErr
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrAlreadyConverted
	}
	return nil
}

// UnsetConverted clears the conversion link. This exists solely as the
// compensating action for a failed conversion saga; no API operation
// reaches it.
func (s *Store) UnsetConverted(ctx context.Context, id, projectID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "project_id": projectID},
		bson.M{"$set": bson.M{
			"converted_to_project": false,
			"updated_at":           time.Now().UTC(),
		}, "$unset": bson.M{"project_id": ""}},
	)
	return err
}

// AddMedia appends a storage-relative media path to the idea.
func (s *Store) AddMedia(ctx context.Context, id primitive.ObjectID, path string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"media_paths": path},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an idea by ID. Owner-only; the handler checks ownership.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns ideas matching the given filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Idea, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ideas []models.Idea
	if err := cur.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// Count returns the number of ideas matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// EnsureIndexes creates indexes for the ideas collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Quota counting and "my ideas" listing
		{
			Keys:    bson.D{{Key: "creator_uid", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_idea_creator_created"),
		},
		// Case-insensitive title for sorting and search
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetName("idx_idea_title_ci"),
		},
		// Tag filter
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_idea_tags"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
