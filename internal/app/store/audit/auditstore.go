// internal/app/store/audit/auditstore.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryAuth   = "auth"   // sign-in, sign-out, registration
	CategoryDomain = "domain" // idea/project/role mutations
)

// Event is one audit record.
type Event struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Category      string              `bson:"category"`
	EventType     string              `bson:"event_type"`
	ActorID       *primitive.ObjectID `bson:"actor_id,omitempty"`
	TargetType    string              `bson:"target_type,omitempty"` // "idea" | "project" | "user"
	TargetID      *primitive.ObjectID `bson:"target_id,omitempty"`
	Success       bool                `bson:"success"`
	IP            string              `bson:"ip,omitempty"`
	FailureReason string              `bson:"failure_reason,omitempty"`
	Detail        string              `bson:"detail,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Insert records an event. CreatedAt is set here if the caller left it zero.
func (s *Store) Insert(ctx context.Context, ev Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	ev.ID = primitive.NewObjectID()
	_, err := s.c.InsertOne(ctx, ev)
	return err
}

// ListRecent returns the most recent events, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EnsureIndexes creates indexes for the audit_events collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_created_at"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
