// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/halloffame/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	ErrBadCredentials = errors.New("invalid email or password")
)

// bcryptCost matches the cost used across the app for password hashes.
const bcryptCost = 12

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. Password may be empty for OAuth accounts.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullNameCI = text.Fold(u.FullName())
	if u.Status == "" {
		u.Status = "active"
	}
	u.Notifications = models.DefaultNotificationPrefs()
	u.CreatedAt = now
	u.UpdatedAt = now

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return models.User{}, err
		}
		u.PassHash = string(hash)
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID retrieves a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail retrieves a user by (already normalized) email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks email+password and returns the user on success.
// The same error is returned for unknown email and wrong password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return models.User{}, ErrBadCredentials
		}
		return models.User{}, err
	}
	if u.PassHash == "" {
		return models.User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)); err != nil {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}

// ProfileUpdate holds the profile fields a member may edit.
type ProfileUpdate struct {
	FirstName      string
	MiddleName     string
	LastName       string
	Skills         []string
	Tools          []string
	AreaOfInterest string
}

// UpdateProfile replaces the editable profile fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) error {
	full := models.User{FirstName: p.FirstName, MiddleName: p.MiddleName, LastName: p.LastName}.FullName()
	set := bson.M{
		"first_name":       p.FirstName,
		"middle_name":      p.MiddleName,
		"last_name":        p.LastName,
		"full_name_ci":     text.Fold(full),
		"skills":           p.Skills,
		"tools":            p.Tools,
		"area_of_interest": p.AreaOfInterest,
		"updated_at":       time.Now().UTC(),
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

// UpdateNotificationPrefs replaces the notification preference block.
func (s *Store) UpdateNotificationPrefs(ctx context.Context, id primitive.ObjectID, prefs models.NotificationPrefs) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"notifications": prefs,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrentProject points the user's current_project at the given
// project/role. Used by project creation and by joining a role.
func (s *Store) SetCurrentProject(ctx context.Context, id primitive.ObjectID, cp models.CurrentProject) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"current_project": cp,
		"updated_at":      time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCurrentProject removes the current_project pointer.
func (s *Store) ClearCurrentProject(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"current_project": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddBookmark adds a project to the user's bookmark set. Adding an
// already-bookmarked project is a no-op.
func (s *Store) AddBookmark(ctx context.Context, id, projectID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"bookmarked_projects": projectID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveBookmark removes a project from the user's bookmark set.
func (s *Store) RemoveBookmark(ctx context.Context, id, projectID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"bookmarked_projects": projectID},
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

// Find returns users matching the given filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// EnsureIndexes creates indexes for the users collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// One account per email
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email"),
		},
		// Case-insensitive name for sorting and search
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_user_name_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
