package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email.
// Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:            primitive.NewObjectID(),
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		AuthMethod:    "password",
		Status:        "active",
		Notifications: models.DefaultNotificationPrefs(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	user.FullNameCI = text.Fold(user.FullName())

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, firstName, lastName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:            primitive.NewObjectID(),
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		AuthMethod:    "password",
		Status:        "disabled",
		Notifications: models.DefaultNotificationPrefs(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	user.FullNameCI = text.Fold(user.FullName())

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}

	return user
}

// CreateIdea creates a test idea owned by the given creator.
func (f *Fixtures) CreateIdea(ctx context.Context, title string, creator models.User) models.Idea {
	f.t.Helper()

	now := time.Now().UTC()
	idea := models.Idea{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Summary:     "Test idea summary",
		Tags:        []string{"testing"},
		CreatorUID:  creator.ID,
		CreatorName: creator.FullName(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("ideas").InsertOne(ctx, idea)
	if err != nil {
		f.t.Fatalf("failed to create test idea: %v", err)
	}

	return idea
}

// CreateConvertedIdea creates a test idea already flagged as converted to
// the given project.
func (f *Fixtures) CreateConvertedIdea(ctx context.Context, title string, creator models.User, projectID primitive.ObjectID) models.Idea {
	f.t.Helper()

	idea := f.CreateIdea(ctx, title, creator)
	_, err := f.db.Collection("ideas").UpdateByID(ctx, idea.ID, bson.M{
		"$set": bson.M{
			"converted_to_project": true,
			"project_id":           projectID,
		},
	})
	if err != nil {
		f.t.Fatalf("failed to flag test idea converted: %v", err)
	}
	idea.ConvertedToProject = true
	idea.ProjectID = &projectID
	return idea
}

// CreateProject creates a test project with the creator in slot 0 and the
// remaining teamSize-1 slots open.
func (f *Fixtures) CreateProject(ctx context.Context, title string, creator models.User, teamSize int) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	creatorID := creator.ID
	roles := make([]models.RoleSlot, teamSize)
	roles[0] = models.RoleSlot{
		Role:     "Lead",
		UserID:   &creatorID,
		Status:   models.RoleActive,
		JoinedAt: &now,
	}
	for i := 1; i < teamSize; i++ {
		roles[i] = models.RoleSlot{Status: models.RoleOpen}
	}

	return f.CreateProjectWithRoles(ctx, title, creator, roles)
}

// CreateProjectWithRoles creates a test project with an explicit roster.
func (f *Fixtures) CreateProjectWithRoles(ctx context.Context, title string, creator models.User, roles []models.RoleSlot) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	project := models.Project{
		ID:                     primitive.NewObjectID(),
		Title:                  title,
		TitleCI:                text.Fold(title),
		Summary:                "Test project summary",
		AreaOfInterest:         "Testing",
		TeamSize:               len(roles),
		ExpectedCompletionDate: now.AddDate(0, 3, 0),
		Roles:                  roles,
		Members:                models.MembersFromRoles(roles),
		Status:                 models.StatusPlanning,
		CreatorUID:             creator.ID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	_, err := f.db.Collection("projects").InsertOne(ctx, project)
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateComment creates a test comment on the given target.
func (f *Fixtures) CreateComment(ctx context.Context, targetType string, targetID primitive.ObjectID, author models.User, body string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	comment := models.Comment{
		ID:         primitive.NewObjectID(),
		TargetType: targetType,
		TargetID:   targetID,
		AuthorUID:  author.ID,
		AuthorName: author.FullName(),
		Body:       body,
		CreatedAt:  now,
	}

	_, err := f.db.Collection("comments").InsertOne(ctx, comment)
	if err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}

	return comment
}
