// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/halloffame/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	ErrNotFound       = errors.New("project not found")
	ErrDuplicateTitle = errors.New("a project with this title already exists")
	ErrArchived       = errors.New("project is archived")
	ErrBadRoleIndex   = errors.New("role index out of range")
	ErrRoleTaken      = errors.New("role slot is already taken")
	ErrRoleFilled     = errors.New("role slot is filled; title cannot be changed")
	ErrAlreadyMember  = errors.New("user already holds a role on this project")
	ErrNotMember      = errors.New("user holds no role on this project")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create inserts a new project. Title uniqueness is enforced by the unique
// index on title (exact, case-sensitive), so concurrent creations with the
// same title cannot both commit.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	p.Members = models.MembersFromRoles(p.Roles)
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrDuplicateTitle
		}
		return models.Project{}, err
	}
	return p, nil
}

// GetByID retrieves a project by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, err
	}
	return p, nil
}

// GetByTitle retrieves a project by exact title.
func (s *Store) GetByTitle(ctx context.Context, title string) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"title": title}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, err
	}
	return p, nil
}

// ClaimRole fills role slot idx with uid in one conditional update: the
// filter requires the slot to still be open, so two racing claims cannot
// both win. userID and slot status are set together (fill invariant) and
// the claim is refused on archived projects. The members mirror is rebuilt
// from the roster immediately after. Returns the updated project.
func (s *Store) ClaimRole(ctx context.Context, id primitive.ObjectID, idx int, uid primitive.ObjectID) (models.Project, error) {
	if idx < 0 {
		return models.Project{}, ErrBadRoleIndex
	}
	now := time.Now().UTC()
	slot := fmt.Sprintf("roles.%d", idx)

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$ne": models.StatusArchived},
		// A null match alone would also match a missing path, and $set on an
		// out-of-range dotted index pads the array; the slot must exist.
		slot:              bson.M{"$exists": true},
		slot + ".user_id": nil,
		// One slot per user per project.
		"roles.user_id": bson.M{"$ne": uid},
	}
	update := bson.M{
		"$set": bson.M{
			slot + ".user_id":   uid,
			slot + ".status":    models.RoleActive,
			slot + ".joined_at": now,
			"updated_at":        now,
		},
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Project
	err := s.c.FindOneAndUpdate(ctx, filter, update, after).Decode(&p)
	if err == nil {
		// Rebuild the members mirror from the authoritative roster so the
		// two cannot drift, keyed to this exact claim.
		return s.syncMembers(ctx, p)
	}
	if err != mongo.ErrNoDocuments {
		return models.Project{}, err
	}

	// The conditional update matched nothing; re-read to say why.
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, err // ErrNotFound or a real failure
	}
	switch {
	case cur.Status == models.StatusArchived:
		return models.Project{}, ErrArchived
	case idx >= len(cur.Roles):
		return models.Project{}, ErrBadRoleIndex
	case cur.SlotOf(uid) >= 0:
		return models.Project{}, ErrAlreadyMember
	default:
		return models.Project{}, ErrRoleTaken
	}
}

// ReleaseRole clears the slot held by uid. The slot's userID and status are
// cleared together, and if no filled slots remain the project status
// becomes "Looking for Members". Returns the updated project and the index
// of the released slot.
func (s *Store) ReleaseRole(ctx context.Context, id, uid primitive.ObjectID) (models.Project, int, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, 0, err
	}
	idx := cur.SlotOf(uid)
	if idx < 0 {
		return models.Project{}, 0, ErrNotMember
	}

	now := time.Now().UTC()
	slot := fmt.Sprintf("roles.%d", idx)
	filter := bson.M{"_id": id, slot + ".user_id": uid}
	update := bson.M{
		"$set": bson.M{
			slot + ".user_id": nil,
			slot + ".status":  models.RoleOpen,
			"updated_at":      now,
		},
		"$unset": bson.M{slot + ".joined_at": ""},
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Project
	if err := s.c.FindOneAndUpdate(ctx, filter, update, after).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			// Lost a race with another release or the user never held the slot.
			return models.Project{}, 0, ErrNotMember
		}
		return models.Project{}, 0, err
	}

	p, err = s.syncMembers(ctx, p)
	if err != nil {
		return models.Project{}, 0, err
	}

	if p.FilledSlots() == 0 && p.Status != models.StatusArchived {
		res := s.c.FindOneAndUpdate(ctx,
			bson.M{"_id": id, "roles.user_id": bson.M{"$not": bson.M{"$type": "objectId"}}},
			bson.M{"$set": bson.M{"status": models.StatusLookingForMembers, "updated_at": now}},
			after,
		)
		if err := res.Decode(&p); err != nil && err != mongo.ErrNoDocuments {
			return models.Project{}, 0, err
		}
	}
	return p, idx, nil
}

// syncMembers rewrites the denormalized members list from Roles and returns
// the refreshed document.
func (s *Store) syncMembers(ctx context.Context, p models.Project) (models.Project, error) {
	members := models.MembersFromRoles(p.Roles)
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Project
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{"members": members}},
		after,
	).Decode(&out)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Project{}, ErrNotFound
		}
		return models.Project{}, err
	}
	return out, nil
}

// UpdateRoleTitle renames an open role slot. Filled slots are refused so
// the members mirror cannot drift from the roster.
func (s *Store) UpdateRoleTitle(ctx context.Context, id primitive.ObjectID, idx int, role, subRole string) error {
	if idx < 0 {
		return ErrBadRoleIndex
	}
	slot := fmt.Sprintf("roles.%d", idx)
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, slot: bson.M{"$exists": true}, slot + ".user_id": nil},
		bson.M{"$set": bson.M{
			slot + ".role":     role,
			slot + ".sub_role": subRole,
			"updated_at":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		cur, getErr := s.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if idx >= len(cur.Roles) {
			return ErrBadRoleIndex
		}
		return ErrRoleFilled
	}
	return nil
}

// DetailsUpdate holds the creator-editable descriptive fields.
type DetailsUpdate struct {
	Summary                string
	Tags                   []string
	SkillsRequired         []string
	AreaOfInterest         string
	ExpectedCompletionDate time.Time
	Status                 string
}

// UpdateDetails replaces the descriptive fields. Status, when set, must be
// one of the known project statuses.
func (s *Store) UpdateDetails(ctx context.Context, id primitive.ObjectID, d DetailsUpdate) error {
	set := bson.M{
		"summary":          d.Summary,
		"tags":             d.Tags,
		"skills_required":  d.SkillsRequired,
		"area_of_interest": d.AreaOfInterest,
		"updated_at":       time.Now().UTC(),
	}
	if !d.ExpectedCompletionDate.IsZero() {
		set["expected_completion_date"] = d.ExpectedCompletionDate
	}
	if d.Status != "" {
		set["status"] = d.Status
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

// Archive sets the project status to Archived. Archived projects reject
// joins; there is no delete in normal operation.
func (s *Store) Archive(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     models.StatusArchived,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project document. Exists solely as the compensating
// action for a failed conversion saga; the API archives instead.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Find returns projects matching the given filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Count returns the number of projects matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// EnsureIndexes creates indexes for the projects collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Unique exact title; duplicate creations surface as ErrDuplicateTitle
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_project_title"),
		},
		// Case-insensitive title for sorting and search
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetName("idx_project_title_ci"),
		},
		// Status filter
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_project_status"),
		},
		// Tag filter
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_project_tags"),
		},
		// "my projects" and creator checks
		{
			Keys:    bson.D{{Key: "creator_uid", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_project_creator"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
