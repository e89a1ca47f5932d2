package projectstore_test

import (
	"testing"
	"time"

	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/dalemusser/halloffame/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newProject builds an unsaved project with the creator in slot 0 and
// teamSize-1 open slots.
func newProject(title string, creator primitive.ObjectID, teamSize int) models.Project {
	now := time.Now().UTC()
	roles := make([]models.RoleSlot, teamSize)
	roles[0] = models.RoleSlot{
		Role:     "Lead",
		UserID:   &creator,
		Status:   models.RoleActive,
		JoinedAt: &now,
	}
	for i := 1; i < teamSize; i++ {
		roles[i] = models.RoleSlot{Status: models.RoleOpen}
	}
	return models.Project{
		Title:                  title,
		Summary:                "A test project.",
		AreaOfInterest:         "Testing",
		TeamSize:               teamSize,
		ExpectedCompletionDate: now.AddDate(0, 3, 0),
		Roles:                  roles,
		Status:                 models.StatusPlanning,
		CreatorUID:             creator,
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	created, err := store.Create(ctx, newProject("Rover", creator, 3))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.TitleCI != "rover" {
		t.Errorf("TitleCI: got %q, want %q", created.TitleCI, "rover")
	}
	if created.FilledSlots() != 1 {
		t.Errorf("FilledSlots: got %d, want 1", created.FilledSlots())
	}
	if created.OpenSlots() != 2 {
		t.Errorf("OpenSlots: got %d, want 2", created.OpenSlots())
	}

	// Members mirror reflects the one filled slot.
	if len(created.Members) != 1 {
		t.Fatalf("Members: got %d, want 1", len(created.Members))
	}
	if created.Members[0].UID != creator {
		t.Errorf("Members[0].UID: got %v, want %v", created.Members[0].UID, creator)
	}
}

func TestStore_Create_DuplicateTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	if _, err := store.Create(ctx, newProject("Same Title", primitive.NewObjectID(), 2)); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, newProject("Same Title", primitive.NewObjectID(), 2))
	if err != projectstore.ErrDuplicateTitle {
		t.Errorf("expected ErrDuplicateTitle, got %v", err)
	}

	// Uniqueness is exact: a different casing is a different title.
	if _, err := store.Create(ctx, newProject("same title", primitive.NewObjectID(), 2)); err != nil {
		t.Errorf("different-case title should be allowed: %v", err)
	}
}

func TestStore_ClaimRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Claimable", primitive.NewObjectID(), 3))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	joiner := primitive.NewObjectID()
	updated, err := store.ClaimRole(ctx, created.ID, 1, joiner)
	if err != nil {
		t.Fatalf("ClaimRole failed: %v", err)
	}

	slot := updated.Roles[1]
	if slot.UserID == nil || *slot.UserID != joiner {
		t.Errorf("slot 1 UserID: got %v, want %v", slot.UserID, joiner)
	}
	if slot.Status != models.RoleActive {
		t.Errorf("slot 1 Status: got %q, want %q", slot.Status, models.RoleActive)
	}
	if slot.JoinedAt == nil {
		t.Error("slot 1 JoinedAt: expected to be set")
	}
	if updated.FilledSlots() != 2 {
		t.Errorf("FilledSlots: got %d, want 2", updated.FilledSlots())
	}
	if len(updated.Members) != 2 {
		t.Errorf("Members: got %d, want 2", len(updated.Members))
	}
}

func TestStore_ClaimRole_TakenSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Contested", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := primitive.NewObjectID()
	if _, err := store.ClaimRole(ctx, created.ID, 1, first); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	// Second user cannot take the same slot.
	_, err = store.ClaimRole(ctx, created.ID, 1, primitive.NewObjectID())
	if err != projectstore.ErrRoleTaken {
		t.Errorf("expected ErrRoleTaken, got %v", err)
	}

	// The winner's claim is untouched.
	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Roles[1].UserID == nil || *found.Roles[1].UserID != first {
		t.Errorf("slot 1 belongs to %v, want %v", found.Roles[1].UserID, first)
	}
}

func TestStore_ClaimRole_AlreadyMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("One Seat Each", primitive.NewObjectID(), 3))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	joiner := primitive.NewObjectID()
	if _, err := store.ClaimRole(ctx, created.ID, 1, joiner); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	// The same user cannot hold a second slot.
	_, err = store.ClaimRole(ctx, created.ID, 2, joiner)
	if err != projectstore.ErrAlreadyMember {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestStore_ClaimRole_Archived(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Archived", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Archive(ctx, created.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	_, err = store.ClaimRole(ctx, created.ID, 1, primitive.NewObjectID())
	if err != projectstore.ErrArchived {
		t.Errorf("expected ErrArchived, got %v", err)
	}
}

func TestStore_ClaimRole_BadIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Small Team", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.ClaimRole(ctx, created.ID, 5, primitive.NewObjectID()); err != projectstore.ErrBadRoleIndex {
		t.Errorf("expected ErrBadRoleIndex for index 5, got %v", err)
	}
	if _, err := store.ClaimRole(ctx, created.ID, -1, primitive.NewObjectID()); err != projectstore.ErrBadRoleIndex {
		t.Errorf("expected ErrBadRoleIndex for index -1, got %v", err)
	}

	// A rejected out-of-range claim must not pad the roster with phantom
	// slots: the array keeps its original length and every slot is still
	// Open or Active.
	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(found.Roles) != 2 {
		t.Fatalf("roster length: got %d, want 2", len(found.Roles))
	}
	for i, slot := range found.Roles {
		if slot.Status != models.RoleOpen && slot.Status != models.RoleActive {
			t.Errorf("slot %d Status: got %q, want Open or Active", i, slot.Status)
		}
	}
	if len(found.Members) != 1 {
		t.Errorf("members mirror: got %d entries, want 1", len(found.Members))
	}
}

func TestStore_ClaimRole_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.ClaimRole(ctx, primitive.NewObjectID(), 0, primitive.NewObjectID())
	if err != projectstore.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ReleaseRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Leavable", primitive.NewObjectID(), 3))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	joiner := primitive.NewObjectID()
	if _, err := store.ClaimRole(ctx, created.ID, 1, joiner); err != nil {
		t.Fatalf("ClaimRole failed: %v", err)
	}

	updated, idx, err := store.ReleaseRole(ctx, created.ID, joiner)
	if err != nil {
		t.Fatalf("ReleaseRole failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("released index: got %d, want 1", idx)
	}

	slot := updated.Roles[1]
	if slot.UserID != nil {
		t.Errorf("slot 1 UserID: got %v, want nil", slot.UserID)
	}
	if slot.Status != models.RoleOpen {
		t.Errorf("slot 1 Status: got %q, want %q", slot.Status, models.RoleOpen)
	}
	if slot.JoinedAt != nil {
		t.Error("slot 1 JoinedAt: expected to be cleared")
	}

	// Creator still holds slot 0, so status is unchanged.
	if updated.Status != models.StatusPlanning {
		t.Errorf("Status: got %q, want %q", updated.Status, models.StatusPlanning)
	}
}

func TestStore_ReleaseRole_LastMemberFlipsStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := primitive.NewObjectID()
	created, err := store.Create(ctx, newProject("Emptying", creator, 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, _, err := store.ReleaseRole(ctx, created.ID, creator)
	if err != nil {
		t.Fatalf("ReleaseRole failed: %v", err)
	}
	if updated.FilledSlots() != 0 {
		t.Errorf("FilledSlots: got %d, want 0", updated.FilledSlots())
	}
	if updated.Status != models.StatusLookingForMembers {
		t.Errorf("Status: got %q, want %q", updated.Status, models.StatusLookingForMembers)
	}
	if len(updated.Members) != 0 {
		t.Errorf("Members: got %d, want 0", len(updated.Members))
	}
}

func TestStore_ReleaseRole_NotMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("No Seat", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, _, err = store.ReleaseRole(ctx, created.ID, primitive.NewObjectID())
	if err != projectstore.ErrNotMember {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestStore_UpdateRoleTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Renamable", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Open slot can be renamed.
	if err := store.UpdateRoleTitle(ctx, created.ID, 1, "Designer", "UI"); err != nil {
		t.Fatalf("UpdateRoleTitle failed: %v", err)
	}
	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Roles[1].Role != "Designer" || found.Roles[1].SubRole != "UI" {
		t.Errorf("slot 1: got %q/%q, want Designer/UI", found.Roles[1].Role, found.Roles[1].SubRole)
	}

	// Filled slot (creator's) is refused.
	err = store.UpdateRoleTitle(ctx, created.ID, 0, "Usurper", "")
	if err != projectstore.ErrRoleFilled {
		t.Errorf("expected ErrRoleFilled, got %v", err)
	}

	// Out-of-range index.
	err = store.UpdateRoleTitle(ctx, created.ID, 9, "Ghost", "")
	if err != projectstore.ErrBadRoleIndex {
		t.Errorf("expected ErrBadRoleIndex, got %v", err)
	}
}

func TestStore_UpdateDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Editable", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	due := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	err = store.UpdateDetails(ctx, created.ID, projectstore.DetailsUpdate{
		Summary:                "Updated summary",
		Tags:                   []string{"go"},
		SkillsRequired:         []string{"testing"},
		AreaOfInterest:         "Infrastructure",
		ExpectedCompletionDate: due,
		Status:                 models.StatusActive,
	})
	if err != nil {
		t.Fatalf("UpdateDetails failed: %v", err)
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Summary != "Updated summary" {
		t.Errorf("Summary: got %q", found.Summary)
	}
	if found.Status != models.StatusActive {
		t.Errorf("Status: got %q, want %q", found.Status, models.StatusActive)
	}
	if !found.ExpectedCompletionDate.Equal(due) {
		t.Errorf("ExpectedCompletionDate: got %v, want %v", found.ExpectedCompletionDate, due)
	}
}

func TestStore_Archive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Shelved", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Archive(ctx, created.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Status != models.StatusArchived {
		t.Errorf("Status: got %q, want %q", found.Status, models.StatusArchived)
	}
}

func TestStore_GetByTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newProject("Findable", primitive.NewObjectID(), 2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := store.GetByTitle(ctx, "Findable")
	if err != nil {
		t.Fatalf("GetByTitle failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}

	_, err = store.GetByTitle(ctx, "findable")
	if err != projectstore.ErrNotFound {
		t.Errorf("title match is exact; expected ErrNotFound, got %v", err)
	}
}
