package projects_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	errorsfeature "github.com/dalemusser/halloffame/internal/app/features/errors"
	"github.com/dalemusser/halloffame/internal/app/features/projects"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/auditlog"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/dalemusser/halloffame/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(db *mongo.Database) *projects.Handler {
	logger := zap.NewNop()
	return projects.NewHandler(db, errorsfeature.NewErrorLogger(logger), auditlog.NewNopLogger(), logger)
}

func TestHandleJoinRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "User", "creator@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "User", "joiner@example.com")
	project := fixtures.CreateProject(ctx, "Joinable", creator, 3)

	req := testutil.NewAuthenticatedRequest("POST", "/projects/"+project.ID.Hex()+"/join/1", testutil.AsTestUser(joiner))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	req = testutil.WithChiURLParam(req, "index", "1")
	rec := httptest.NewRecorder()

	h.HandleJoinRole(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	// The slot is filled and the fill invariant holds.
	found, err := projectstore.New(db).GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	slot := found.Roles[1]
	if slot.UserID == nil || *slot.UserID != joiner.ID {
		t.Errorf("slot 1 UserID: got %v, want %v", slot.UserID, joiner.ID)
	}
	if slot.Status != models.RoleActive {
		t.Errorf("slot 1 Status: got %q, want %q", slot.Status, models.RoleActive)
	}

	// The joiner's current project pointer was set.
	u, err := userstore.New(db).GetByID(ctx, joiner.ID)
	if err != nil {
		t.Fatalf("user GetByID failed: %v", err)
	}
	if u.CurrentProject == nil || u.CurrentProject.ProjectID != project.ID {
		t.Errorf("CurrentProject: got %+v, want project %v", u.CurrentProject, project.ID)
	}
}

func TestHandleJoinRole_TakenSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "User", "creator@example.com")
	joiner := fixtures.CreateUser(ctx, "Late", "Joiner", "late@example.com")
	project := fixtures.CreateProject(ctx, "Contested", creator, 2)

	// The only open slot gets filled first.
	if _, err := projectstore.New(db).ClaimRole(ctx, project.ID, 1, fixtures.CreateUser(ctx, "Fast", "Joiner", "fast@example.com").ID); err != nil {
		t.Fatalf("ClaimRole failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("POST", "/projects/"+project.ID.Hex()+"/join/1", testutil.AsTestUser(joiner))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	req = testutil.WithChiURLParam(req, "index", "1")
	rec := httptest.NewRecorder()

	h.HandleJoinRole(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON body: %v", err)
	}
	if body["reason"] != "role_taken" {
		t.Errorf("reason: got %q, want %q", body["reason"], "role_taken")
	}
}

func TestHandleJoinRole_Archived(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "User", "creator@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "User", "joiner@example.com")
	project := fixtures.CreateProject(ctx, "Shelved", creator, 2)
	if err := projectstore.New(db).Archive(ctx, project.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("POST", "/projects/"+project.ID.Hex()+"/join/1", testutil.AsTestUser(joiner))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	req = testutil.WithChiURLParam(req, "index", "1")
	rec := httptest.NewRecorder()

	h.HandleJoinRole(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleJoinRole_BadIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "User", "creator@example.com")
	joiner := fixtures.CreateUser(ctx, "Joiner", "User", "joiner@example.com")
	project := fixtures.CreateProject(ctx, "Small", creator, 2)

	req := testutil.NewAuthenticatedRequest("POST", "/projects/"+project.ID.Hex()+"/join/nope", testutil.AsTestUser(joiner))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	req = testutil.WithChiURLParam(req, "index", "nope")
	rec := httptest.NewRecorder()

	h.HandleJoinRole(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleJoinRole_NotSignedIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(db)

	req := testutil.NewRequest("POST", "/projects/abc/join/1")
	rec := httptest.NewRecorder()

	h.HandleJoinRole(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandleLeaveRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "User", "creator@example.com")
	member := fixtures.CreateUser(ctx, "Member", "User", "member@example.com")
	project := fixtures.CreateProject(ctx, "Leavable", creator, 3)

	if _, err := projectstore.New(db).ClaimRole(ctx, project.ID, 1, member.ID); err != nil {
		t.Fatalf("ClaimRole failed: %v", err)
	}
	if err := userstore.New(db).SetCurrentProject(ctx, member.ID, models.CurrentProject{ProjectID: project.ID}); err != nil {
		t.Fatalf("SetCurrentProject failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("POST", "/projects/"+project.ID.Hex()+"/leave", testutil.AsTestUser(member))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleLeaveRole(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	found, err := projectstore.New(db).GetByID(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Roles[1].UserID != nil {
		t.Error("expected slot 1 to be open after leave")
	}
	if found.Roles[1].Status != models.RoleOpen {
		t.Errorf("slot 1 Status: got %q, want %q", found.Roles[1].Status, models.RoleOpen)
	}

	u, err := userstore.New(db).GetByID(ctx, member.ID)
	if err != nil {
		t.Fatalf("user GetByID failed: %v", err)
	}
	if u.CurrentProject != nil {
		t.Errorf("expected CurrentProject cleared, got %+v", u.CurrentProject)
	}
}

func TestHandleLeaveRole_NotMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Creator", "User", "creator@example.com")
	outsider := fixtures.CreateUser(ctx, "Out", "Sider", "outsider@example.com")
	project := fixtures.CreateProject(ctx, "Private", creator, 2)

	req := testutil.NewAuthenticatedRequest("POST", "/projects/"+project.ID.Hex()+"/leave", testutil.AsTestUser(outsider))
	req = testutil.WithChiURLParam(req, "id", project.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleLeaveRole(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
