package ideas_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/halloffame/internal/app/features/errors"
	"github.com/dalemusser/halloffame/internal/app/features/ideas"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"github.com/dalemusser/halloffame/internal/app/system/auditlog"
	"github.com/dalemusser/halloffame/internal/app/system/media"
	"github.com/dalemusser/halloffame/internal/domain/models"
	"github.com/dalemusser/halloffame/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *ideas.Handler {
	t.Helper()
	logger := zap.NewNop()
	mediaStore := media.New(t.TempDir(), "/files/media")
	return ideas.NewHandler(db, mediaStore, errorsfeature.NewErrorLogger(logger), auditlog.NewNopLogger(), logger)
}

const conversionBody = `{
	"title": "Campus Rover",
	"team_size": 3,
	"expected_completion_date": "2030-06-01",
	"skills_required": ["Go"],
	"project_tags": ["robotics"],
	"area_of_interest": "Robotics",
	"project_summary": "An autonomous delivery rover.",
	"user_role": "Team Lead"
}`

func convertRequest(idea models.Idea, user models.User, body string) *http.Request {
	req := httptest.NewRequest("POST", "/ideas/"+idea.ID.Hex()+"/convert", strings.NewReader(body))
	req = testutil.WithUser(req, testutil.AsTestUser(user))
	return testutil.WithChiURLParam(req, "id", idea.ID.Hex())
}

func TestHandleConvertIdea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Idea", "Owner", "owner@example.com")
	idea := fixtures.CreateIdea(ctx, "Rover Idea", creator)

	rec := httptest.NewRecorder()
	h.HandleConvertIdea(rec, convertRequest(idea, creator, conversionBody))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var project models.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &project); err != nil {
		t.Fatalf("bad JSON body: %v", err)
	}
	if project.Title != "Campus Rover" {
		t.Errorf("Title: got %q, want %q", project.Title, "Campus Rover")
	}
	if project.Status != models.StatusActive {
		t.Errorf("Status: got %q, want %q", project.Status, models.StatusActive)
	}
	if project.OriginatingIdeaID == nil || *project.OriginatingIdeaID != idea.ID {
		t.Errorf("OriginatingIdeaID: got %v, want %v", project.OriginatingIdeaID, idea.ID)
	}

	// Slot 0 is the creator in their chosen role; the rest are open.
	if len(project.Roles) != 3 {
		t.Fatalf("Roles: got %d, want 3", len(project.Roles))
	}
	if project.Roles[0].UserID == nil || *project.Roles[0].UserID != creator.ID {
		t.Errorf("slot 0: got %v, want creator %v", project.Roles[0].UserID, creator.ID)
	}
	if project.Roles[0].Role != "Team Lead" {
		t.Errorf("slot 0 Role: got %q, want %q", project.Roles[0].Role, "Team Lead")
	}
	for i := 1; i < 3; i++ {
		if project.Roles[i].UserID != nil || project.Roles[i].Status != models.RoleOpen {
			t.Errorf("slot %d should be open", i)
		}
	}

	// The idea is flagged and linked.
	flagged, err := ideastore.New(db).GetByID(ctx, idea.ID)
	if err != nil {
		t.Fatalf("idea GetByID failed: %v", err)
	}
	if !flagged.ConvertedToProject {
		t.Error("expected idea flagged converted")
	}
	if flagged.ProjectID == nil || *flagged.ProjectID != project.ID {
		t.Errorf("idea ProjectID: got %v, want %v", flagged.ProjectID, project.ID)
	}

	// The creator's current project pointer was set.
	u, err := userstore.New(db).GetByID(ctx, creator.ID)
	if err != nil {
		t.Fatalf("user GetByID failed: %v", err)
	}
	if u.CurrentProject == nil || u.CurrentProject.ProjectID != project.ID {
		t.Errorf("CurrentProject: got %+v, want project %v", u.CurrentProject, project.ID)
	}
}

func TestHandleConvertIdea_NotCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Idea", "Owner", "owner@example.com")
	other := fixtures.CreateUser(ctx, "Not", "Owner", "other@example.com")
	idea := fixtures.CreateIdea(ctx, "Someone Else's Idea", creator)

	rec := httptest.NewRecorder()
	h.HandleConvertIdea(rec, convertRequest(idea, other, conversionBody))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	// Nothing was created or flagged.
	found, err := ideastore.New(db).GetByID(ctx, idea.ID)
	if err != nil {
		t.Fatalf("idea GetByID failed: %v", err)
	}
	if found.ConvertedToProject {
		t.Error("idea must not be flagged by a non-creator attempt")
	}
}

func TestHandleConvertIdea_AlreadyConverted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Idea", "Owner", "owner@example.com")
	project := fixtures.CreateProject(ctx, "Existing Project", creator, 2)
	idea := fixtures.CreateConvertedIdea(ctx, "Done Idea", creator, project.ID)

	rec := httptest.NewRecorder()
	h.HandleConvertIdea(rec, convertRequest(idea, creator, conversionBody))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON body: %v", err)
	}
	if body["reason"] != "already_converted" {
		t.Errorf("reason: got %q, want %q", body["reason"], "already_converted")
	}
}

func TestHandleConvertIdea_DuplicateTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Idea", "Owner", "owner@example.com")
	idea := fixtures.CreateIdea(ctx, "Rover Idea", creator)

	// A project already holds the requested title.
	fixtures.CreateProject(ctx, "Campus Rover", creator, 2)

	rec := httptest.NewRecorder()
	h.HandleConvertIdea(rec, convertRequest(idea, creator, conversionBody))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}

	// The conflict left the idea untouched.
	found, err := ideastore.New(db).GetByID(ctx, idea.ID)
	if err != nil {
		t.Fatalf("idea GetByID failed: %v", err)
	}
	if found.ConvertedToProject {
		t.Error("idea must not be flagged after a duplicate-title refusal")
	}
}

func TestHandleConvertIdea_InvalidConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Idea", "Owner", "owner@example.com")
	idea := fixtures.CreateIdea(ctx, "Rover Idea", creator)

	body := strings.Replace(conversionBody, `"team_size": 3`, `"team_size": 0`, 1)
	rec := httptest.NewRecorder()
	h.HandleConvertIdea(rec, convertRequest(idea, creator, body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON body: %v", err)
	}
	if resp["field"] != "team_size" {
		t.Errorf("field: got %q, want %q", resp["field"], "team_size")
	}

	// No project document leaked out of the failed attempt.
	n, err := projectstore.New(db).Count(ctx, bson.M{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no projects, got %d", n)
	}
}

func TestHandleConvertIdea_NotSignedIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	req := httptest.NewRequest("POST", "/ideas/abc/convert", strings.NewReader(conversionBody))
	rec := httptest.NewRecorder()

	h.HandleConvertIdea(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestServeConversionDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "Idea", "Owner", "owner@example.com")
	idea := fixtures.CreateIdea(ctx, "Draftable", creator)

	req := testutil.NewAuthenticatedRequest("GET", "/ideas/"+idea.ID.Hex()+"/convert", testutil.AsTestUser(creator))
	req = testutil.WithChiURLParam(req, "id", idea.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeConversionDraft(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var draft struct {
		Title          string   `json:"title"`
		SkillsRequired []string `json:"skills_required"`
		ProjectTags    []string `json:"project_tags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &draft); err != nil {
		t.Fatalf("bad JSON body: %v", err)
	}
	if draft.Title != "Draftable" {
		t.Errorf("title: got %q, want %q", draft.Title, "Draftable")
	}
	// The idea's tags seed both the skill and tag prefills.
	if len(draft.SkillsRequired) != 1 || draft.SkillsRequired[0] != "testing" {
		t.Errorf("skills_required: got %v, want [testing]", draft.SkillsRequired)
	}
	if len(draft.ProjectTags) != 1 || draft.ProjectTags[0] != "testing" {
		t.Errorf("project_tags: got %v, want [testing]", draft.ProjectTags)
	}
}
