package oauthstate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/halloffame/internal/app/store/oauthstate"
	"github.com/dalemusser/halloffame/internal/testutil"
)

func TestStore_SaveAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := store.Save(ctx, "state-token-1", "/projects", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	returnURL, valid, err := store.Validate(ctx, "state-token-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Error("expected state to be valid")
	}
	if returnURL != "/projects" {
		t.Errorf("returnURL: got %q, want %q", returnURL, "/projects")
	}
}

func TestStore_Validate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := store.Save(ctx, "state-token-2", "", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := store.Validate(ctx, "state-token-2")
	if err != nil {
		t.Fatalf("first Validate failed: %v", err)
	}
	if !valid {
		t.Fatal("expected first validation to pass")
	}

	// Second use must fail (token deleted on read).
	_, valid, err = store.Validate(ctx, "state-token-2")
	if err != nil {
		t.Fatalf("second Validate failed: %v", err)
	}
	if valid {
		t.Error("expected second validation to fail")
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	expiresAt := time.Now().UTC().Add(-time.Minute)
	if err := store.Save(ctx, "expired-token", "", expiresAt); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, valid, err := store.Validate(ctx, "expired-token")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expected expired state to be invalid")
	}
}

func TestStore_Validate_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, valid, err := store.Validate(ctx, "never-saved")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("expected unknown state to be invalid")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	if err := store.Save(ctx, "stale-1", "", now.Add(-time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "stale-2", "", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, "fresh", "", now.Add(time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	count, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 removed, got %d", count)
	}

	_, valid, err := store.Validate(ctx, "fresh")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Error("fresh token should survive cleanup")
	}
}
