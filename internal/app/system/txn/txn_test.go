package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/halloffame/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection reset by peer"),
			want: false,
		},
		{
			name: "replica-set-only transaction numbers (code 20)",
			err:  mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"},
			want: true,
		},
		{
			name: "no such command (code 51)",
			err:  mongo.CommandError{Code: 51, Message: "Illegal operation"},
			want: true,
		},
		{
			name: "operation not supported in transaction (code 263)",
			err:  mongo.CommandError{Code: 263, Message: "Cannot run command in a multi-document transaction"},
			want: true,
		},
		{
			name: "duplicate key (code 11000) is not a support problem",
			err:  mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"},
			want: false,
		},
		{
			name: "wrapped command error still detected",
			err:  fmt.Errorf("claim role: %w", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}),
			want: true,
		},
		{
			name: "transaction plus replica set wording",
			err:  errors.New("cannot start transaction: this node is not a replica set member"),
			want: true,
		},
		{
			name: "transaction plus session wording",
			err:  errors.New("unable to open transaction in current session"),
			want: true,
		},
		{
			name: "session not supported wording",
			err:  errors.New("sessions are not supported by this deployment"),
			want: true,
		},
		{
			name: "illegal operation during transaction wording",
			err:  errors.New("illegal operation attempted inside a transaction"),
			want: true,
		},
		{
			name: "transaction alone is not enough",
			err:  errors.New("transaction aborted"),
			want: false,
		},
		{
			name: "matching is case-insensitive",
			err:  errors.New("TRANSACTION numbers require a REPLICA SET"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// Run must commit the callback's writes whether the server offers real
// transactions (replica set) or the fallback path applies (standalone).
func TestRun_CommitsWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		if _, err := db.Collection("alpha").InsertOne(ctx, bson.M{"n": 1}); err != nil {
			return err
		}
		_, err := db.Collection("beta").InsertOne(ctx, bson.M{"n": 2})
		return err
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, coll := range []string{"alpha", "beta"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("CountDocuments(%s) failed: %v", coll, err)
		}
		if n != 1 {
			t.Errorf("%s: got %d documents, want 1", coll, n)
		}
	}
}

func TestRun_PropagatesCallbackError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sentinel := errors.New("callback refused")
	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Run error: got %v, want %v", err, sentinel)
	}
}
