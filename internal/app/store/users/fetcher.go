// internal/app/store/users/fetcher.go
package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/halloffame/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher adapts the user store to auth.UserFetcher so sessions always
// reflect current user data.
type Fetcher struct {
	store *Store
}

// NewFetcher creates a Fetcher over the users collection.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{store: New(db)}
}

// FetchSessionUser loads fresh session-user data by hex id. Disabled
// accounts resolve to an error so their sessions stop working immediately.
func (f *Fetcher) FetchSessionUser(ctx context.Context, id string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	u, err := f.store.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if u.Status != "" && u.Status != "active" {
		return nil, errors.New("account is not active")
	}
	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName(),
		Email: u.Email,
	}, nil
}
