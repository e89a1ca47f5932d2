// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/halloffame/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx extracts the signed-in user's ObjectID and display name from the
// request context. ok is false when no user is signed in or the cached ID
// is malformed; handlers treat both as "not signed in".
func UserCtx(r *http.Request) (uid primitive.ObjectID, name string, ok bool) {
	u, signed := auth.CurrentUser(r)
	if !signed || u == nil {
		return primitive.NilObjectID, "", false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, "", false
	}
	return id, u.Name, true
}
