// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	auditstore "github.com/dalemusser/halloffame/internal/app/store/audit"
	commentstore "github.com/dalemusser/halloffame/internal/app/store/comments"
	ideastore "github.com/dalemusser/halloffame/internal/app/store/ideas"
	likestore "github.com/dalemusser/halloffame/internal/app/store/likes"
	"github.com/dalemusser/halloffame/internal/app/store/oauthstate"
	projectstore "github.com/dalemusser/halloffame/internal/app/store/projects"
	userstore "github.com/dalemusser/halloffame/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
EnsureAll is called at startup. Each store's EnsureIndexes is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
The unique indexes (project title, user email, one like per target/user)
are what turn the original check-then-act patterns into hard guarantees.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ideastore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "ideas: "+err.Error())
	}
	if err := projectstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "projects: "+err.Error())
	}
	if err := commentstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "comments: "+err.Error())
	}
	if err := likestore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "likes: "+err.Error())
	}
	if err := auditstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
