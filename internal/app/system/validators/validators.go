// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("ideas", ideasSchema())
	ensure("projects", projectsSchema())
	ensure("comments", commentsSchema())
	ensure("likes", likesSchema())

	// Audit events need no validator; we still ensure the collection exists.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	exists, err := collectionExists(ctx, db, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		// Racing startup of another instance may create it first.
		if isNamespaceExists(err) {
			return nil
		}
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, coll string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: coll},
		{Key: "validator", Value: bson.M{"$jsonSchema": schema}},
		{Key: "validationLevel", Value: "moderate"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

func isNoSuchCommand(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 59 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 238 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not implemented")
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 48 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

/* ------------------------------- schemas ------------------------------- */

func usersSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"first_name", "last_name", "email", "created_at"},
		"properties": bson.M{
			"email":  bson.M{"bsonType": "string", "minLength": 3},
			"status": bson.M{"enum": []string{"active", "disabled"}},
		},
	}
}

func ideasSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"title", "summary", "creator_uid", "converted_to_project", "created_at"},
		"properties": bson.M{
			"title":                bson.M{"bsonType": "string", "minLength": 1},
			"converted_to_project": bson.M{"bsonType": "bool"},
		},
	}
}

func projectsSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"title", "team_size", "roles", "status", "creator_uid", "created_at"},
		"properties": bson.M{
			"title":     bson.M{"bsonType": "string", "minLength": 1},
			"team_size": bson.M{"bsonType": "int", "minimum": 1, "maximum": 50},
			"status": bson.M{"enum": []string{
				"Planning", "Active", "Completed", "Looking for Members", "Archived",
			}},
			"roles": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"role", "status"},
					"properties": bson.M{
						"status": bson.M{"enum": []string{"Active", "Open"}},
					},
				},
			},
		},
	}
}

func commentsSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"target_type", "target_id", "author_uid", "body", "created_at"},
		"properties": bson.M{
			"target_type": bson.M{"enum": []string{"idea", "project"}},
			"body":        bson.M{"bsonType": "string", "minLength": 1},
		},
	}
}

func likesSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"target_type", "target_id", "user_id", "created_at"},
		"properties": bson.M{
			"target_type": bson.M{"enum": []string{"idea", "project"}},
		},
	}
}
