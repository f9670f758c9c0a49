// Package validators attaches JSON-Schema validators to the document store
// collections so records written by any client keep the domain invariants.
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
			return
		}
		logger.Info("validator ensured", zap.String("collection", coll))
	}

	ensure(docstore.Issues, issuesSchema())
	ensure(docstore.Projects, projectsSchema())
	ensure(docstore.Contractors, contractorsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		return err
	}
	logger.Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "strict"},
		{Key: "validationAction", Value: "error"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

/* ------------------------- error helpers ------------------------- */

func commandMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func stringArray(values []string) bson.A {
	out := make(bson.A, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func issuesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"text", "category", "sentiment", "urgency", "coordinates", "status", "created_at"},
			"properties": bson.M{
				"text":      nonBlank,
				"category":  bson.M{"enum": stringArray(models.Categories)},
				"sentiment": bson.M{"enum": stringArray(models.Sentiments)},
				"urgency":   bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0, "maximum": 10},
				"coordinates": bson.M{
					"bsonType": "object",
					"required": bson.A{"lat", "lng"},
					"properties": bson.M{
						"lat": bson.M{"bsonType": "double", "minimum": -90, "maximum": 90},
						"lng": bson.M{"bsonType": "double", "minimum": -180, "maximum": 180},
					},
				},
				"status": bson.M{"enum": bson.A{
					models.IssueStatusPending, models.IssueStatusAssigned, models.IssueStatusResolved,
				}},
				"assigned_project_id": bson.M{"bsonType": "objectId"},
				"created_at":          bson.M{"bsonType": "date"},
			},
		},
	}
}

func projectsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "category", "source_issue_id", "assigned_contractor_id", "status", "progress", "deadline", "created_at"},
			"properties": bson.M{
				"name":                   nonBlank,
				"category":               bson.M{"enum": stringArray(models.Categories)},
				"source_issue_id":        bson.M{"bsonType": "objectId"},
				"assigned_contractor_id": bson.M{"bsonType": "objectId"},
				"status": bson.M{"enum": bson.A{
					models.ProjectStatusPending, models.ProjectStatusInProgress, models.ProjectStatusCompleted,
				}},
				"progress":     bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0, "maximum": 100},
				"deadline":     bson.M{"bsonType": "date"},
				"created_at":   bson.M{"bsonType": "date"},
				"completed_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func contractorsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"username", "password", "name", "specialization", "status"},
			"properties": bson.M{
				"username":       bson.M{"bsonType": "string", "minLength": 1, "pattern": "^\\S+$"},
				"password":       bson.M{"bsonType": "string"},
				"name":           nonBlank,
				"specialization": bson.M{"enum": stringArray(models.Categories)},
				"status": bson.M{"enum": bson.A{
					models.ContractorStatusActive, models.ContractorStatusInactive,
				}},
			},
		},
	}
}
