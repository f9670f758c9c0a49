// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/triage/remote"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	// Set only when StoreType is "mongo".
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Store holds the issues, projects and contractors collections.
	Store     docstore.Store
	StoreType string

	// Classifier is the remote sentiment client; disabled when no URL is
	// configured.
	Classifier *remote.Client
}
