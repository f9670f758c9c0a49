// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/app/store/jsonstore"
	"github.com/dalemusser/adarshgram/internal/app/store/mongostore"
	"github.com/dalemusser/adarshgram/internal/app/system/indexes"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/adarshgram/internal/app/system/validators"
	"github.com/dalemusser/adarshgram/internal/app/triage/remote"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the document store and builds the remote classifier
// client.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{
		StoreType: appCfg.StoreType,
		Classifier: remote.New(remote.Config{
			URL:           appCfg.ClassifierURL,
			Token:         appCfg.ClassifierToken,
			Timeout:       appCfg.ClassifierTimeout,
			RatePerMinute: appCfg.ClassifierRatePerMin,
		}, logger),
	}

	switch appCfg.StoreType {
	case StoreMongo:
		client, err := connectMongo(ctx, appCfg.MongoURI, logger)
		if err != nil {
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.Store = mongostore.New(client, deps.MongoDatabase, logger)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	case StoreJSON:
		if appCfg.StoreJSONDir == "" {
			deps.Store = jsonstore.NewMemory(logger)
			logger.Warn("json store has no directory; data will not survive a restart")
			break
		}
		s, err := jsonstore.Open(appCfg.StoreJSONDir, logger)
		if err != nil {
			return DBDeps{}, fmt.Errorf("open json store: %w", err)
		}
		deps.Store = s
		logger.Info("json store opened", zap.String("dir", appCfg.StoreJSONDir))

	default:
		return DBDeps{}, fmt.Errorf("unknown store_type %q", appCfg.StoreType)
	}
	return deps, nil
}

func connectMongo(ctx context.Context, uri string, logger *zap.Logger) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, timeouts.Ping())
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("mongo ping failed", zap.Error(err))
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureSchema applies collection validators and indexes. Only MongoDB has a
// schema; the json store needs none.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	db := deps.MongoDatabase

	if err := validators.EnsureAll(ctx, db, logger); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if err := audit.New(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure audit indexes: %w", err)
	}
	logger.Info("schema ensured")
	return nil
}
