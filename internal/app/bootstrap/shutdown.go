// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown releases the classifier's connections and closes the store.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	deps.Classifier.Close()

	if deps.Store != nil {
		logger.Info("closing document store", zap.String("type", deps.StoreType))
		if err := deps.Store.Close(ctx); err != nil {
			logger.Error("store close failed", zap.Error(err))
			return err
		}
	}
	return nil
}
