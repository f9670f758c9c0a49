// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the store is connected and
// before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.PhotoDir != "" {
		if err := os.MkdirAll(appCfg.PhotoDir, 0o755); err != nil {
			return fmt.Errorf("create photo_dir: %w", err)
		}
	} else {
		logger.Warn("no photo_dir configured; report photos will be dropped")
	}

	logger.Info("classifier",
		zap.Bool("remote_enabled", deps.Classifier.Enabled()),
		zap.Int("rate_per_min", appCfg.ClassifierRatePerMin))
	return nil
}
