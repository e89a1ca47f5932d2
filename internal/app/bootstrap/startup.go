// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Media uploads fail at request time without a writable root; surface
	// a bad path at startup instead.
	if err := os.MkdirAll(appCfg.MediaLocalPath, 0o755); err != nil {
		return fmt.Errorf("create media root %q: %w", appCfg.MediaLocalPath, err)
	}
	logger.Info("media root ready", zap.String("path", appCfg.MediaLocalPath))
	return nil
}
