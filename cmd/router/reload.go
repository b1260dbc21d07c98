package main

import (
	"context"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
)

// startConfigWatcher watches the configuration file and swaps the
// route table on every successful reload. A reload that fails to
// compile keeps the previous table serving.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	callback := func(cfg *config.Config) {
		if err := app.server.UpdateRoutes(cfg.Routes); err != nil {
			logger.Error("failed to apply reloaded routes", observability.Error(err))
			return
		}

		app.config = cfg
		logger.Info("configuration reloaded",
			observability.Int("routes", len(cfg.Routes)),
		)
	}

	watcher, err := config.NewWatcher(configPath, callback,
		config.WithLogger(logger),
		config.WithErrorCallback(func(err error) {
			logger.Error("config watcher error", observability.Error(err))
		}),
	)
	if err != nil {
		logger.Error("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Error("failed to start config watcher", observability.Error(err))
		return nil
	}

	logger.Info("config watcher started", observability.String("path", configPath))

	return watcher
}
