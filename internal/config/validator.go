package config

import (
	"fmt"

	"github.com/vyrodovalexey/avrouter/internal/router"
)

// Validate checks the configuration for errors that would make the
// route table unbuildable: invalid path templates, unknown verbs,
// missing handler names, and duplicate declarations.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Listener.Port < 0 || cfg.Listener.Port > 65535 {
		return fmt.Errorf("listener port %d out of range", cfg.Listener.Port)
	}
	if rl := cfg.Listener.RateLimit; rl.Enabled {
		if rl.RPS <= 0 {
			return fmt.Errorf("rate limit rps %d must be positive", rl.RPS)
		}
		if rl.Burst < 0 {
			return fmt.Errorf("rate limit burst %d must not be negative", rl.Burst)
		}
	}
	if cfg.Observability.Metrics.Enabled {
		if p := cfg.Observability.Metrics.Port; p <= 0 || p > 65535 {
			return fmt.Errorf("metrics port %d out of range", p)
		}
	}

	if len(cfg.Routes) == 0 {
		return fmt.Errorf("no routes configured")
	}

	seenPaths := make(map[string]bool, len(cfg.Routes))
	for i, route := range cfg.Routes {
		if _, err := router.NewRoutePath(route.Path); err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
		if seenPaths[route.Path] {
			return fmt.Errorf("route %d: duplicate path %q", i, route.Path)
		}
		seenPaths[route.Path] = true

		if len(route.Methods) == 0 {
			return fmt.Errorf("route %d (%s): no methods declared", i, route.Path)
		}
		for method, handlerName := range route.Methods {
			if _, err := router.ParseVerb(method); err != nil {
				return fmt.Errorf("route %d (%s): %w", i, route.Path, err)
			}
			if handlerName == "" {
				return fmt.Errorf("route %d (%s): method %s has no handler name",
					i, route.Path, method)
			}
		}
	}

	return nil
}
