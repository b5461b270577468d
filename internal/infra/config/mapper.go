package config

import (
	"fmt"
	"strings"

	"github.com/jotuel/cosmic-fprint/internal/domain"
)

// MapConfig applies dto over the defaults.
func MapConfig(path string, dto YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	f := dto.Fprint

	if bus := strings.ToLower(strings.TrimSpace(f.Bus)); bus != "" {
		switch domain.BusKind(bus) {
		case domain.BusSystem, domain.BusSession:
			cfg.Bus = domain.BusKind(bus)
		default:
			return domain.Config{}, invalidField(path, "fprint.bus", fmt.Sprintf("unsupported bus %q", f.Bus))
		}
	}

	cfg.Defaults.User = strings.TrimSpace(f.DefaultUser)

	if f.LookupConcurrency != nil {
		n := *f.LookupConcurrency
		if n < 1 {
			return domain.Config{}, invalidField(path, "fprint.lookup_concurrency", "must be at least 1")
		}
		cfg.Lookup.Concurrency = n
	}

	cfg.Log.Debug = f.Log.Debug
	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
