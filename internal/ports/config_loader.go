package ports

import "github.com/jotuel/cosmic-fprint/internal/domain"

// ConfigLoader loads configuration from a source (e.g., filesystem).
type ConfigLoader interface {
	Load(path string) (domain.Config, error)
}
