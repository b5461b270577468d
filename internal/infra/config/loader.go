package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jotuel/cosmic-fprint/internal/domain"
	"github.com/jotuel/cosmic-fprint/internal/ports"
	"gopkg.in/yaml.v3"
)

const (
	appDir   = "cosmic-fprint"
	fileName = "config.yaml"
)

// DefaultPath returns $XDG_CONFIG_HOME/cosmic-fprint/config.yaml.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, appDir, fileName)
}

// Loader reads config.yaml from the filesystem.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

var _ ports.ConfigLoader = (*Loader)(nil)

func (l *Loader) Load(path string) (domain.Config, error) {
	return Load(path)
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (domain.Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto)
}
