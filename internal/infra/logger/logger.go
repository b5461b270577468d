package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	appDir   = "cosmic-fprint"
	fileName = "cosmic-fprint.log"

	// DefaultMaxBytes is the size past which Setup rotates the previous log.
	DefaultMaxBytes int64 = 4 << 20
)

type Config struct {
	// Dir overrides the log directory. Empty means DefaultDir().
	Dir   string
	Debug bool
	// MaxBytes bounds the log carried over from earlier runs. Zero means
	// DefaultMaxBytes; negative disables rotation.
	MaxBytes int64
}

var (
	mu       sync.RWMutex
	global   = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile  *os.File
	logPath  string
	initedAt time.Time
)

// DefaultDir returns $XDG_STATE_HOME/cosmic-fprint/logs, falling back to
// ~/.local/state when XDG_STATE_HOME is unset.
func DefaultDir() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, appDir, "logs")
}

// Setup opens the log file and installs the process-wide JSON logger.
// On failure the logger stays a discard logger and the error is returned.
func Setup(cfg Config) (func() error, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	dir = filepath.Clean(dir)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		setDiscard()
		return nil, err
	}

	path := filepath.Join(dir, fileName)
	rotated, err := rotate(path, cfg.MaxBytes)
	if err != nil {
		setDiscard()
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		setDiscard()
		return nil, err
	}

	l := slog.New(newHandler(f, cfg.Debug))

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	initedAt = time.Now().UTC()
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug, "pid", os.Getpid(), "rotated", rotated)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			global.Info("logger.closed", "uptime", time.Since(initedAt).String())
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		initedAt = time.Time{}
		global = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return cerr
	}

	return cleanup, nil
}

// rotate moves path to path+".1" once it has grown past limit.
func rotate(path string, limit int64) (bool, error) {
	if limit == 0 {
		limit = DefaultMaxBytes
	}
	if limit < 0 {
		return false, nil
	}

	st, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if st.Size() < limit {
		return false, nil
	}
	return true, os.Rename(path, path+".1")
}

func newHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	addSource := false
	if debug {
		level = slog.LevelDebug
		addSource = true
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
			}
			return a
		},
	})
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func setDiscard() {
	mu.Lock()
	defer mu.Unlock()
	global = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile = nil
	logPath = ""
	initedAt = time.Time{}
}

func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil || logPath == "" {
		return errors.New("logger not initialized")
	}
	return nil
}
