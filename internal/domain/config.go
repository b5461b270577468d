package domain

// BusKind selects which message bus the adapters connect to.
type BusKind string

const (
	BusSystem  BusKind = "system"
	BusSession BusKind = "session"
)

// DefaultLookupConcurrency bounds in-flight account lookups.
const DefaultLookupConcurrency = 10

// Config represents the cosmic-fprint configuration loaded from config.yaml.
type Config struct {
	Bus      BusKind
	Defaults DefaultsConfig
	Lookup   LookupConfig
	Log      LogConfig
}

type DefaultsConfig struct {
	// User is preselected after the first user refresh when it is listed.
	User string
}

type LookupConfig struct {
	Concurrency int
}

type LogConfig struct {
	Debug bool
}

// DefaultConfig provides sane defaults if config.yaml is missing or partial.
func DefaultConfig() Config {
	return Config{
		Bus: BusSystem,
		Lookup: LookupConfig{
			Concurrency: DefaultLookupConcurrency,
		},
	}
}
