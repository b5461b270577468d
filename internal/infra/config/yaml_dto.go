package config

type YAMLConfig struct {
	Fprint YAMLFprint `yaml:"fprint"`
}

type YAMLFprint struct {
	Bus               string  `yaml:"bus"`
	DefaultUser       string  `yaml:"default_user"`
	LookupConcurrency *int    `yaml:"lookup_concurrency"`
	Log               YAMLLog `yaml:"log"`
}

type YAMLLog struct {
	Debug bool `yaml:"debug"`
}
