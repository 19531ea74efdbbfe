package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	CatalogPath string // blueprint manifests (.hcl/.yaml), file or directory
	ProjectRoot string // directory the engine assembles into

	ProjectName string
	Framework   string
	Author      string
	EnvFile     string // dotenv file merged into the execution context

	Blueprints []string          // blueprint IDs to run; empty means all
	Params     map[string]string // module parameters exposed as params.*

	LogFormat string
	LogLevel  string

	DryRun          bool
	ContinueOnError bool
	CommitPartial   bool
}

// NewConfig validates a Config and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CatalogPath == "" {
		return nil, errors.New("CatalogPath is a required configuration field and cannot be empty")
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	return &cfg, nil
}
