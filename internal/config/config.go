// Package config loads scriptram's configuration from a file plus
// environment overrides via viper, the way EfeDurmaz16-anvil's
// internal/config does.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything a scriptram invocation needs beyond the
// script text itself.
type Config struct {
	CostTable CostTableConfig `mapstructure:"cost_table"`
	Graph     GraphConfig     `mapstructure:"graph"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
}

// CostTableConfig points at the host-supplied cost table document. The
// CLI does not read it: both subcommands take the cost table from their
// required --cost-table flag.
type CostTableConfig struct {
	Path string `mapstructure:"path"`
}

// GraphConfig names the optional Neo4j sink a calculation's call graph
// can be exported to (SPEC_FULL.md §10).
type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// HTTPConfig holds a timeout for the link resolver's URL-import
// fetches. It is loaded and validated but not passed to the link
// resolver, which uses its own fixed 10-second client timeout.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LogConfig holds logging settings. Load fills in their defaults;
// nothing in the CLI reads them.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks configuration for issues and returns warnings rather
// than failing outright, so a missing graph password doesn't block a
// calc-only invocation.
func (c *Config) Validate() []string {
	var warnings []string

	if c.CostTable.Path == "" {
		warnings = append(warnings, "cost_table.path is empty")
	}
	if c.Graph.URI != "" && c.Graph.Password == "" {
		warnings = append(warnings, "graph.uri is set but graph.password is empty")
	}
	if c.HTTP.TimeoutSeconds < 0 {
		warnings = append(warnings, fmt.Sprintf("http.timeout_seconds %d is negative", c.HTTP.TimeoutSeconds))
	}

	return warnings
}

// Load reads configuration from path, then SCRIPTRAM_-prefixed
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SCRIPTRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	for _, warning := range cfg.Validate() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	return &cfg, nil
}
