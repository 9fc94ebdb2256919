// Package config provides configuration management for the jsonsql CLI.
//
// This package extends the shared configuration helpers from internal/config
// with CLI-specific fields and functionality. The shared target type is
// defined in pkg/core and re-exported here via a type alias for convenience.
package config

import (
	"fmt"
	"sort"

	sharedcfg "github.com/leapstack-labs/jsonsql/internal/config"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/document"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// MySQLConfig holds the MySQL table options.
type MySQLConfig struct {
	Engine    string `koanf:"engine" yaml:"engine"`
	Character string `koanf:"character" yaml:"character"`
	Collate   string `koanf:"collate" yaml:"collate"`
}

// Config holds all CLI configuration options.
type Config struct {
	Table        string                   `koanf:"table"`
	Dialects     []string                 `koanf:"dialects"`
	Insert       bool                     `koanf:"insert"`
	Strict       bool                     `koanf:"strict"`
	IfNotExists  bool                     `koanf:"if_not_exists"`
	DetectDates  bool                     `koanf:"detect_dates"`
	Identifiers  string                   `koanf:"identifiers"`
	TextWidth    int                      `koanf:"text_width"`
	MySQL        MySQLConfig              `koanf:"mysql"`
	OutputFormat string                   `koanf:"output"`
	Verbose      bool                     `koanf:"verbose"`
	StatePath    string                   `koanf:"state_path"`
	Targets      map[string]*TargetConfig `koanf:"targets"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultTable     = core.DefaultTableName
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultOutput    = sharedcfg.DefaultOutput // Auto-detect: TTY=text, non-TTY=markdown
)

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		Table:        DefaultTable,
		IfNotExists:  true,
		DetectDates:  true,
		Identifiers:  string(core.IdentifiersRaw),
		MySQL:        MySQLConfig{Engine: core.DefaultEngine, Character: core.DefaultCharset, Collate: core.DefaultCollate},
		OutputFormat: DefaultOutput,
		StatePath:    DefaultStateFile,
	}
}

// Options converts the generation settings into core options.
func (c *Config) Options() (core.Options, error) {
	mode, err := core.ParseIdentifierMode(c.Identifiers)
	if err != nil {
		return core.Options{}, err
	}
	return core.Options{
		Strict:      c.Strict,
		IfNotExists: c.IfNotExists,
		TextWidth:   c.TextWidth,
		Identifiers: mode,
		MySQL: core.TableOptions{
			Engine:  c.MySQL.Engine,
			Charset: c.MySQL.Character,
			Collate: c.MySQL.Collate,
		},
	}.WithDefaults(), nil
}

// ParseOptions returns the document parsing options.
func (c *Config) ParseOptions() document.ParseOptions {
	return document.ParseOptions{DetectDates: c.DetectDates}
}

// TargetNames returns the configured target names, sorted.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target returns a configured target by name.
func (c *Config) Target(name string) (*TargetConfig, error) {
	t, ok := c.Targets[name]
	if !ok || t == nil {
		return nil, fmt.Errorf("unknown target %q\nAvailable targets: %v\nHint: Define targets.%s in jsonsql.yaml", name, c.TargetNames(), name)
	}
	return t, nil
}
