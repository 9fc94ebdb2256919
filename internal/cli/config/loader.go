package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	sharedcfg "github.com/leapstack-labs/jsonsql/internal/config"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "JSONSQL_"

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// flagKeys maps flag names to config keys. Flags not listed here are
// command inputs, not configuration.
var flagKeys = map[string]string{
	"table":       "table",
	"insert":      "insert",
	"strict":      "strict",
	"identifiers": "identifiers",
	"text-width":  "text_width",
	"engine":      "mysql.engine",
	"character":   "mysql.character",
	"collate":     "mysql.collate",
	"state":       "state_path",
	"verbose":     "verbose",
	"output":      "output",
}

// negatedFlagKeys maps --no-* flags to the boolean key they switch off.
var negatedFlagKeys = map[string]string{
	"no-if-not-exists": "if_not_exists",
	"no-dates":         "detect_dates",
}

// DialectFlags are the per-dialect selection flags, in output order.
// When any of them is set they replace the configured dialect list.
var DialectFlags = []string{"sqlite", "mysql", "postgres"}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for jsonsql.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := sharedcfg.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, in-memory or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey transforms JSONSQL_MYSQL_ENGINE into mysql.engine and
// JSONSQL_TEXT_WIDTH into text_width.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "mysql_"); ok {
		return "mysql." + rest
	}
	return key
}

// flagKey maps an explicitly set flag onto its config key.
func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		// Only load flags that were explicitly set
		if !f.Changed {
			return "", nil
		}
		if key, ok := negatedFlagKeys[f.Name]; ok {
			v, _ := flags.GetBool(f.Name)
			return key, !v
		}
		if key, ok := flagKeys[f.Name]; ok {
			return key, posflag.FlagVal(flags, f)
		}
		return "", nil
	}
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile)

	// 1. Load defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"table":           def.Table,
		"if_not_exists":   def.IfNotExists,
		"detect_dates":    def.DetectDates,
		"identifiers":     def.Identifiers,
		"text_width":      sharedcfg.DefaultTextWidth,
		"mysql.engine":    def.MySQL.Engine,
		"mysql.character": def.MySQL.Character,
		"mysql.collate":   def.MySQL.Collate,
		"state_path":      def.StatePath,
		"verbose":         false,
		"output":          def.OutputFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	// Search in project root if no explicit config file provided
	configFileUsed = cfgFile
	if configFileUsed == "" {
		configFileUsed = sharedcfg.FindConfigFile(projectRoot)
	}
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (JSONSQL_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	// JSONSQL_DIALECTS=sqlite,mysql decodes into a list via the slice hook.
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if selected := selectedDialects(flags); len(selected) > 0 {
		cfg.Dialects = selected
	}
	for i, name := range cfg.Dialects {
		cfg.Dialects[i] = strings.ToLower(strings.TrimSpace(name))
	}

	// 6. Set project root and resolve relative paths
	cfg.ProjectRoot = projectRoot
	if flags != nil && flags.Changed("state") {
		// Paths given on the command line are relative to CWD
		if abs, err := filepath.Abs(cfg.StatePath); err == nil {
			cfg.StatePath = abs
		}
	} else {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}

	for _, t := range cfg.Targets {
		if t == nil {
			continue
		}
		// Apply defaults based on target type
		t.Type = strings.ToLower(t.Type)
		sharedcfg.ApplyTargetDefaults(t)
		// Expand environment variables in target
		sharedcfg.ExpandTargetEnvVars(t)
		if t.Type == "sqlite" {
			t.Database = resolvePathRelativeTo(t.Database, projectRoot)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// selectedDialects returns the dialects chosen through --sqlite, --mysql
// and --postgres, or nil when none was set.
func selectedDialects(flags *pflag.FlagSet) []string {
	if flags == nil {
		return nil
	}
	var selected []string
	for _, name := range DialectFlags {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if on, _ := flags.GetBool(name); on {
			selected = append(selected, name)
		}
	}
	return selected
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
