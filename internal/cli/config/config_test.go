package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/jsonsql/internal/testutil"
	"github.com/leapstack-labs/jsonsql/pkg/core"

	// Import adapter and dialect packages to ensure they are registered via init()
	_ "github.com/leapstack-labs/jsonsql/pkg/adapters"
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsonsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func generateFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("table", "t", "main", "root table name")
	flags.Bool("sqlite", false, "")
	flags.Bool("mysql", false, "")
	flags.Bool("postgres", false, "")
	flags.Bool("insert", false, "")
	flags.Bool("strict", false, "")
	flags.Bool("no-if-not-exists", false, "")
	flags.Bool("no-dates", false, "")
	flags.String("character", "", "")
	flags.String("collate", "", "")
	flags.String("engine", "", "")
	flags.String("identifiers", "", "")
	flags.Int("text-width", 0, "")
	flags.String("state", "", "")
	flags.StringP("file", "f", "", "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "{}\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "main", cfg.Table)
	assert.Empty(t, cfg.Dialects)
	assert.True(t, cfg.IfNotExists)
	assert.True(t, cfg.DetectDates)
	assert.False(t, cfg.Insert)
	assert.Equal(t, "raw", cfg.Identifiers)
	assert.Equal(t, MySQLConfig{Engine: "InnoDB", Character: "utf8", Collate: "utf8_general_ci"}, cfg.MySQL)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), DefaultStateFile), cfg.StatePath)
	assert.Equal(t, filepath.Dir(cfgPath), cfg.ProjectRoot)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `table: people
dialects: [sqlite, postgres]
insert: true
strict: true
if_not_exists: false
identifiers: normalized
text_width: 255
mysql:
  character: utf8mb4
  collate: utf8mb4_unicode_ci
targets:
  local:
    type: sqlite
    database: local.db
  warehouse:
    type: postgres
    database: app
    password: ${TEST_PG_PASSWORD}
    options:
      sslmode: require
`)
	t.Setenv("TEST_PG_PASSWORD", "secret123")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "people", cfg.Table)
	assert.Equal(t, []string{"sqlite", "postgres"}, cfg.Dialects)
	assert.True(t, cfg.Insert)
	assert.True(t, cfg.Strict)
	assert.False(t, cfg.IfNotExists)
	assert.Equal(t, 255, cfg.TextWidth)
	assert.Equal(t, "InnoDB", cfg.MySQL.Engine, "unset nested keys keep their defaults")
	assert.Equal(t, "utf8mb4", cfg.MySQL.Character)

	require.Equal(t, []string{"local", "warehouse"}, cfg.TargetNames())
	local, err := cfg.Target("local")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "local.db"), local.Database)

	wh, err := cfg.Target("warehouse")
	require.NoError(t, err)
	assert.Equal(t, "localhost", wh.Host)
	assert.Equal(t, 5432, wh.Port)
	assert.Equal(t, "secret123", wh.Password)
	assert.Equal(t, "require", wh.Options["sslmode"])

	_, err = cfg.Target("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available targets: [local warehouse]")

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, core.IdentifiersNormalized, opts.Identifiers)
	assert.True(t, opts.Strict)
	assert.Equal(t, "utf8mb4_unicode_ci", opts.MySQL.Collate)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "unknown dialect", content: "dialects: [oracle]\n", errSubstr: `unknown dialect "oracle"`},
		{name: "unknown identifier mode", content: "identifiers: shouty\n", errSubstr: "unknown identifier mode"},
		{name: "unknown output", content: "output: xml\n", errSubstr: "unknown output mode"},
		{name: "negative width", content: "text_width: -1\n", errSubstr: "text_width"},
		{name: "unknown target type", content: "targets:\n  x:\n    type: duckdb\n", errSubstr: "unknown target type"},
		{name: "empty target type", content: "targets:\n  x:\n    database: a.db\n", errSubstr: "target type is required"},
		{name: "malformed yaml", content: "table: [\n", errSubstr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "table: from_file\ndialects: [sqlite]\n")

	t.Setenv("JSONSQL_TABLE", "from_env")
	t.Setenv("JSONSQL_DIALECTS", "mysql,postgres")
	t.Setenv("JSONSQL_MYSQL_ENGINE", "MyISAM")
	t.Setenv("JSONSQL_TEXT_WIDTH", "80")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Table, "env var should override config file")
	assert.Equal(t, []string{"mysql", "postgres"}, cfg.Dialects)
	assert.Equal(t, "MyISAM", cfg.MySQL.Engine)
	assert.Equal(t, 80, cfg.TextWidth)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "table: from_file\ndialects: [sqlite]\n")
	t.Setenv("JSONSQL_TABLE", "from_env")

	flags := generateFlags()
	require.NoError(t, flags.Parse([]string{
		"-t", "from_flag",
		"--mysql", "--postgres",
		"--no-if-not-exists", "--no-dates",
		"--collate", "utf8mb4_bin",
		"--text-width", "40",
		"-f", "doc.json",
	}))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.Table, "flag value should override config file and env var")
	assert.Equal(t, []string{"mysql", "postgres"}, cfg.Dialects, "dialect flags replace the configured list")
	assert.False(t, cfg.IfNotExists)
	assert.False(t, cfg.DetectDates)
	assert.Equal(t, "utf8mb4_bin", cfg.MySQL.Collate)
	assert.Equal(t, 40, cfg.TextWidth)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "table: from_file\n")
	t.Setenv("JSONSQL_TABLE", "from_env")

	// Flag defined but not set (Changed will be false)
	flags := generateFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Table)
	assert.True(t, cfg.IfNotExists)
}

func TestLoadConfig_StateFlagRelativeToCWD(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "{}\n")
	cwd := t.TempDir()
	t.Chdir(cwd)

	flags := generateFlags()
	require.NoError(t, flags.Parse([]string{"--state", "runs.db"}))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	abs, err := filepath.Abs("runs.db")
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.StatePath)
}

func TestLoadConfig_DiscoversProjectRoot(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "jsonsql.yml"), []byte("table: found\n"), 0600))
	nested := filepath.Join(root, "fixtures", "deep")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.Table)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "jsonsql.yml"), GetConfigFileUsed())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid default config", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("empty table", func(t *testing.T) {
		cfg := Default()
		cfg.Table = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "table is required")
	})
}

func TestGetLogger(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(context.Background()))
}
