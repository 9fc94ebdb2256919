package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/jsonsql/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/jsonsql/internal/config"
	"github.com/leapstack-labs/jsonsql/pkg/core"
)

// starterConfig is the file written by init.
type starterConfig struct {
	Table       string                        `yaml:"table"`
	Dialects    []string                      `yaml:"dialects"`
	Insert      bool                          `yaml:"insert"`
	Strict      bool                          `yaml:"strict"`
	IfNotExists bool                          `yaml:"if_not_exists"`
	DetectDates bool                          `yaml:"detect_dates"`
	Identifiers string                        `yaml:"identifiers"`
	MySQL       config.MySQLConfig            `yaml:"mysql"`
	StatePath   string                        `yaml:"state_path"`
	Targets     map[string]*core.TargetConfig `yaml:"targets"`
}

const starterHeader = `# jsonsql configuration
# Every key can be overridden with a JSONSQL_<KEY> environment variable
# (JSONSQL_MYSQL_COLLATE for mysql.collate) or a command-line flag.
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter jsonsql.yaml",
		Long: `Create a jsonsql.yaml with the default generation settings and a local
SQLite target for jsonsql apply.`,
		Example: `  # Initialize in current directory
  jsonsql init

  # Initialize in a new directory
  jsonsql init my-project

  # Force overwrite existing config
  jsonsql init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			path, err := writeStarterConfig(dir, force)
			if err != nil {
				return err
			}
			cc.Renderer.StatusLine(path, "success", "")
			cc.Renderer.Success("jsonsql project initialized!")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func writeStarterConfig(dir string, force bool) (string, error) {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	path := filepath.Join(dir, sharedcfg.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", sharedcfg.ConfigFileName)
	}

	def := config.Default()
	starter := starterConfig{
		Table:       def.Table,
		Dialects:    []string{"sqlite"},
		IfNotExists: def.IfNotExists,
		DetectDates: def.DetectDates,
		Identifiers: def.Identifiers,
		MySQL:       def.MySQL,
		StatePath:   def.StatePath,
		Targets: map[string]*core.TargetConfig{
			"local": {Type: "sqlite", Database: "jsonsql.db"},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(starter); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
