package config

import (
	"fmt"

	"github.com/leapstack-labs/jsonsql/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/jsonsql/internal/config"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
)

// Validate checks if the configuration is valid.
// Dialects are checked against the registry here, before any document is read.
func (c *Config) Validate() error {
	if c.Table == "" {
		return fmt.Errorf("table is required")
	}

	for _, name := range c.Dialects {
		if _, err := dialect.Lookup(name); err != nil {
			return fmt.Errorf("invalid dialects: %w", err)
		}
	}

	if _, err := core.ParseIdentifierMode(c.Identifiers); err != nil {
		return err
	}

	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}

	if c.TextWidth < 0 {
		return fmt.Errorf("text_width must not be negative, got %d", c.TextWidth)
	}

	for _, name := range c.TargetNames() {
		if err := sharedcfg.ValidateTarget(c.Targets[name]); err != nil {
			return fmt.Errorf("invalid target %s: %w", name, err)
		}
	}
	return nil
}
