// Package config provides shared configuration helpers for jsonsql: config
// file discovery and database target defaults and validation. It is
// decoupled from CLI concerns.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/leapstack-labs/jsonsql/pkg/adapter"
	"github.com/leapstack-labs/jsonsql/pkg/core"
)

// ValidateTarget checks that a target names a dialect with a registered
// adapter, and that network targets name a database.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	t.Type = strings.ToLower(t.Type)
	if _, _, err := adapter.Lookup(t.Type); err != nil {
		return err
	}

	if t.Type != "sqlite" && t.Database == "" {
		return fmt.Errorf("target database is required for %s", t.Type)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as written.
func ExpandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// ExpandTargetEnvVars expands environment variables in sensitive target fields.
func ExpandTargetEnvVars(t *core.TargetConfig) {
	if t == nil {
		return
	}
	t.Password = ExpandEnvVars(t.Password)
	t.User = ExpandEnvVars(t.User)
	t.Host = ExpandEnvVars(t.Host)
	t.Database = ExpandEnvVars(t.Database)
	for k, v := range t.Options {
		t.Options[k] = ExpandEnvVars(v)
	}
}
