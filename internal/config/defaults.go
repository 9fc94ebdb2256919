package config

import "github.com/leapstack-labs/jsonsql/pkg/core"

// Default configuration values.
const (
	DefaultStateFile = ".jsonsql/state.db"
	DefaultOutput    = "auto"
	DefaultTextWidth = 0
)

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}

	switch t.Type {
	case "sqlite":
		if t.Database == "" {
			t.Database = ":memory:"
		}
	case "postgres":
		if t.Host == "" {
			t.Host = "localhost"
		}
		if t.Port == 0 {
			t.Port = 5432
		}
	case "mysql":
		if t.Host == "" {
			t.Host = "localhost"
		}
		if t.Port == 0 {
			t.Port = 3306
		}
	}
}
