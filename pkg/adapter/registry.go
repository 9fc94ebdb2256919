package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
)

// Factory builds an unconnected adapter.
type Factory func(*slog.Logger) Adapter

// Adapters are keyed by the dialect they apply scripts for.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds the adapter factory for a dialect.
// Called by adapter implementations in their init() functions.
func Register(dialectName string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(dialectName)] = factory
}

// Get returns the factory registered for a dialect name.
func Get(dialectName string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(dialectName)]
	return f, ok
}

// Lookup resolves a target type to its dialect and adapter factory.
// The type must name a registered dialect that also has an adapter.
func Lookup(targetType string) (*dialect.Dialect, Factory, error) {
	d, err := dialect.Lookup(targetType)
	if err != nil {
		if errors.Is(err, dialect.ErrDialectRequired) {
			return nil, nil, fmt.Errorf("adapter type not specified: %w", err)
		}
		return nil, nil, &UnknownAdapterError{Type: targetType, Available: ListAdapters(), Err: err}
	}
	f, ok := Get(d.Name)
	if !ok {
		return nil, nil, &UnknownAdapterError{Type: targetType, Available: ListAdapters()}
	}
	return d, f, nil
}

// NewAdapter creates an unconnected adapter for cfg.Type.
// The logger parameter is passed to the adapter constructor (nil uses discard logger).
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	_, factory, err := Lookup(cfg.Type)
	if err != nil {
		return nil, err
	}
	return factory(logger), nil
}

// ListAdapters returns the dialect names that have an adapter (sorted).
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownAdapterError is returned when a target type has no adapter.
// Err holds the dialect lookup error when the type is not a dialect at all.
type UnknownAdapterError struct {
	Type      string
	Available []string
	Err       error
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown target type %q\nAvailable types: %v\nHint: Check targets.<name>.type in jsonsql.yaml", e.Type, e.Available)
}

func (e *UnknownAdapterError) Unwrap() error { return e.Err }
