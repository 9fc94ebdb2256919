package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/jsonsql/pkg/adapter"
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects/sqlite" // adapters resolve through the dialect registry
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
