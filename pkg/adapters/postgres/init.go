package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/jsonsql/pkg/adapter"
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects/postgres" // adapters resolve through the dialect registry
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
