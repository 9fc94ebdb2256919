package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/jsonsql/pkg/adapter"
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects/mysql" // adapters resolve through the dialect registry
)

func init() {
	adapter.Register("mysql", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
