package sqlite

import (
	"github.com/leapstack-labs/jsonsql/pkg/dialect"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config)
