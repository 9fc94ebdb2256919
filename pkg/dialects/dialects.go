// Package dialects registers every built-in SQL dialect.
//
// Import this package with a blank identifier to register them:
//
//	import _ "github.com/leapstack-labs/jsonsql/pkg/dialects"
package dialects

import (
	// Each dialect registers itself in init()
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/jsonsql/pkg/dialects/sqlite"
)
