// Package adapters registers every built-in database adapter.
//
//	import _ "github.com/leapstack-labs/jsonsql/pkg/adapters"
package adapters

import (
	_ "github.com/leapstack-labs/jsonsql/pkg/adapters/mysql"    // mysql
	_ "github.com/leapstack-labs/jsonsql/pkg/adapters/postgres" // postgres
	_ "github.com/leapstack-labs/jsonsql/pkg/adapters/sqlite"   // sqlite
)
