// Package all registers every storage backend with the factory. Tools blank-
// import it so the backend can be chosen at run time.
package all

import (
	_ "tabetl/internal/storage/mssql"
	_ "tabetl/internal/storage/postgres"
	_ "tabetl/internal/storage/sqlite"
)
