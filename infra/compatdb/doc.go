// Package compatdb implements the compatibility table on SQL databases.
// SQLiteStore keeps the table in a local file and PostgresStore reads the
// shared table the adapter lists are imported into. Both wrap connection
// and query failures with compat.ErrUnavailable.
package compatdb
