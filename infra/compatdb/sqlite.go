package compatdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS can_vehicle_compat (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        adapter TEXT NOT NULL,
        brand TEXT NOT NULL,
        model TEXT NOT NULL,
        year_text TEXT,
        year_min INTEGER,
        year_max INTEGER,
        open_ended BOOLEAN DEFAULT FALSE,
        can_buses INTEGER,
        flags TEXT,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_can_brand_model ON can_vehicle_compat(adapter, brand, model);`

// SQLiteStore persists compatibility records in a SQLite database.
type SQLiteStore struct {
	sqlStore
}

var _ compat.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("compatdb: open sqlite: %w: %w", compat.ErrUnavailable, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("compatdb: sqlite schema: %w: %w", compat.ErrUnavailable, err)
	}
	return &SQLiteStore{sqlStore{db: db, ph: questionMark}}, nil
}
