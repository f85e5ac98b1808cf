package compatdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/infra/logger"
)

const postgresSchema = `
    CREATE TABLE IF NOT EXISTS can_vehicle_compat (
        id SERIAL PRIMARY KEY,
        adapter TEXT NOT NULL,
        brand TEXT NOT NULL,
        model TEXT NOT NULL,
        year_text TEXT,
        year_min INT,
        year_max INT,
        open_ended BOOLEAN DEFAULT FALSE,
        can_buses INT,
        flags TEXT,
        updated_at TIMESTAMPTZ DEFAULT NOW()
    );
    CREATE INDEX IF NOT EXISTS idx_can_brand_model ON can_vehicle_compat(adapter, brand, model);`

// PostgresConfig configures the connection to the shared table.
type PostgresConfig struct {
	DSN          string        `json:"dsn"`
	PingAttempts int           `json:"ping_attempts"`
	PingInterval time.Duration `json:"ping_interval"`
	// Migrate creates the table when it does not exist yet.
	Migrate bool `json:"migrate"`
}

// PostgresStore reads compatibility records from PostgreSQL.
type PostgresStore struct {
	sqlStore
}

var _ compat.Store = (*PostgresStore)(nil)

// NewPostgresStore opens the database and waits until it answers pings.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	if cfg.PingAttempts <= 0 {
		cfg.PingAttempts = 10
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 2 * time.Second
	}
	log := logger.New("compatdb")
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("compatdb: open postgres: %w: %w", compat.ErrUnavailable, err)
	}

	for i := 0; i < cfg.PingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		log.Warnf("postgres ping %d/%d failed: %v", i+1, cfg.PingAttempts, err)
		if i == cfg.PingAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("compatdb: postgres ping: %w: %w", compat.ErrUnavailable, ctx.Err())
		case <-time.After(cfg.PingInterval):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("compatdb: postgres ping failed after retries: %w: %w", compat.ErrUnavailable, err)
	}

	if cfg.Migrate {
		if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("compatdb: migrate: %w", err)
		}
	}
	return &PostgresStore{sqlStore{db: db, ph: dollar}}, nil
}
