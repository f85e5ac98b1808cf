package compatdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/compat"
	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/model"
)

const table = "can_vehicle_compat"

// placeholder renders the n-th (1-based) bind parameter of a dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

// sqlStore holds the queries shared by both dialects.
type sqlStore struct {
	db *sql.DB
	ph placeholder
}

func (s *sqlStore) findQuery() string {
	return fmt.Sprintf(`SELECT adapter, brand, model, year_text, year_min, year_max, open_ended, can_buses, flags
        FROM %s WHERE adapter = %s AND brand = %s AND model = %s ORDER BY id LIMIT %d`,
		table, s.ph(1), s.ph(2), s.ph(3), compat.MaxResults)
}

// FindCompatible returns the records of adapter for the normalized brand
// and model, in insertion order.
func (s *sqlStore) FindCompatible(ctx context.Context, adapter, brand, modelName string) ([]model.CompatibilityRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.findQuery(), adapter, compat.Normalize(brand), compat.Normalize(modelName))
	if err != nil {
		return nil, fmt.Errorf("compatdb: query %s: %w: %w", adapter, compat.ErrUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var res []model.CompatibilityRecord
	for rows.Next() {
		var (
			r                       model.CompatibilityRecord
			yearText, flags         sql.NullString
			yearMin, yearMax, buses sql.NullInt64
			openEnded               sql.NullBool
		)
		if err := rows.Scan(&r.Adapter, &r.Brand, &r.Model, &yearText, &yearMin, &yearMax, &openEnded, &buses, &flags); err != nil {
			return nil, fmt.Errorf("compatdb: scan: %w: %w", compat.ErrUnavailable, err)
		}
		if yearText.Valid {
			v := yearText.String
			r.YearText = &v
		}
		r.YearMin = intPtr(yearMin)
		r.YearMax = intPtr(yearMax)
		r.CANBuses = intPtr(buses)
		r.OpenEnded = openEnded.Valid && openEnded.Bool
		r.Flags = flags.String
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("compatdb: rows: %w: %w", compat.ErrUnavailable, err)
	}
	return res, nil
}

// Replace deletes every record of adapter and inserts recs in one
// transaction. Brand and model are normalized before insertion.
func (s *sqlStore) Replace(ctx context.Context, adapter string, recs []model.CompatibilityRecord) error {
	for _, r := range recs {
		if r.Adapter != adapter {
			return fmt.Errorf("compatdb: record for %s in %s replacement", r.Adapter, adapter)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("compatdb: %w", err)
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("compatdb: begin: %w: %w", compat.ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE adapter = %s", table, s.ph(1)), adapter); err != nil {
		return fmt.Errorf("compatdb: delete %s: %w", adapter, err)
	}
	cols := []string{"adapter", "brand", "model", "year_text", "year_min", "year_max", "open_ended", "can_buses", "flags"}
	marks := make([]string, len(cols))
	for i := range marks {
		marks[i] = s.ph(i + 1)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("compatdb: prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range recs {
		var flags any
		if r.Flags != "" {
			flags = r.Flags
		}
		_, err := stmt.ExecContext(ctx,
			r.Adapter, compat.Normalize(r.Brand), compat.Normalize(r.Model),
			nullString(r.YearText), nullInt(r.YearMin), nullInt(r.YearMax),
			r.OpenEnded, nullInt(r.CANBuses), flags)
		if err != nil {
			return fmt.Errorf("compatdb: insert %s/%s: %w", r.Brand, r.Model, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *sqlStore) Close() error {
	return s.db.Close()
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
