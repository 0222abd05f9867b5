package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"fitlog/internal/domain"
)

var _ domain.MeasurementRepository = (*DB)(nil)

// Append inserts a measurement and returns its new ID.
func (d *DB) Append(ctx context.Context, m domain.Measurement) (int64, error) {
	var height sql.NullFloat64
	if m.Height != nil {
		height = sql.NullFloat64{Float64: *m.Height, Valid: true}
	}
	args := []any{m.UserID, m.Weight, height, m.FatPercentage, m.Date, m.CreatedAt.UTC()}
	query := "INSERT INTO measurements(name, weight, height, fat_percentage, date, created_at) VALUES(?, ?, ?, ?, ?, ?)"

	if d.dialect.returning {
		var id int64
		if err := d.sql.QueryRowContext(ctx, d.rebind(query+" RETURNING id;"), args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("append measurement: %w: %w", domain.ErrStorage, err)
		}
		return id, nil
	}

	res, err := d.sql.ExecContext(ctx, d.rebind(query+";"), args...)
	if err != nil {
		return 0, fmt.Errorf("append measurement: %w: %w", domain.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append measurement: %w: %w", domain.ErrStorage, err)
	}
	return id, nil
}

// ListByUser returns the user's measurements in insertion order.
func (d *DB) ListByUser(ctx context.Context, userID string) ([]domain.Measurement, error) {
	rows, err := d.sql.QueryContext(ctx,
		d.rebind("SELECT id, name, weight, height, fat_percentage, date, created_at FROM measurements WHERE name = ? ORDER BY id ASC;"),
		userID)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	out := make([]domain.Measurement, 0)
	for rows.Next() {
		var (
			m      domain.Measurement
			height sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Weight, &height, &m.FatPercentage, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan measurement: %w: %w", domain.ErrStorage, err)
		}
		if height.Valid {
			h := height.Float64
			m.Height = &h
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list measurements: %w: %w", domain.ErrStorage, err)
	}
	return out, nil
}
