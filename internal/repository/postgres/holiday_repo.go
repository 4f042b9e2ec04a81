package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/timbang/worktime/internal/model"
)

// HolidayRepo implements HolidayRepository using PostgreSQL.
type HolidayRepo struct{ db *DB }

// NewHolidayRepo constructs a holiday repository.
func NewHolidayRepo(db *DB) *HolidayRepo { return &HolidayRepo{db: db} }

// Count returns the number of cached holidays.
func (r *HolidayRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM holidays`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ReplaceAll swaps the whole table for the given rows in one transaction.
func (r *HolidayRepo) ReplaceAll(ctx context.Context, holidays []model.Holiday) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM holidays`); err != nil {
		return err
	}
	const ins = `
INSERT INTO holidays (holiday_date, name, description, region)
VALUES ($1, $2, $3, $4)`
	for _, h := range holidays {
		if _, err = tx.Exec(ctx, ins, h.Date, h.Name, h.Description, h.Region); err != nil {
			return err
		}
	}
	return nil
}

// ListByRegion returns holidays for the region ordered by date.
func (r *HolidayRepo) ListByRegion(ctx context.Context, region model.Region) ([]model.Holiday, error) {
	const q = `
SELECT id, holiday_date, name, description, region
FROM holidays
WHERE region=$1
ORDER BY holiday_date ASC`
	rows, err := r.db.Pool.Query(ctx, q, region)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Holiday
	for rows.Next() {
		var h model.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.Description, &h.Region); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
