package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/timbang/worktime/internal/model"
)

// EntryRepo implements EntryRepository using PostgreSQL.
type EntryRepo struct{ db *DB }

// NewEntryRepo constructs a legacy-entry repository.
func NewEntryRepo(db *DB) *EntryRepo { return &EntryRepo{db: db} }

// ListByUserOrdered returns the user's entries ordered by timestamp
// ascending, ID ascending as the tie-break. The same ordering is used
// everywhere the ledger is read.
func (r *EntryRepo) ListByUserOrdered(ctx context.Context, userID uuid.UUID) ([]model.WorkEntry, error) {
	const q = `
SELECT id, user_id, ts, entry_type, notes
FROM work_entries
WHERE user_id=$1
ORDER BY ts ASC, id ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WorkEntry
	for rows.Next() {
		var e model.WorkEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.Type, &e.Notes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the total number of legacy entries.
func (r *EntryRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM work_entries`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteAll purges every legacy entry. A single DELETE keeps the cleanup
// atomic: either all rows go or none do.
func (r *EntryRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM work_entries`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
