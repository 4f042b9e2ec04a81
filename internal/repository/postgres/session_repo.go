package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/timbang/worktime/internal/errs"
	"github.com/timbang/worktime/internal/model"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a session and fills in its generated ID.
func (r *SessionRepo) Create(ctx context.Context, s *model.WorkSession) error {
	const q = `
INSERT INTO work_sessions (user_id, start_time, end_time, notes)
VALUES ($1, $2, $3, $4)
RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, s.UserID, s.StartTime, s.EndTime, s.Notes).Scan(&s.ID)
}

// CreateBatch inserts all sessions inside one transaction. Used by the
// ledger migration so a crash cannot leave a user half-converted.
func (r *SessionRepo) CreateBatch(ctx context.Context, sessions []*model.WorkSession) (err error) {
	if len(sessions) == 0 {
		return nil
	}
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

	const q = `
INSERT INTO work_sessions (user_id, start_time, end_time, notes)
VALUES ($1, $2, $3, $4)
RETURNING id`
	for _, s := range sessions {
		if err = tx.QueryRow(ctx, q, s.UserID, s.StartTime, s.EndTime, s.Notes).Scan(&s.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetByIDAndUser loads a session scoped to its owner.
func (r *SessionRepo) GetByIDAndUser(ctx context.Context, id int64, userID uuid.UUID) (*model.WorkSession, error) {
	const q = `
SELECT id, user_id, start_time, end_time, notes
FROM work_sessions WHERE id=$1 AND user_id=$2`
	row := r.db.Pool.QueryRow(ctx, q, id, userID)
	var s model.WorkSession
	if err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.Notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update persists start/end/notes of an existing session.
func (r *SessionRepo) Update(ctx context.Context, s *model.WorkSession) error {
	const q = `
UPDATE work_sessions SET start_time=$3, end_time=$4, notes=$5
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, s.ID, s.UserID, s.StartTime, s.EndTime, s.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a session owned by the user.
func (r *SessionRepo) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	const q = `DELETE FROM work_sessions WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByUser returns all sessions for a user ordered by ID ascending.
func (r *SessionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WorkSession, error) {
	const q = `
SELECT id, user_id, start_time, end_time, notes
FROM work_sessions
WHERE user_id=$1
ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// ListByUserBetween returns sessions with start_time within [start, end] inclusive.
func (r *SessionRepo) ListByUserBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.WorkSession, error) {
	const q = `
SELECT id, user_id, start_time, end_time, notes
FROM work_sessions
WHERE user_id=$1 AND start_time BETWEEN $2 AND $3
ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID, start, end)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// ListByUserPage returns a most-recent-first window of sessions.
func (r *SessionRepo) ListByUserPage(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.WorkSession, error) {
	const q = `
SELECT id, user_id, start_time, end_time, notes
FROM work_sessions
WHERE user_id=$1
ORDER BY start_time DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// CountOpenByUser counts sessions with no end time for the user.
func (r *SessionRepo) CountOpenByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM work_sessions WHERE user_id=$1 AND end_time IS NULL`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Count returns the total number of sessions across all users.
func (r *SessionRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM work_sessions`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanSessions(rows pgx.Rows) ([]model.WorkSession, error) {
	defer rows.Close()
	out := []model.WorkSession{}
	for rows.Next() {
		var s model.WorkSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime, &s.Notes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
