package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/timbang/worktime/internal/errs"
	"github.com/timbang/worktime/internal/model"
)

// ConfigRepo implements ConfigRepository using PostgreSQL.
type ConfigRepo struct{ db *DB }

// NewConfigRepo constructs a work-config repository.
func NewConfigRepo(db *DB) *ConfigRepo { return &ConfigRepo{db: db} }

// GetByUser loads the user's config.
func (r *ConfigRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.WorkConfig, error) {
	const q = `
SELECT id, user_id, expected_weekly_hours, expected_monthly_hours,
       track_lunch_break, lunch_break_minutes, work_days, region, show_holidays
FROM work_configs WHERE user_id=$1`
	row := r.db.Pool.QueryRow(ctx, q, userID)
	var c model.WorkConfig
	err := row.Scan(&c.ID, &c.UserID, &c.ExpectedWeeklyHours, &c.ExpectedMonthlyHours,
		&c.TrackLunchBreak, &c.LunchBreakMinutes, &c.WorkDays, &c.Region, &c.ShowHolidays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save upserts the config keyed by user and fills in the generated ID.
func (r *ConfigRepo) Save(ctx context.Context, cfg *model.WorkConfig) error {
	const q = `
INSERT INTO work_configs (user_id, expected_weekly_hours, expected_monthly_hours,
                          track_lunch_break, lunch_break_minutes, work_days, region, show_holidays)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id) DO UPDATE SET
  expected_weekly_hours=EXCLUDED.expected_weekly_hours,
  expected_monthly_hours=EXCLUDED.expected_monthly_hours,
  track_lunch_break=EXCLUDED.track_lunch_break,
  lunch_break_minutes=EXCLUDED.lunch_break_minutes,
  work_days=EXCLUDED.work_days,
  region=EXCLUDED.region,
  show_holidays=EXCLUDED.show_holidays
RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		cfg.UserID, cfg.ExpectedWeeklyHours, cfg.ExpectedMonthlyHours,
		cfg.TrackLunchBreak, cfg.LunchBreakMinutes, cfg.WorkDays, cfg.Region, cfg.ShowHolidays,
	).Scan(&cfg.ID)
}
