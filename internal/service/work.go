// Package service contains application services for authentication, work
// tracking, and holiday data.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/timbang/worktime/internal/errs"
	"github.com/timbang/worktime/internal/model"
	"github.com/timbang/worktime/internal/repository"
)

// PageSize is the window used by ListPage.
const PageSize = 10

// WorkService defines clock-in/out session operations and config access.
// Every operation takes the resolved user ID explicitly; there is no
// ambient request identity.
type WorkService interface {
	// ClockIn opens a new session. The returned count reports sessions
	// that were already open before this call.
	ClockIn(ctx context.Context, userID uuid.UUID, at *time.Time, notes string) (*model.WorkSession, int64, error)
	// ClockOut closes the addressed session.
	ClockOut(ctx context.Context, userID uuid.UUID, sessionID int64, at *time.Time, notes string) (*model.WorkSession, error)
	// Edit applies a partial update; nil patch fields are left untouched.
	Edit(ctx context.Context, userID uuid.UUID, sessionID int64, patch model.SessionPatch) (*model.WorkSession, error)
	// Delete removes a session entirely.
	Delete(ctx context.Context, userID uuid.UUID, sessionID int64) error
	// AddManual records an already-finished session in one step.
	AddManual(ctx context.Context, userID uuid.UUID, start, end time.Time, notes string) (*model.WorkSession, error)
	// List returns sessions, optionally bounded to [start, end] by start time.
	List(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.WorkSession, error)
	// ListPage returns the 0-indexed page of sessions, most recent first.
	ListPage(ctx context.Context, userID uuid.UUID, page int) ([]model.WorkSession, error)
	// GetConfig returns the user's config, creating it with defaults on first read.
	GetConfig(ctx context.Context, userID uuid.UUID) (*model.WorkConfig, error)
	// UpdateConfig overwrites the user's config.
	UpdateConfig(ctx context.Context, userID uuid.UUID, cfg model.WorkConfig) (*model.WorkConfig, error)
}

type WorkServiceImpl struct {
	sessions repository.SessionRepository
	configs  repository.ConfigRepository
	clock    Clock
	strict   bool
	log      *zap.Logger
}

// NewWorkService constructs WorkService. With strict enabled, clocking in
// while a session is open fails instead of producing a warning.
func NewWorkService(sessions repository.SessionRepository, configs repository.ConfigRepository, clock Clock, strict bool, log *zap.Logger) *WorkServiceImpl {
	if clock == nil {
		clock = SystemClock{}
	}
	return &WorkServiceImpl{sessions: sessions, configs: configs, clock: clock, strict: strict, log: log}
}

// resolve defaults a missing timestamp to now and rejects future instants.
func (s *WorkServiceImpl) resolve(at *time.Time) (time.Time, error) {
	now := s.clock.Now()
	if at == nil {
		return now, nil
	}
	if at.After(now) {
		return time.Time{}, fmt.Errorf("%w: %s is in the future", errs.ErrInvalidTimestamp, at.Format(time.RFC3339))
	}
	return *at, nil
}

// ClockIn opens a new session starting at the given (or current) time.
func (s *WorkServiceImpl) ClockIn(ctx context.Context, userID uuid.UUID, at *time.Time, notes string) (*model.WorkSession, int64, error) {
	ts, err := s.resolve(at)
	if err != nil {
		return nil, 0, err
	}

	open, err := s.sessions.CountOpenByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if open > 0 {
		if s.strict {
			return nil, open, fmt.Errorf("%w: %d session(s) still open", errs.ErrOpenSessionExists, open)
		}
		s.log.Warn("clock-in with open session",
			zap.String("user", userID.String()),
			zap.Int64("open", open),
		)
	}

	session := &model.WorkSession{UserID: userID, StartTime: ts, Notes: notes}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, 0, err
	}
	return session, open, nil
}

// ClockOut sets the end time of the addressed session.
func (s *WorkServiceImpl) ClockOut(ctx context.Context, userID uuid.UUID, sessionID int64, at *time.Time, notes string) (*model.WorkSession, error) {
	ts, err := s.resolve(at)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if ts.Before(session.StartTime) {
		return nil, fmt.Errorf("%w: clock-out %s before clock-in %s",
			errs.ErrOrderingViolation, ts.Format(time.RFC3339), session.StartTime.Format(time.RFC3339))
	}

	session.EndTime = &ts
	if notes != "" {
		session.Notes = notes
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Edit applies the provided fields only. The stored pair is re-checked
// before the patch, and the resulting pair is checked after it.
func (s *WorkServiceImpl) Edit(ctx context.Context, userID uuid.UUID, sessionID int64, patch model.SessionPatch) (*model.WorkSession, error) {
	session, err := s.sessions.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.EndTime != nil && session.StartTime.After(*session.EndTime) {
		return nil, fmt.Errorf("%w: stored session has start %s after end %s",
			errs.ErrOrderingViolation, session.StartTime.Format(time.RFC3339), session.EndTime.Format(time.RFC3339))
	}

	if patch.StartTime != nil {
		session.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		session.EndTime = patch.EndTime
	}
	if patch.Notes != nil {
		session.Notes = *patch.Notes
	}
	if session.EndTime != nil && session.StartTime.After(*session.EndTime) {
		return nil, fmt.Errorf("%w: start %s after end %s",
			errs.ErrOrderingViolation, session.StartTime.Format(time.RFC3339), session.EndTime.Format(time.RFC3339))
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes the session as a whole unit; no soft-delete.
func (s *WorkServiceImpl) Delete(ctx context.Context, userID uuid.UUID, sessionID int64) error {
	return s.sessions.Delete(ctx, sessionID, userID)
}

// AddManual records a finished session with both bounds supplied.
func (s *WorkServiceImpl) AddManual(ctx context.Context, userID uuid.UUID, start, end time.Time, notes string) (*model.WorkSession, error) {
	now := s.clock.Now()
	if start.After(now) || end.After(now) {
		return nil, fmt.Errorf("%w: manual entry in the future", errs.ErrInvalidTimestamp)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s",
			errs.ErrOrderingViolation, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	session := &model.WorkSession{UserID: userID, StartTime: start, EndTime: &end, Notes: notes}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// List returns the user's sessions, bounded by start time when both bounds
// are given. An empty result is a valid outcome, not an error.
func (s *WorkServiceImpl) List(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.WorkSession, error) {
	if start != nil && end != nil {
		return s.sessions.ListByUserBetween(ctx, userID, *start, *end)
	}
	return s.sessions.ListByUser(ctx, userID)
}

// ListPage returns the requested window, most recent first. Pages past the
// end of the data come back empty.
func (s *WorkServiceImpl) ListPage(ctx context.Context, userID uuid.UUID, page int) ([]model.WorkSession, error) {
	if page < 0 {
		return []model.WorkSession{}, nil
	}
	return s.sessions.ListByUserPage(ctx, userID, PageSize, page*PageSize)
}

// GetConfig returns the user's config, creating defaults on first read.
func (s *WorkServiceImpl) GetConfig(ctx context.Context, userID uuid.UUID) (*model.WorkConfig, error) {
	cfg, err := s.configs.GetByUser(ctx, userID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	cfg = model.DefaultWorkConfig(userID)
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateConfig overwrites the full config value.
func (s *WorkServiceImpl) UpdateConfig(ctx context.Context, userID uuid.UUID, cfg model.WorkConfig) (*model.WorkConfig, error) {
	if !cfg.Region.Valid() {
		return nil, fmt.Errorf("validation: unknown region %q", cfg.Region)
	}
	cfg.UserID = userID
	if err := s.configs.Save(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
