package ledger

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/timbang/worktime/internal/model"
	"github.com/timbang/worktime/internal/repository"
)

// Skip reasons reported when a migration run performs no writes.
const (
	SkipNothingToMigrate = "no legacy entries found"
	SkipAlreadyMigrated  = "session data already exists"
)

// Report summarizes one migration run. Skips are informational outcomes,
// not errors; only storage failures abort the run.
type Report struct {
	Skipped         bool
	SkipReason      string
	UsersMigrated   int
	SessionsCreated int
	Incomplete      int
	OrphanClockOuts int
}

// Migrator converts the legacy event ledger into work sessions at startup.
type Migrator struct {
	users    repository.UserRepository
	entries  repository.EntryRepository
	sessions repository.SessionRepository
	log      *zap.Logger
}

// NewMigrator constructs a migrator with injected repositories.
func NewMigrator(users repository.UserRepository, entries repository.EntryRepository, sessions repository.SessionRepository, log *zap.Logger) *Migrator {
	return &Migrator{users: users, entries: entries, sessions: sessions, log: log}
}

// Run converts all users' legacy entries into sessions. The run is guarded
// to be idempotent: it only writes when the session store is empty and the
// entry store is not. Each user's sessions are inserted in one transaction.
func (m *Migrator) Run(ctx context.Context) (Report, error) {
	entryCount, err := m.entries.Count(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("count entries: %w", err)
	}
	if entryCount == 0 {
		m.log.Info("ledger migration skipped", zap.String("reason", SkipNothingToMigrate))
		return Report{Skipped: true, SkipReason: SkipNothingToMigrate}, nil
	}

	sessionCount, err := m.sessions.Count(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("count sessions: %w", err)
	}
	if sessionCount > 0 {
		m.log.Warn("ledger migration skipped",
			zap.String("reason", SkipAlreadyMigrated),
			zap.Int64("sessions", sessionCount),
		)
		return Report{Skipped: true, SkipReason: SkipAlreadyMigrated}, nil
	}

	m.log.Info("starting ledger migration", zap.Int64("entries", entryCount))

	userIDs, err := m.users.ListIDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list users: %w", err)
	}

	var rep Report
	for _, userID := range userIDs {
		if err := m.migrateUser(ctx, userID, &rep); err != nil {
			return rep, fmt.Errorf("migrate user %s: %w", userID, err)
		}
	}

	m.log.Info("ledger migration complete",
		zap.Int("users", rep.UsersMigrated),
		zap.Int("sessions", rep.SessionsCreated),
		zap.Int("incomplete", rep.Incomplete),
		zap.Int("orphanClockOuts", rep.OrphanClockOuts),
	)
	return rep, nil
}

func (m *Migrator) migrateUser(ctx context.Context, userID uuid.UUID, rep *Report) error {
	entries, err := m.entries.ListByUserOrdered(ctx, userID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	drafts, stats := Pair(entries)
	sessions := make([]*model.WorkSession, 0, len(drafts))
	for _, d := range drafts {
		sessions = append(sessions, &model.WorkSession{
			UserID:    userID,
			StartTime: d.Start,
			EndTime:   d.End,
			Notes:     d.Notes,
		})
	}
	if err := m.sessions.CreateBatch(ctx, sessions); err != nil {
		return err
	}

	for _, orphan := range stats.Orphans {
		m.log.Warn("orphaned clock-out dropped",
			zap.String("user", userID.String()),
			zap.Time("ts", orphan.Timestamp),
			zap.Int64("entry", orphan.ID),
		)
	}
	m.log.Info("migrated user ledger",
		zap.String("user", userID.String()),
		zap.Int("sessions", len(sessions)),
		zap.Int("incomplete", stats.Incomplete),
		zap.Int("orphans", len(stats.Orphans)),
	)

	rep.UsersMigrated++
	rep.SessionsCreated += len(sessions)
	rep.Incomplete += stats.Incomplete
	rep.OrphanClockOuts += len(stats.Orphans)
	return nil
}

// Cleanup purges the legacy entries once sessions exist, i.e. after a
// successful migration. The purge is a single atomic delete.
func (m *Migrator) Cleanup(ctx context.Context) (int64, error) {
	entryCount, err := m.entries.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	if entryCount == 0 {
		m.log.Info("ledger cleanup skipped: no legacy entries")
		return 0, nil
	}

	sessionCount, err := m.sessions.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	if sessionCount == 0 {
		m.log.Warn("ledger cleanup skipped: no sessions, keeping original data")
		return 0, nil
	}

	purged, err := m.entries.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	m.log.Info("ledger cleanup complete", zap.Int64("purged", purged))
	return purged, nil
}
