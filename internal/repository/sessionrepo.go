package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/timbang/worktime/internal/model"
)

// SessionRepository provides access to paired work sessions.
type SessionRepository interface {
	// Create inserts a session and fills in its generated ID.
	Create(ctx context.Context, s *model.WorkSession) error

	// CreateBatch inserts all sessions in a single transaction.
	CreateBatch(ctx context.Context, sessions []*model.WorkSession) error

	// GetByIDAndUser loads a session by ID scoped to its owner.
	GetByIDAndUser(ctx context.Context, id int64, userID uuid.UUID) (*model.WorkSession, error)

	// Update persists start/end/notes of an existing session.
	Update(ctx context.Context, s *model.WorkSession) error

	// Delete removes a session owned by the user.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error

	// ListByUser returns all sessions for a user ordered by ID ascending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WorkSession, error)

	// ListByUserBetween returns sessions whose start time falls within
	// [start, end] inclusive, ordered by ID ascending.
	ListByUserBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.WorkSession, error)

	// ListByUserPage returns a window ordered by start time descending.
	ListByUserPage(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.WorkSession, error)

	// CountOpenByUser counts sessions with no end time for the user.
	CountOpenByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Count returns the total number of sessions across all users.
	Count(ctx context.Context) (int64, error)
}
