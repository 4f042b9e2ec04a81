package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/timbang/worktime/internal/model"
)

// EntryRepository provides read access to the legacy flat event ledger.
// Entries are never created through this interface anymore; the tables
// survive only until the migration engine has converted and purged them.
type EntryRepository interface {
	// ListByUserOrdered returns the user's entries ordered by timestamp
	// ascending, ID ascending as the tie-break.
	ListByUserOrdered(ctx context.Context, userID uuid.UUID) ([]model.WorkEntry, error)

	// Count returns the total number of legacy entries across all users.
	Count(ctx context.Context) (int64, error)

	// DeleteAll purges every legacy entry in a single statement.
	DeleteAll(ctx context.Context) (int64, error)
}
