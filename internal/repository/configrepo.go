package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/timbang/worktime/internal/model"
)

// ConfigRepository provides access to per-user work configuration.
type ConfigRepository interface {
	// GetByUser loads the user's config; errs.ErrNotFound if none exists.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.WorkConfig, error)
	// Save upserts the config keyed by user and fills in the generated ID.
	Save(ctx context.Context, cfg *model.WorkConfig) error
}
