package repository

import (
	"context"

	"github.com/timbang/worktime/internal/model"
)

// HolidayRepository provides access to the cached public-holiday table.
type HolidayRepository interface {
	// Count returns the number of cached holidays.
	Count(ctx context.Context) (int64, error)
	// ReplaceAll swaps the whole table for the given rows in one transaction.
	ReplaceAll(ctx context.Context, holidays []model.Holiday) error
	// ListByRegion returns holidays for the region ordered by date.
	ListByRegion(ctx context.Context, region model.Region) ([]model.Holiday, error)
}
