package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/timbang/worktime/internal/model"
	"github.com/timbang/worktime/internal/repository"
)

// DefaultHolidayAPI is the public German holiday API queried by Sync.
const DefaultHolidayAPI = "https://feiertage-api.de/api/"

// HolidayService maintains the cached public-holiday table.
type HolidayService interface {
	// Sync replaces the cache with fresh data from the holiday API.
	Sync(ctx context.Context) error
	// SyncIfEmpty syncs only when the cache holds no rows.
	SyncIfEmpty(ctx context.Context) error
	// ListByRegion returns cached holidays for the region.
	ListByRegion(ctx context.Context, region model.Region) ([]model.Holiday, error)
}

type HolidayServiceImpl struct {
	repo    repository.HolidayRepository
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

// NewHolidayService constructs HolidayService. A nil client falls back to a
// default with a conservative timeout; baseURL is overridable for tests.
func NewHolidayService(repo repository.HolidayRepository, client *http.Client, baseURL string, log *zap.Logger) *HolidayServiceImpl {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultHolidayAPI
	}
	return &HolidayServiceImpl{repo: repo, client: client, baseURL: baseURL, log: log}
}

// apiHoliday mirrors one entry of the feiertage-api.de payload,
// keyed as region -> holiday name -> entry.
type apiHoliday struct {
	Datum   string `json:"datum"`
	Hinweis string `json:"hinweis"`
}

// Sync fetches the full holiday set and swaps the cache atomically.
func (s *HolidayServiceImpl) Sync(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch holidays: unexpected status %d", resp.StatusCode)
	}

	var payload map[string]map[string]apiHoliday
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode holidays: %w", err)
	}
	if len(payload) == 0 {
		s.log.Warn("holiday API returned empty payload, keeping cache")
		return nil
	}

	var holidays []model.Holiday
	for regionCode, byName := range payload {
		region := model.Region(regionCode)
		if !region.Valid() {
			s.log.Warn("skipping unknown holiday region", zap.String("region", regionCode))
			continue
		}
		for name, h := range byName {
			date, err := time.Parse("2006-01-02", h.Datum)
			if err != nil {
				s.log.Warn("skipping holiday with bad date",
					zap.String("name", name),
					zap.String("datum", h.Datum),
				)
				continue
			}
			holidays = append(holidays, model.Holiday{
				Date:        date,
				Name:        name,
				Description: h.Hinweis,
				Region:      region,
			})
		}
	}

	if err := s.repo.ReplaceAll(ctx, holidays); err != nil {
		return fmt.Errorf("store holidays: %w", err)
	}
	s.log.Info("holiday cache refreshed", zap.Int("count", len(holidays)))
	return nil
}

// SyncIfEmpty syncs only when no holidays are cached yet.
func (s *HolidayServiceImpl) SyncIfEmpty(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.Sync(ctx)
}

// ListByRegion returns cached holidays for the region.
func (s *HolidayServiceImpl) ListByRegion(ctx context.Context, region model.Region) ([]model.Holiday, error) {
	return s.repo.ListByRegion(ctx, region)
}
