// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	PwdHash   []byte
	CreatedAt time.Time
}

// EntryType discriminates legacy timeline events.
type EntryType string

// Legacy timeline event types.
const (
	ClockIn  EntryType = "CLOCK_IN"
	ClockOut EntryType = "CLOCK_OUT"
)

// WorkEntry is a legacy flat timeline event. Entries are immutable once
// written; the migration engine pairs them into WorkSessions.
type WorkEntry struct {
	ID        int64
	UserID    uuid.UUID
	Timestamp time.Time
	Type      EntryType
	Notes     string
}

// WorkSession is a paired work period. A nil EndTime marks the session open.
type WorkSession struct {
	ID        int64
	UserID    uuid.UUID
	StartTime time.Time
	EndTime   *time.Time
	Notes     string
}

// Open reports whether the session has no end yet.
func (s *WorkSession) Open() bool { return s.EndTime == nil }

// SessionPatch carries partial-update fields for Edit. Nil means "leave as is";
// there is no clear sentinel.
type SessionPatch struct {
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
}

// Region identifies a German state for holiday filtering, or NATIONAL.
type Region string

// Supported regions (German state short codes plus the nationwide bucket).
const (
	RegionBW       Region = "BW"
	RegionBY       Region = "BY"
	RegionBE       Region = "BE"
	RegionBB       Region = "BB"
	RegionHB       Region = "HB"
	RegionHH       Region = "HH"
	RegionHE       Region = "HE"
	RegionMV       Region = "MV"
	RegionNI       Region = "NI"
	RegionNW       Region = "NW"
	RegionRP       Region = "RP"
	RegionSL       Region = "SL"
	RegionSN       Region = "SN"
	RegionST       Region = "ST"
	RegionSH       Region = "SH"
	RegionTH       Region = "TH"
	RegionNational Region = "NATIONAL"
)

var regionNames = map[Region]string{
	RegionBW:       "Baden-Württemberg",
	RegionBY:       "Bayern",
	RegionBE:       "Berlin",
	RegionBB:       "Brandenburg",
	RegionHB:       "Bremen",
	RegionHH:       "Hamburg",
	RegionHE:       "Hessen",
	RegionMV:       "Mecklenburg-Vorpommern",
	RegionNI:       "Niedersachsen",
	RegionNW:       "Nordrhein-Westfalen",
	RegionRP:       "Rheinland-Pfalz",
	RegionSL:       "Saarland",
	RegionSN:       "Sachsen",
	RegionST:       "Sachsen-Anhalt",
	RegionSH:       "Schleswig-Holstein",
	RegionTH:       "Thüringen",
	RegionNational: "Deutschlandweit",
}

// Valid reports whether r is a known region code.
func (r Region) Valid() bool { _, ok := regionNames[r]; return ok }

// DisplayName returns the human-readable name for the region.
func (r Region) DisplayName() string { return regionNames[r] }

// WorkConfig holds per-user tracking settings. A missing config is created
// on first read with these defaults applied by the service layer.
type WorkConfig struct {
	ID                   int64
	UserID               uuid.UUID
	ExpectedWeeklyHours  int
	ExpectedMonthlyHours int
	TrackLunchBreak      bool
	LunchBreakMinutes    int
	WorkDays             string // comma-separated ISO weekday numbers, "1,2,3,4,5"
	Region               Region
	ShowHolidays         bool
}

// DefaultWorkConfig returns the settings applied on first read.
func DefaultWorkConfig(userID uuid.UUID) *WorkConfig {
	return &WorkConfig{
		UserID:               userID,
		ExpectedWeeklyHours:  40,
		ExpectedMonthlyHours: 160,
		TrackLunchBreak:      true,
		LunchBreakMinutes:    60,
		WorkDays:             "1,2,3,4,5",
		Region:               RegionNational,
		ShowHolidays:         true,
	}
}

// Holiday is a cached public holiday row.
type Holiday struct {
	ID          int64
	Date        time.Time
	Name        string
	Description string
	Region      Region
}

// Tokens collects issued access/refresh tokens.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry (for diagnostics)
}
