package httpapi

import (
	"time"

	"github.com/timbang/worktime/internal/model"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Username     string    `json:"username,omitempty"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type clockRequest struct {
	Timestamp *time.Time `json:"timestamp"`
	Notes     string     `json:"notes"`
}

type editSessionRequest struct {
	NewStartTime *time.Time `json:"newStartTime"`
	NewEndTime   *time.Time `json:"newEndTime"`
	Notes        *string    `json:"notes"`
}

type manualSessionRequest struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Notes     string    `json:"notes"`
}

type sessionResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	// OpenSessions reports sessions already open before a clock-in.
	OpenSessions int64 `json:"openSessions,omitempty"`
}

func toSessionResponse(s *model.WorkSession, username string) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		Username:  username,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Notes:     s.Notes,
	}
}

func toSessionResponses(sessions []model.WorkSession, username string) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i], username))
	}
	return out
}

type configPayload struct {
	ExpectedWeeklyHours  int    `json:"expectedWeeklyHours"`
	ExpectedMonthlyHours int    `json:"expectedMonthlyHours"`
	TrackLunchBreak      bool   `json:"trackLunchBreak"`
	LunchBreakMinutes    int    `json:"defaultLunchBreakMinutes"`
	WorkDays             string `json:"workDays"`
	Region               string `json:"region"`
	ShowHolidays         bool   `json:"showHolidays"`
}

func toConfigPayload(c *model.WorkConfig) configPayload {
	return configPayload{
		ExpectedWeeklyHours:  c.ExpectedWeeklyHours,
		ExpectedMonthlyHours: c.ExpectedMonthlyHours,
		TrackLunchBreak:      c.TrackLunchBreak,
		LunchBreakMinutes:    c.LunchBreakMinutes,
		WorkDays:             c.WorkDays,
		Region:               string(c.Region),
		ShowHolidays:         c.ShowHolidays,
	}
}

type holidayResponse struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Region      string `json:"region"`
}

func toHolidayResponses(holidays []model.Holiday) []holidayResponse {
	out := make([]holidayResponse, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holidayResponse{
			Date:        h.Date.Format("2006-01-02"),
			Name:        h.Name,
			Description: h.Description,
			Region:      string(h.Region),
		})
	}
	return out
}
