// Package httpapi exposes the work-tracking JSON API over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/timbang/worktime/internal/model"
	"github.com/timbang/worktime/internal/repository"
	"github.com/timbang/worktime/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	work     service.WorkService
	holidays service.HolidayService
	users    repository.UserRepository
	signKey  []byte
	log      *zap.Logger
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, work service.WorkService, holidays service.HolidayService, users repository.UserRepository, signKey []byte, log *zap.Logger) *Server {
	return &Server{auth: auth, work: work, holidays: holidays, users: users, signKey: signKey, log: log}
}

// Handler builds the route table wrapped with recovery and logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/refresh", s.handleRefresh)

	mux.HandleFunc("POST /api/v1/work/clock-in", s.requireAuth(s.handleClockIn))
	mux.HandleFunc("POST /api/v1/work/clock-out/{id}", s.requireAuth(s.handleClockOut))
	mux.HandleFunc("POST /api/v1/work/manual", s.requireAuth(s.handleManual))
	mux.HandleFunc("GET /api/v1/work/entries", s.requireAuth(s.handleList))
	mux.HandleFunc("GET /api/v1/work/entries/{page}", s.requireAuth(s.handleListPage))
	mux.HandleFunc("PUT /api/v1/work/entries/{id}", s.requireAuth(s.handleEdit))
	mux.HandleFunc("DELETE /api/v1/work/entries/{id}", s.requireAuth(s.handleDelete))
	mux.HandleFunc("GET /api/v1/work/config", s.requireAuth(s.handleGetConfig))
	mux.HandleFunc("PUT /api/v1/work/config", s.requireAuth(s.handleUpdateConfig))
	mux.HandleFunc("GET /api/v1/holidays", s.requireAuth(s.handleHolidays))

	return Recover(s.log)(Logging(s.log)(mux))
}

// decode parses a JSON body; an empty body yields the zero value.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// --- Auth ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeErrorMessage(w, http.StatusBadRequest, "empty username/password")
		return
	}
	userID, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"userId": userID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	tokens, user, err := s.auth.LoginWithIP(r.Context(), req.Username, req.Password, remoteIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		Username:     user.Username,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	tokens, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	})
}

// --- Sessions ---

func (s *Server) handleClockIn(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req clockRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	session, open, err := s.work.ClockIn(r.Context(), u.ID, req.Timestamp, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := toSessionResponse(session, u.Username)
	resp.OpenSessions = open
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClockOut(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad session id")
		return
	}
	var req clockRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	session, err := s.work.ClockOut(r.Context(), u.ID, id, req.Timestamp, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session, u.Username))
}

func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req manualSessionRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		writeErrorMessage(w, http.StatusBadRequest, "startTime and endTime are required")
		return
	}
	session, err := s.work.AddManual(r.Context(), u.ID, req.StartTime, req.EndTime, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session, u.Username))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	start, err := parseTimeParam(r, "start")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad start parameter")
		return
	}
	end, err := parseTimeParam(r, "end")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad end parameter")
		return
	}
	sessions, err := s.work.List(r.Context(), u.ID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponses(sessions, u.Username))
}

func (s *Server) handleListPage(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad page number")
		return
	}
	sessions, err := s.work.ListPage(r.Context(), u.ID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponses(sessions, u.Username))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad session id")
		return
	}
	var req editSessionRequest
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	session, err := s.work.Edit(r.Context(), u.ID, id, model.SessionPatch{
		StartTime: req.NewStartTime,
		EndTime:   req.NewEndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(session, u.Username))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad session id")
		return
	}
	if err := s.work.Delete(r.Context(), u.ID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Config & holidays ---

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	cfg, err := s.work.GetConfig(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigPayload(cfg))
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	var req configPayload
	if err := decode(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "bad request body")
		return
	}
	if !model.Region(req.Region).Valid() {
		writeErrorMessage(w, http.StatusBadRequest, "unknown region")
		return
	}
	cfg, err := s.work.UpdateConfig(r.Context(), u.ID, model.WorkConfig{
		ExpectedWeeklyHours:  req.ExpectedWeeklyHours,
		ExpectedMonthlyHours: req.ExpectedMonthlyHours,
		TrackLunchBreak:      req.TrackLunchBreak,
		LunchBreakMinutes:    req.LunchBreakMinutes,
		WorkDays:             req.WorkDays,
		Region:               model.Region(req.Region),
		ShowHolidays:         req.ShowHolidays,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConfigPayload(cfg))
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromCtx(r.Context())
	cfg, err := s.work.GetConfig(r.Context(), u.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !cfg.ShowHolidays {
		writeJSON(w, http.StatusOK, []holidayResponse{})
		return
	}
	holidays, err := s.holidays.ListByRegion(r.Context(), cfg.Region)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayResponses(holidays))
}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
