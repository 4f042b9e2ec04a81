package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/timbang/worktime/internal/errs"
	"github.com/timbang/worktime/internal/model"
)

var (
	testKey  = []byte("test-signing-key")
	testUser = model.User{
		ID:       uuid.Must(uuid.FromString("5b0c5a0a-1111-4222-8333-444455556666")),
		Username: "tim",
	}
	testStart = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
)

type fakeAuth struct {
	loginErr error
}

func (f *fakeAuth) Register(context.Context, string, string) (string, error) {
	return testUser.ID.String(), nil
}

func (f *fakeAuth) LoginWithIP(_ context.Context, username, password, _ string) (model.Tokens, model.User, error) {
	if f.loginErr != nil {
		return model.Tokens{}, model.User{}, f.loginErr
	}
	return model.Tokens{AccessToken: "a", RefreshToken: "r"}, testUser, nil
}

func (f *fakeAuth) Refresh(context.Context, string) (model.Tokens, error) {
	return model.Tokens{AccessToken: "a2", RefreshToken: "r2"}, nil
}

type fakeWork struct {
	clockInErr  error
	clockOutErr error
	cfg         model.WorkConfig
}

func (f *fakeWork) ClockIn(_ context.Context, userID uuid.UUID, at *time.Time, notes string) (*model.WorkSession, int64, error) {
	if f.clockInErr != nil {
		return nil, 0, f.clockInErr
	}
	return &model.WorkSession{ID: 1, UserID: userID, StartTime: testStart, Notes: notes}, 1, nil
}

func (f *fakeWork) ClockOut(_ context.Context, userID uuid.UUID, sessionID int64, at *time.Time, _ string) (*model.WorkSession, error) {
	if f.clockOutErr != nil {
		return nil, f.clockOutErr
	}
	end := testStart.Add(8 * time.Hour)
	return &model.WorkSession{ID: sessionID, UserID: userID, StartTime: testStart, EndTime: &end}, nil
}

func (f *fakeWork) Edit(_ context.Context, userID uuid.UUID, sessionID int64, patch model.SessionPatch) (*model.WorkSession, error) {
	s := &model.WorkSession{ID: sessionID, UserID: userID, StartTime: testStart}
	if patch.Notes != nil {
		s.Notes = *patch.Notes
	}
	return s, nil
}

func (f *fakeWork) Delete(context.Context, uuid.UUID, int64) error { return nil }

func (f *fakeWork) AddManual(_ context.Context, userID uuid.UUID, start, end time.Time, notes string) (*model.WorkSession, error) {
	return &model.WorkSession{ID: 2, UserID: userID, StartTime: start, EndTime: &end, Notes: notes}, nil
}

func (f *fakeWork) List(_ context.Context, userID uuid.UUID, _, _ *time.Time) ([]model.WorkSession, error) {
	return []model.WorkSession{{ID: 1, UserID: userID, StartTime: testStart}}, nil
}

func (f *fakeWork) ListPage(context.Context, uuid.UUID, int) ([]model.WorkSession, error) {
	return []model.WorkSession{}, nil
}

func (f *fakeWork) GetConfig(_ context.Context, userID uuid.UUID) (*model.WorkConfig, error) {
	if f.cfg.UserID == uuid.Nil {
		return model.DefaultWorkConfig(userID), nil
	}
	cfg := f.cfg
	return &cfg, nil
}

func (f *fakeWork) UpdateConfig(_ context.Context, userID uuid.UUID, cfg model.WorkConfig) (*model.WorkConfig, error) {
	cfg.UserID = userID
	return &cfg, nil
}

type fakeHolidaySvc struct{ holidays []model.Holiday }

func (f *fakeHolidaySvc) Sync(context.Context) error        { return nil }
func (f *fakeHolidaySvc) SyncIfEmpty(context.Context) error { return nil }
func (f *fakeHolidaySvc) ListByRegion(context.Context, model.Region) ([]model.Holiday, error) {
	return f.holidays, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) Create(context.Context, *model.User) error { return nil }

func (fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if id != testUser.ID {
		return nil, errs.ErrNotFound
	}
	u := testUser
	return &u, nil
}

func (fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if username != testUser.Username {
		return nil, errs.ErrNotFound
	}
	u := testUser
	return &u, nil
}

func (fakeUserRepo) ListIDs(context.Context) ([]uuid.UUID, error) {
	return []uuid.UUID{testUser.ID}, nil
}

func newTestServer(t *testing.T, work *fakeWork, auth *fakeAuth) http.Handler {
	t.Helper()
	if work == nil {
		work = &fakeWork{}
	}
	if auth == nil {
		auth = &fakeAuth{}
	}
	srv := New(auth, work, &fakeHolidaySvc{}, fakeUserRepo{}, testKey, zap.NewNop())
	return srv.Handler()
}

func signToken(t *testing.T, typ string, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenType: typ,
	})
	signed, err := tok.SignedString(testKey)
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingToken(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/work/config", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RefreshTokenRejectedOnAPI(t *testing.T) {
	h := newTestServer(t, nil, nil)
	tok := signToken(t, "refresh", testUser.ID.String())
	rec := doJSON(t, h, http.MethodGet, "/api/v1/work/config", tok, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_UnknownUser(t *testing.T) {
	h := newTestServer(t, nil, nil)
	tok := signToken(t, "access", uuid.Must(uuid.NewV4()).String())
	rec := doJSON(t, h, http.MethodGet, "/api/v1/work/config", tok, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	h := newTestServer(t, nil, nil)
	tok := signToken(t, "access", testUser.ID.String())
	rec := doJSON(t, h, http.MethodGet, "/api/v1/work/config", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg configPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	require.Equal(t, 40, cfg.ExpectedWeeklyHours)
	require.Equal(t, "NATIONAL", cfg.Region)
}

func TestClockIn_ReportsOpenSessions(t *testing.T) {
	h := newTestServer(t, nil, nil)
	tok := signToken(t, "access", testUser.ID.String())
	rec := doJSON(t, h, http.MethodPost, "/api/v1/work/clock-in", tok, clockRequest{Notes: "shift"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "tim", resp.Username)
	require.Equal(t, "shift", resp.Notes)
	require.Equal(t, int64(1), resp.OpenSessions)
}

func TestErrorMapping(t *testing.T) {
	tok := signToken(t, "access", testUser.ID.String())

	cases := []struct {
		name string
		work *fakeWork
		want int
	}{
		{"ordering violation", &fakeWork{clockOutErr: errs.ErrOrderingViolation}, http.StatusBadRequest},
		{"future timestamp", &fakeWork{clockOutErr: errs.ErrInvalidTimestamp}, http.StatusBadRequest},
		{"unknown session", &fakeWork{clockOutErr: errs.ErrNotFound}, http.StatusNotFound},
		{"open session conflict", &fakeWork{clockInErr: errs.ErrOpenSessionExists}, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestServer(t, tc.work, nil)
			path := "/api/v1/work/clock-out/1"
			if tc.work.clockInErr != nil {
				path = "/api/v1/work/clock-in"
			}
			rec := doJSON(t, h, http.MethodPost, path, tok, clockRequest{})
			require.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	h := newTestServer(t, nil, &fakeAuth{loginErr: errs.ErrRateLimited})
	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "",
		loginRequest{Username: "tim", Password: "pw"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLogin_BadCredentialsMasked(t *testing.T) {
	h := newTestServer(t, nil, &fakeAuth{loginErr: errs.ErrUnauthorized})
	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "",
		loginRequest{Username: "tim", Password: "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "bad credentials")
}

func TestRegister_EmptyFields(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/register", "", registerRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateConfig_UnknownRegion(t *testing.T) {
	h := newTestServer(t, nil, nil)
	tok := signToken(t, "access", testUser.ID.String())
	rec := doJSON(t, h, http.MethodPut, "/api/v1/work/config", tok,
		configPayload{Region: "XX", WorkDays: "1,2,3,4,5"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManual_RequiresBothBounds(t *testing.T) {
	h := newTestServer(t, nil, nil)
	tok := signToken(t, "access", testUser.ID.String())
	rec := doJSON(t, h, http.MethodPost, "/api/v1/work/manual", tok,
		manualSessionRequest{StartTime: testStart})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHolidays_HiddenByConfig(t *testing.T) {
	work := &fakeWork{cfg: model.WorkConfig{
		UserID:       testUser.ID,
		Region:       model.RegionBY,
		ShowHolidays: false,
		WorkDays:     "1,2,3,4,5",
	}}
	h := newTestServer(t, work, nil)
	tok := signToken(t, "access", testUser.ID.String())
	rec := doJSON(t, h, http.MethodGet, "/api/v1/holidays", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestList_BadStartParam(t *testing.T) {
	h := newTestServer(t, nil, nil)
	tok := signToken(t, "access", testUser.ID.String())
	rec := doJSON(t, h, http.MethodGet, "/api/v1/work/entries?start=yesterday", tok, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
