package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/auth"
	"github.com/yasmngoncalves/PolarisApp/internal/cache"
	"github.com/yasmngoncalves/PolarisApp/internal/service"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

const token = "MOCK-TOKEN"

var brt = time.FixedZone("BRT", -3*3600)

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

func setupRouter(t *testing.T, provider auth.Provider, issuer service.TokenIssuer) (*gin.Engine, storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := storage.NewFileStorage(t.TempDir(), internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := internal.NopLogger()
	if provider == nil {
		provider = auth.NewLocalAuthProvider(token, logger)
	}
	app := &Application{
		Log:    logger,
		Store:  store,
		Diary:  service.NewJournal(store, cache.Noop{}, brt, logger),
		Issuer: issuer,
		Clock:  func() time.Time { return time.Date(2024, 7, 17, 12, 0, 0, 0, brt) },
	}
	return NewRouter(app, RouterConfig{Auth: provider, CORSOrigins: []string{"http://localhost:3000"}}), store
}

func do(t *testing.T, r *gin.Engine, method, path, body, bearer string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealthzAndRequestID(t *testing.T) {
	r, _ := setupRouter(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w, _ = do(t, r, http.MethodGet, "/healthz", "", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupRouter(t, nil, nil)
	w, _ := do(t, r, http.MethodGet, "/api/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/dashboard", "", "WRONG")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMoodAndJournalDay(t *testing.T) {
	r, _ := setupRouter(t, nil, nil)

	w, env := do(t, r, http.MethodPut, "/api/mood/2024-07-17", `{"mood":"happy","intensity":8}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mood := decode[internal.MoodLog](t, env)
	assert.Equal(t, "u1", mood.UserID)

	w, env = do(t, r, http.MethodPut, "/api/mood/2024-07-17", `{"mood":"ecstatic","intensity":8}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, 400, env.Error.Code)

	w, _ = do(t, r, http.MethodPut, "/api/mood/2024-07-17", `{not json`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/journal/2024-07-17", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	day := decode[service.Day](t, env)
	require.NotNil(t, day.Mood)
	assert.Equal(t, "happy", day.Mood.Mood)

	w, env = do(t, r, http.MethodGet, "/api/mood?from=2024-07-01&to=2024-07-31", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), env.Meta["count"])

	w, _ = do(t, r, http.MethodDelete, "/api/mood/2024-07-17", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/mood/2024-07-17", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSleepRoutes(t *testing.T) {
	r, _ := setupRouter(t, nil, nil)
	w, env := do(t, r, http.MethodPut, "/api/sleep/2024-07-17", `{"bedtime":"23:00","wakeTime":"06:30","quality":"good"}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 7.5, decode[internal.SleepLog](t, env).Duration)

	w, _ = do(t, r, http.MethodPut, "/api/sleep/2024-07-16", `{"quality":"good"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/sleep", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]internal.SleepLog](t, env), 1)
}

func TestWaterRoutes(t *testing.T) {
	r, _ := setupRouter(t, nil, nil)

	w, _ := do(t, r, http.MethodDelete, "/api/water/last?date=2024-07-17", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, amount := range []int{250, 500} {
		w, _ = do(t, r, http.MethodPost, "/api/water", fmt.Sprintf(`{"amount":%d}`, amount), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w, env := do(t, r, http.MethodGet, "/api/water", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[service.WaterDay](t, env)
	assert.Equal(t, "2024-07-17", summary.Date)
	assert.Equal(t, 750, summary.Total)
	assert.Equal(t, internal.DefaultWaterGoal, summary.Goal)

	w, _ = do(t, r, http.MethodDelete, "/api/water/last", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = do(t, r, http.MethodGet, "/api/water?date=2024-07-17", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	summary = decode[service.WaterDay](t, env)
	require.Len(t, summary.Entries, 1)

	w, _ = do(t, r, http.MethodDelete, "/api/water/"+summary.Entries[0].ID, "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/api/water/"+summary.Entries[0].ID, "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMedicationsAndDashboard(t *testing.T) {
	r, _ := setupRouter(t, nil, nil)

	w, env := do(t, r, http.MethodPost, "/api/medications",
		`{"medications":[{"medicationName":"Vitamin D","dosage":"1000 IU"},{"medicationName":"Iron"}]}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	meds := decode[[]internal.Medication](t, env)
	require.Len(t, meds, 2)

	w, env = do(t, r, http.MethodPost, "/api/medications/"+meds[0].ID+"/toggle?date=2024-07-17", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[service.ToggleResult](t, env).Taken)

	w, env = do(t, r, http.MethodGet, "/api/medications/taken?date=2024-07-17", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{meds[0].ID}, decode[[]string](t, env))

	w, env = do(t, r, http.MethodGet, "/api/dashboard?days=7", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[service.Dashboard](t, env)
	require.Len(t, dash.Adherence, 7)
	last := dash.Adherence[6]
	assert.Equal(t, "2024-07-17", last.FullDate)
	assert.Equal(t, "partial", string(last.Status))
	assert.Equal(t, "missed", string(dash.Adherence[0].Status))

	w, _ = do(t, r, http.MethodDelete, "/api/medications/"+meds[1].ID, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = do(t, r, http.MethodGet, "/api/dashboard", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	dash = decode[service.Dashboard](t, env)
	assert.Equal(t, "complete", string(dash.Adherence[6].Status))

	w, _ = do(t, r, http.MethodGet, "/api/dashboard?days=abc", "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/dashboard?days=91", "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/medications/missing/toggle", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignUpLoginAndProfile(t *testing.T) {
	jwtProvider := auth.NewJWTProvider("test-secret", time.Hour, internal.NopLogger())
	r, _ := setupRouter(t, jwtProvider, jwtProvider)

	signup := `{"email":"ana@example.com","password":"secret1","fullName":"Ana","dateOfBirth":"1990-05-01"}`
	w, env := do(t, r, http.MethodPost, "/api/auth/signup", signup, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := decode[service.Session](t, env)
	assert.NotEmpty(t, session.Token)

	w, _ = do(t, r, http.MethodPost, "/api/auth/signup", signup, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"nope!!"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, env = do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	bearer := decode[service.Session](t, env).Token

	w, env = do(t, r, http.MethodPut, "/api/goals", `{"waterGoal":3000,"sleepGoal":7}`, bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, env = do(t, r, http.MethodGet, "/api/profile", "", bearer)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[internal.UserProfile](t, env)
	assert.Equal(t, 3000, profile.WaterGoal)
	assert.Empty(t, profile.PasswordHash)

	w, _ = do(t, r, http.MethodPut, "/api/profile/password", `{"currentPassword":"secret1","newPassword":"secret2"}`, bearer)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPut, "/api/goals", `{"waterGoal":50,"sleepGoal":7}`, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUpDisabledWithoutIssuer(t *testing.T) {
	r, _ := setupRouter(t, nil, nil)
	w, _ := do(t, r, http.MethodPost, "/api/auth/signup", `{}`, "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("x: %w", internal.ErrInvalidInput): http.StatusBadRequest,
		fmt.Errorf("x: %w", internal.ErrUnauthorized): http.StatusUnauthorized,
		fmt.Errorf("x: %w", internal.ErrNotFound):     http.StatusNotFound,
		fmt.Errorf("x: %w", internal.ErrConflict):     http.StatusConflict,
		errors.New("boom"):                            http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}
