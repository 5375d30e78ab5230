package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/api"
	"github.com/tylerquinn/scoutline/internal/app"
	iauth "github.com/tylerquinn/scoutline/internal/auth"
	sharedtestutil "github.com/tylerquinn/scoutline/internal/database/testutil"
	"github.com/tylerquinn/scoutline/internal/notifications"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// CronSecret is the shared secret the test router accepts on /api/cron.
const CronSecret = "cron-test-secret"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
	Engine *api.Engine
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-suite-super-secret-key-32-bytes!!",
		Issuer:         "test-suite",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	cfg := &app.Config{
		Cron: app.CronConfig{Secret: CronSecret},
		Monitoring: app.MonitoringConfig{
			Health: app.HealthConfig{Enabled: true},
		},
		Features: app.FeatureConfig{
			Notifications: app.NotificationConfig{Enabled: true},
		},
	}

	engine, err := api.NewEngine(db, 3)
	require.NoError(t, err)

	router, err := api.NewRouter(db, jwtSvc, cfg, engine, notifications.NewHub())
	require.NoError(t, err)

	return &Env{
		T:      t,
		DB:     db,
		Router: router,
		JWT:    jwtSvc,
		Engine: engine,
	}
}

// UserPayload captures the subset of user fields returned from auth endpoints.
type UserPayload struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Sport          string  `json:"sport"`
	Position       string  `json:"position"`
	GraduationYear int     `json:"graduation_year"`
	GPA            float64 `json:"gpa"`
	AthleteID      *string `json:"athlete_id"`
}

// AuthResult bundles the JSON response from register and login.
type AuthResult struct {
	User  UserPayload `json:"user"`
	Token string      `json:"token"`
}

// RegisterAthlete signs up a new athlete with a unique email and a complete
// recruiting profile, returning the issued token.
func (e *Env) RegisterAthlete() AuthResult {
	e.T.Helper()
	return e.register(map[string]any{
		"email":           "athlete-" + uuid.NewString() + "@example.com",
		"password":        "Passw0rd!long",
		"first_name":      "Casey",
		"last_name":       "Miller",
		"sport":           "soccer",
		"position":        "midfielder",
		"graduation_year": 2027,
		"gpa":             3.6,
	})
}

// RegisterParent signs up a new parent account.
func (e *Env) RegisterParent() AuthResult {
	e.T.Helper()
	return e.register(map[string]any{
		"email":      "parent-" + uuid.NewString() + "@example.com",
		"password":   "Passw0rd!long",
		"first_name": "Morgan",
		"last_name":  "Miller",
		"role":       "parent",
	})
}

func (e *Env) register(payload map[string]any) AuthResult {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result AuthResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.Token)
	require.NotEmpty(e.T, result.User.ID)
	return result
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
