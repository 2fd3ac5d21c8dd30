package login

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoPress-Admin/GoPress-Admin/internal/auth"
	"github.com/GoPress-Admin/GoPress-Admin/internal/config"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
	websess "github.com/GoPress-Admin/GoPress-Admin/internal/web/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Role{}, &models.ActivityLog{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: false,
		Webserver: config.Webserver{
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func initSessionStore() {
	websess.Init(&testStorage{data: make(map[string][]byte)})
}

func performLogin(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestPostSuccessSetsCookie(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, db))

	lp := auth.NewLocalProvider(db)
	_, err := lp.CreateUser("bob", "bob@example.com", "s3cr3t", "Bob", "Doe", nil)
	require.NoError(t, err)

	resp := performLogin(t, app, `{"username":"bob","password":"s3cr3t"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "session=")
	assert.Contains(t, strings.ToLower(setCookie), "secure")

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Username string `json:"username"`
		} `json:"data"`
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "bob", payload.Data.Username)
}

func TestPostDevModeDisablesSecureCookie(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.DevMode = true
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, cfg, db))

	lp := auth.NewLocalProvider(db)
	_, err := lp.CreateUser("carol", "carol@example.com", "pass1234", "Carol", "Doe", nil)
	require.NoError(t, err)

	resp := performLogin(t, app, `{"username":"carol","password":"pass1234"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "secure")
}

func TestPostWrongPassword(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db))

	lp := auth.NewLocalProvider(db)
	_, err := lp.CreateUser("bob", "bob@example.com", "s3cr3t", "", "", nil)
	require.NoError(t, err)

	testCases := []struct {
		name string
		body string
	}{
		{name: "wrong password", body: `{"username":"bob","password":"nope"}`},
		{name: "unknown user", body: `{"username":"ghost","password":"nope"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := performLogin(t, app, tc.body)
			defer resp.Body.Close()

			// Both cases answer identically so usernames cannot be probed.
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(raw), "Invalid username or password")
		})
	}
}

func TestPostDisabledAccount(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db))

	lp := auth.NewLocalProvider(db)
	user, err := lp.CreateUser("dave", "dave@example.com", "pass1234", "", "", nil)
	require.NoError(t, err)
	require.NoError(t, lp.DeactivateUser(user.ID))

	resp := performLogin(t, app, `{"username":"dave","password":"pass1234"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPostMalformedBody(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db))

	resp := performLogin(t, app, `{`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostMissingCredentials(t *testing.T) {
	db := newTestDB(t)
	app := fiber.New()

	initSessionStore()

	var s Service
	require.NoError(t, s.Init(app, newTestConfig(), db))

	resp := performLogin(t, app, `{"username":"bob"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
