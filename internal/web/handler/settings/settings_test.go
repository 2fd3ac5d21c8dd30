package settings

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
	settingctl "github.com/GoPress-Admin/GoPress-Admin/internal/db/controller/setting"
	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
	websess "github.com/GoPress-Admin/GoPress-Admin/internal/web/session"
)

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

// newTestApp builds a fiber app with the settings handler registered and
// returns session cookies for a privileged and an unprivileged user.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, map[string]string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Role{}, &models.Setting{}, &models.ActivityLog{})
	require.NoError(t, err, "failed to migrate test database")

	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New()

	cfg := &config.Config{
		Webserver: config.Webserver{Session: config.Session{ExpiryTime: time.Minute}},
	}

	var s Service
	s.Init(app, cfg, db, auth.NewService(db))

	cookies := map[string]string{
		"admin":  makeSession(t, db, "admin", []string{auth.PermSettingsView, auth.PermSettingsEdit}),
		"viewer": makeSession(t, db, "viewer", []string{auth.PermSettingsView}),
		"nobody": makeSession(t, db, "nobody", []string{}),
	}

	return app, db, cookies
}

// makeSession creates a user with the given permissions and a session for it.
func makeSession(t *testing.T, db *gorm.DB, username string, permissions []string) string {
	t.Helper()

	role := models.Role{Name: username + "-role"}
	require.NoError(t, role.SetPermissions(permissions))
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Active:   true,
		RoleID:   &role.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	data := websess.Data{User: user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return sessionID
}

func perform(t *testing.T, app *fiber.App, method, target, cookie, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestListRequiresViewPermission(t *testing.T) {
	app, db, cookies := newTestApp(t)

	_, err := settingctl.Create(db, "site.title", "GoPress", "general")
	require.NoError(t, err)

	testCases := []struct {
		name           string
		cookie         string
		expectedStatus int
	}{
		{name: "no session", cookie: "", expectedStatus: http.StatusUnauthorized},
		{name: "no permission", cookie: cookies["nobody"], expectedStatus: http.StatusForbidden},
		{name: "viewer", cookie: cookies["viewer"], expectedStatus: http.StatusOK},
		{name: "admin", cookie: cookies["admin"], expectedStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := perform(t, app, http.MethodGet, Path, tc.cookie, "")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestPutRequiresEditPermission(t *testing.T) {
	app, _, cookies := newTestApp(t)

	body := `{"settings":[{"key":"site.title","value":"GoPress","group":"general"}]}`

	resp := perform(t, app, http.MethodPut, Path, cookies["viewer"], body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = perform(t, app, http.MethodPut, Path, cookies["admin"], body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPutUpsertsBatch(t *testing.T) {
	app, db, cookies := newTestApp(t)

	_, err := settingctl.Create(db, "site.title", "Old", "general")
	require.NoError(t, err)

	body := `{"settings":[
		{"key":"site.title","value":"New"},
		{"key":"posts.per_page","value":"20","group":"content"}
	]}`

	resp := perform(t, app, http.MethodPut, Path, cookies["admin"], body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "New", settingctl.GetValue(db, "site.title", ""))
	assert.Equal(t, "20", settingctl.GetValue(db, "posts.per_page", ""))

	perPage, err := settingctl.Get(db, "posts.per_page")
	require.NoError(t, err)
	assert.Equal(t, "content", perPage.Group)
}

func TestGetByKey(t *testing.T) {
	app, db, cookies := newTestApp(t)

	_, err := settingctl.Create(db, "site.title", "GoPress", "general")
	require.NoError(t, err)

	resp := perform(t, app, http.MethodGet, Path+"/site.title", cookies["viewer"], "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data models.Setting `json:"data"`
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "GoPress", payload.Data.Value)

	resp = perform(t, app, http.MethodGet, Path+"/missing", cookies["viewer"], "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteSetting(t *testing.T) {
	app, db, cookies := newTestApp(t)

	_, err := settingctl.Create(db, "site.title", "GoPress", "general")
	require.NoError(t, err)

	resp := perform(t, app, http.MethodDelete, Path+"/site.title", cookies["viewer"], "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = perform(t, app, http.MethodDelete, Path+"/site.title", cookies["admin"], "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = settingctl.Get(db, "site.title")
	require.ErrorIs(t, err, settingctl.ErrSettingNotFound)
}
