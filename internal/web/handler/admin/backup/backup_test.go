package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
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

// testBackend keeps backup payloads in memory.
type testBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *testBackend) Put(_ context.Context, key string, data []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	b.objects[key] = buf

	return nil
}

func (b *testBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.objects[key], nil
}

func (b *testBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)

	return nil
}

// newTestApp builds a fiber app with the backup handler registered and
// session cookies for a privileged and an unprivileged user.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, map[string]string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.ActivityLog{},
		&models.Backup{},
		&models.Category{},
		&models.Tag{},
		&models.Setting{},
		&models.Redirect{},
		&models.EmailTemplate{},
		&models.Plan{},
	)
	require.NoError(t, err, "failed to migrate test database")

	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New()

	cfg := &config.Config{
		Webserver: config.Webserver{Session: config.Session{ExpiryTime: time.Minute}},
	}

	var s Service
	s.Init(app, cfg, db, auth.NewService(db), &testBackend{objects: make(map[string][]byte)})

	cookies := map[string]string{
		"admin":  makeSession(t, db, "admin", []string{auth.PermSystemBackups}),
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

// uploadBody builds a multipart body carrying the document and, when given,
// the options field.
func uploadBody(t *testing.T, doc, options string) (string, *bytes.Buffer) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if doc != "" {
		part, err := writer.CreateFormFile("file", "backup.json")
		require.NoError(t, err)

		_, err = part.Write([]byte(doc))
		require.NoError(t, err)
	}

	if options != "" {
		require.NoError(t, writer.WriteField("options", options))
	}

	require.NoError(t, writer.Close())

	return writer.FormDataContentType(), body
}

func performUpload(t *testing.T, app *fiber.App, cookie, contentType string, body io.Reader) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path+"/restore-upload", body)
	req.Header.Set("Content-Type", contentType)

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

const uploadDoc = `{"version":"1.0","data":{` +
	`"roles":[{"id":"r9","name":"Imported"}],` +
	`"tags":[{"id":"t9","name":"News","slug":"news"}]}}`

func TestRestoreUploadHonorsSelection(t *testing.T) {
	app, db, cookies := newTestApp(t)

	contentType, body := uploadBody(t, uploadDoc, `{"tags":true}`)

	resp := performUpload(t, app, cookies["admin"], contentType, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Only the selected table was written.
	var tag models.Tag
	require.NoError(t, db.First(&tag, "id = ?", "t9").Error)
	assert.Equal(t, "News", tag.Name)

	err := db.First(&models.Role{}, "id = ?", "r9").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var payload struct {
		Data struct {
			Results map[string]int `json:"results"`
		} `json:"data"`
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, map[string]int{"tags": 1}, payload.Data.Results)
}

func TestRestoreUploadDefaultsToEverything(t *testing.T) {
	app, db, cookies := newTestApp(t)

	contentType, body := uploadBody(t, uploadDoc, "")

	resp := performUpload(t, app, cookies["admin"], contentType, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&models.Tag{}, "id = ?", "t9").Error)
	require.NoError(t, db.First(&models.Role{}, "id = ?", "r9").Error)
}

func TestRestoreUploadRejections(t *testing.T) {
	app, db, cookies := newTestApp(t)

	testCases := []struct {
		name           string
		cookie         string
		doc            string
		options        string
		expectedStatus int
	}{
		{
			name:           "no permission",
			cookie:         cookies["nobody"],
			doc:            uploadDoc,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing file",
			cookie:         cookies["admin"],
			doc:            "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed options",
			cookie:         cookies["admin"],
			doc:            uploadDoc,
			options:        "not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty selection",
			cookie:         cookies["admin"],
			doc:            uploadDoc,
			options:        `{"tags":false}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed document",
			cookie:         cookies["admin"],
			doc:            `{"tags":[{"id":"t9"}]}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			contentType, body := uploadBody(t, tc.doc, tc.options)

			resp := performUpload(t, app, tc.cookie, contentType, body)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}

	// None of the rejected calls wrote anything.
	err := db.First(&models.Tag{}, "id = ?", "t9").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
