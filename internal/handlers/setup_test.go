package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/migrations"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type memMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *memMailer) Send(ctx context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type memFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *memFiles) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.objects[key] = data
	f.mu.Unlock()
	return "https://files.test.dev/" + key, nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	mailer *memMailer
	files  *memFiles
}

// SetupTestDB initializes a private in-memory SQLite DB and wires the
// handler services to it
func SetupTestDB(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, migrations.Setup(db))
	database.DB = db

	env := &testEnv{db: db, mailer: &memMailer{}, files: &memFiles{objects: map[string][]byte{}}}

	store := services.NewProjectStore(db)
	feed := services.NewActivityLog(db)
	engine := services.NewEngine(services.DefaultCatalog(), services.NewGormLedger(db, nil, 0), services.NewNotifier(0), store, feed)
	Init(Deps{
		Engine:   engine,
		Projects: store,
		Tracker:  services.NewPhaseTracker(store, engine, feed),
		Feed:     feed,
		Resetter: services.NewPasswordResetter(db, env.mailer),
		Files:    env.files,
	})

	env.router = newTestRouter()
	return env
}

// newTestRouter mounts the handlers behind a header based identity
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.POST("/functions/v1/send-temporary-password", SendTemporaryPassword)

	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set("userId", id)
		}
		c.Next()
	})
	{
		api.GET("/projects", ListProjects)
		api.POST("/projects", CreateProject)
		api.GET("/projects/:id", GetProject)
		api.PATCH("/projects/:id", UpdateProject)
		api.DELETE("/projects/:id", DeleteProject)
		api.POST("/projects/:id/duplicate", DuplicateProject)
		api.GET("/projects/:id/progress", GetProjectProgress)
		api.POST("/projects/:id/phases/:phase/complete", CompletePhase)

		api.GET("/projects/:id/questions", ListQuestions)
		api.POST("/projects/:id/questions", CreateQuestion)
		api.PATCH("/questions/:itemId", UpdateQuestion)
		api.DELETE("/questions/:itemId", DeleteQuestion)

		api.POST("/projects/:id/activities", CreateActivity)
		api.POST("/activities/:itemId/toggle", ToggleActivity)

		api.GET("/projects/:id/resources", ListResources)
		api.POST("/projects/:id/resources", CreateResource)

		api.POST("/projects/:id/prototypes", CreatePrototype)
		api.POST("/prototypes/:itemId/files", UploadPrototypeFile)

		api.GET("/projects/:id/checklist", ListChecklist)
		api.POST("/projects/:id/checklist", CreateChecklistItem)
		api.POST("/checklist/:itemId/toggle", ToggleChecklistItem)

		api.GET("/badges/catalog", GetBadgeCatalog)
		api.GET("/badges/me", GetMyBadges)
		api.POST("/badges/trigger", TriggerBadge)
		api.GET("/badges/notifications", GetBadgeNotifications)
		api.DELETE("/badges/notifications", DismissAllBadgeNotifications)
		api.DELETE("/badges/notifications/:badgeId", DismissBadgeNotification)

		api.GET("/feed", GetFeed)
	}
	return r
}

func (e *testEnv) createUser(t *testing.T, email string) models.User {
	t.Helper()
	user := models.User{Name: "Aluno", Email: email, Password: "x"}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// badgeIDs extracts the ids of a "badges" or "granted" array
func badgeIDs(v interface{}) []string {
	ids := []string{}
	list, _ := v.([]interface{})
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			ids = append(ids, m["id"].(string))
		}
	}
	return ids
}

func (e *testEnv) createProject(t *testing.T, userID, title string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/projects", userID, gin.H{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["project"].(map[string]interface{})["id"].(string)
}
