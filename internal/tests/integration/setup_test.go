package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ebarcelosf/Activelearn-hub/internal/config"
	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/handlers"
	"github.com/ebarcelosf/Activelearn-hub/internal/migrations"
	"github.com/ebarcelosf/Activelearn-hub/internal/routes"
	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type outbox struct {
	mu   sync.Mutex
	mail map[string]string
}

func (o *outbox) Send(ctx context.Context, to, subject, html string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mail[to] = html
	return nil
}

var clientSeq int32

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	engine   *services.Engine
	outbox   *outbox
	clientIP string
}

func setupTestDB(t *testing.T) *testServer {
	// 0. Init Config for JWT
	config.AppConfig = &config.Config{
		JWTSecret:   "test_secret_key_12345",
		FrontendURL: "http://localhost:5173",
	}
	gin.SetMode(gin.TestMode)

	// 1. Private in-memory database per test
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	// 2. Run Migrations
	if err := migrations.Setup(db); err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	// 3. Handlers use the global database.DB
	database.DB = db

	box := &outbox{mail: map[string]string{}}
	store := services.NewProjectStore(db)
	feed := services.NewActivityLog(db)
	engine := services.NewEngine(services.DefaultCatalog(), services.NewGormLedger(db, database.NopCache{}, 0), services.NewNotifier(0), store, feed)
	handlers.Init(handlers.Deps{
		Engine:   engine,
		Projects: store,
		Tracker:  services.NewPhaseTracker(store, engine, feed),
		Feed:     feed,
		Resetter: services.NewPasswordResetter(db, box),
	})

	// Each test gets its own client address so the shared rate limiters
	// never see traffic from another test
	n := atomic.AddInt32(&clientSeq, 1)
	return &testServer{
		router:   routes.NewRouter(false, nil),
		db:       db,
		engine:   engine,
		outbox:   box,
		clientIP: fmt.Sprintf("10.0.%d.%d", n/250, n%250+1),
	}
}

func (s *testServer) performRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = s.clientIP + ":40000"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// registerUser creates an account through the API and returns its token
func (s *testServer) registerUser(t *testing.T, email string) string {
	t.Helper()
	w := s.performRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Aluno", "email": email, "password": "segredo123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return parse(t, w)["token"].(string)
}

func ids(v interface{}) []string {
	out := []string{}
	list, _ := v.([]interface{})
	for _, item := range list {
		out = append(out, item.(map[string]interface{})["id"].(string))
	}
	return out
}
