package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ebarcelosf/Activelearn-hub/internal/database"
	"github.com/ebarcelosf/Activelearn-hub/internal/migrations"
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with every table
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migrations.Setup(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Tester", Email: email, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createProject(t *testing.T, db *gorm.DB, userID, title string) *models.Project {
	t.Helper()
	project := models.Project{UserID: userID, Title: title}
	require.NoError(t, db.Create(&project).Error)
	return &project
}

// memLedger is a goroutine-safe in-memory Ledger
type memLedger struct {
	mu      sync.Mutex
	rows    map[string]map[string]time.Time
	inserts int
	failOn  string
}

func newMemLedger() *memLedger {
	return &memLedger{rows: map[string]map[string]time.Time{}}
}

func (l *memLedger) HasEarned(ctx context.Context, userID, badgeID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.rows[userID][badgeID]
	return ok, nil
}

func (l *memLedger) AllEarned(ctx context.Context, userID string) (map[string]time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := map[string]time.Time{}
	for k, v := range l.rows[userID] {
		out[k] = v
	}
	return out, nil
}

func (l *memLedger) Insert(ctx context.Context, userID, badgeID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if badgeID == l.failOn {
		return false, errors.New("connection reset")
	}
	if l.rows[userID] == nil {
		l.rows[userID] = map[string]time.Time{}
	}
	if _, ok := l.rows[userID][badgeID]; ok {
		return false, nil
	}
	l.rows[userID][badgeID] = time.Now()
	l.inserts++
	return true, nil
}

func (l *memLedger) count(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows[userID])
}

// staleLedger always reports "not earned" so every grant reaches Insert
type staleLedger struct{ *memLedger }

func (staleLedger) HasEarned(context.Context, string, string) (bool, error) { return false, nil }

// fakePhases is keyed by "<userID>/<projectID>"
type fakePhases map[string]PhaseFlags

func (f fakePhases) PhaseFlags(ctx context.Context, userID, projectID string) (PhaseFlags, error) {
	flags, ok := f[userID+"/"+projectID]
	if !ok {
		return PhaseFlags{}, gorm.ErrRecordNotFound
	}
	return flags, nil
}

// mapCache is a database.Cache that round-trips through JSON like Redis
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}}
}

func (c *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return database.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deletes++
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type sentMail struct {
	to, subject, html string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, html})
	return nil
}
