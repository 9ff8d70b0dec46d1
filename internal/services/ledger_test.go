package services

import (
	"context"
	"sync"
	"testing"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLedger_InsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ledger := NewGormLedger(db, nil, 0)

	inserted, err := ledger.Insert(ctx, "u1", "explorador")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = ledger.Insert(ctx, "u1", "explorador")
	require.NoError(t, err)
	assert.False(t, inserted)

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormLedger_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ledger := NewGormLedger(db, nil, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ledger.Insert(ctx, "u1", "mestre_cbl")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormLedger_AllEarned(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ledger := NewGormLedger(db, nil, 0)

	_, err := ledger.Insert(ctx, "u1", "a")
	require.NoError(t, err)
	_, err = ledger.Insert(ctx, "u1", "b")
	require.NoError(t, err)
	_, err = ledger.Insert(ctx, "u2", "a")
	require.NoError(t, err)

	earned, err := ledger.AllEarned(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, earned, 2)
	assert.Contains(t, earned, "a")
	assert.Contains(t, earned, "b")

	has, err := ledger.HasEarned(ctx, "u2", "b")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestGormLedger_AnonymousIsEmpty(t *testing.T) {
	ledger := NewGormLedger(newTestDB(t), nil, 0)

	earned, err := ledger.AllEarned(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, earned)
	assert.Empty(t, earned)
}

func TestGormLedger_CacheInvalidatedOnInsert(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	ledger := NewGormLedger(newTestDB(t), cache, 0)

	_, err := ledger.Insert(ctx, "u1", "a")
	require.NoError(t, err)

	_, err = ledger.AllEarned(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, cache.has(ledgerKey("u1")))

	_, err = ledger.Insert(ctx, "u1", "b")
	require.NoError(t, err)
	assert.False(t, cache.has(ledgerKey("u1")))

	earned, err := ledger.AllEarned(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, earned, 2)
}

func TestGormLedger_DuplicateKeepsCache(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	ledger := NewGormLedger(newTestDB(t), cache, 0)

	_, err := ledger.Insert(ctx, "u1", "a")
	require.NoError(t, err)
	_, err = ledger.AllEarned(ctx, "u1")
	require.NoError(t, err)
	deletes := cache.deletes

	inserted, err := ledger.Insert(ctx, "u1", "a")
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, deletes, cache.deletes)
	assert.True(t, cache.has(ledgerKey("u1")))
}

func TestGormLedger_ReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cache := newMapCache()
	ledger := NewGormLedger(db, cache, 0)

	_, err := ledger.Insert(ctx, "u1", "a")
	require.NoError(t, err)
	_, err = ledger.AllEarned(ctx, "u1")
	require.NoError(t, err)

	// a row written behind the ledger's back stays invisible until invalidation
	require.NoError(t, db.Create(&models.UserBadge{UserID: "u1", BadgeID: "b"}).Error)

	earned, err := ledger.AllEarned(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, earned, 1)
}
