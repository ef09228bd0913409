package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
	"admissions-platform/internal/store/memory"
)

// countingProfiles counts reads that reach the backing repository.
type countingProfiles struct {
	store.ProfileRepository
	gets int
}

func (c *countingProfiles) Get(ctx context.Context, userID string) (*models.StudentProfile, error) {
	c.gets++
	return c.ProfileRepository.Get(ctx, userID)
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestProfileCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniredis(t)

	backing := &countingProfiles{ProfileRepository: memory.New().Profiles}
	gpa := 3.9
	require.NoError(t, backing.Upsert(ctx, &models.StudentProfile{UserID: "s1", GPA: &gpa}))

	cache := store.NewProfileCache(backing, client, 10*time.Minute, logger.NewTestLogger(t))

	p, err := cache.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3.9, *p.GPA)
	assert.Equal(t, 1, backing.gets)
	assert.True(t, mr.Exists(store.ProfileCacheKey("s1")))
	assert.Equal(t, 10*time.Minute, mr.TTL(store.ProfileCacheKey("s1")))

	p, err = cache.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3.9, *p.GPA)
	assert.Equal(t, 1, backing.gets, "second read is served from redis")
}

func TestProfileCache_UpsertInvalidates(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniredis(t)

	backing := memory.New().Profiles
	cache := store.NewProfileCache(backing, client, time.Minute, logger.NewTestLogger(t))

	gpa := 3.1
	require.NoError(t, cache.Upsert(ctx, &models.StudentProfile{UserID: "s1", GPA: &gpa}))
	_, err := cache.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, mr.Exists(store.ProfileCacheKey("s1")))

	gpa = 3.6
	require.NoError(t, cache.Upsert(ctx, &models.StudentProfile{UserID: "s1", GPA: &gpa}))
	assert.False(t, mr.Exists(store.ProfileCacheKey("s1")))

	p, err := cache.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3.6, *p.GPA)

	require.NoError(t, cache.Delete(ctx, "s1"))
	_, err = cache.Get(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProfileCache_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniredis(t)
	mr.Close()

	backing := memory.New().Profiles
	gpa := 3.2
	require.NoError(t, backing.Upsert(ctx, &models.StudentProfile{UserID: "s1", GPA: &gpa}))

	cache := store.NewProfileCache(backing, client, time.Minute, logger.NewNoOpLogger())
	p, err := cache.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3.2, *p.GPA)
}

func TestProfileCache_CorruptEntryIsIgnored(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()

	backing := memory.New().Profiles
	gpa := 3.7
	profile := &models.StudentProfile{UserID: "s1", GPA: &gpa}
	require.NoError(t, backing.Upsert(ctx, profile))
	stored, _ := backing.Get(ctx, "s1")
	data, _ := json.Marshal(stored)

	key := store.ProfileCacheKey("s1")
	mock.ExpectGet(key).SetVal("{not json")
	mock.ExpectSet(key, data, 5*time.Minute).SetVal("OK")

	cache := store.NewProfileCache(backing, client, 5*time.Minute, logger.NewNoOpLogger())
	p, err := cache.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3.7, *p.GPA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileCache_InvalidationErrorIsNotFatal(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	mock.ExpectDel(store.ProfileCacheKey("s1")).SetErr(errors.New("connection reset"))

	cache := store.NewProfileCache(memory.New().Profiles, client, time.Minute, logger.NewNoOpLogger())
	assert.NoError(t, cache.Upsert(ctx, &models.StudentProfile{UserID: "s1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
