package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubKeyValueStore struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newStubKeyValueStore() *stubKeyValueStore {
	return &stubKeyValueStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubKeyValueStore) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", redis.ErrNil
	}
	return v, nil
}

func (s *stubKeyValueStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value.(string)
	s.ttls[key] = ttl
	return nil
}

func (s *stubKeyValueStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubKeyValueStore) CartSnapshotKey(namespace string) string {
	return "sf:cart:" + namespace
}

func TestRedisPersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newStubKeyValueStore()
	persister, err := NewRedisPersister(kv, 24*time.Hour)
	require.NoError(t, err)

	_, err = persister.Load(ctx, "cart-storage:s1")
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, persister.Save(ctx, "cart-storage:s1", []byte(`{"state":{"items":[]},"version":0}`)))
	assert.Equal(t, 24*time.Hour, kv.ttls["sf:cart:cart-storage:s1"])

	payload, err := persister.Load(ctx, "cart-storage:s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"items":[]},"version":0}`, string(payload))
	assert.Equal(t, "redis", persister.Name())
}

func TestRedisPersisterWrapsFailures(t *testing.T) {
	ctx := context.Background()
	kv := newStubKeyValueStore()
	kv.getErr = errors.New("i/o timeout")
	kv.setErr = errors.New("READONLY")
	persister, err := NewRedisPersister(kv, 0)
	require.NoError(t, err)

	_, err = persister.Load(ctx, "ns")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSnapshotNotFound)
	require.Error(t, persister.Save(ctx, "ns", []byte("{}")))

	_, err = NewRedisPersister(nil, 0)
	require.Error(t, err)
}

func TestStoreOverRedisPersister(t *testing.T) {
	ctx := context.Background()
	kv := newStubKeyValueStore()
	persister, err := NewRedisPersister(kv, time.Hour)
	require.NoError(t, err)

	store := Open(ctx, Options{Namespace: "cart-storage:abc", Persister: persister})
	store.AddItem(ctx, entry("P1", "V1", 8))
	store.AddItem(ctx, entry("P1", "V1", 8))

	assert.Contains(t, kv.data["sf:cart:cart-storage:abc"], `"quantity":2`)

	restored := Open(ctx, Options{Namespace: "cart-storage:abc", Persister: persister})
	assert.Equal(t, 2, restored.ItemCount())
}

func newSQLiteClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.CartSnapshot{}))
	return db.Wrap(conn)
}

func TestSQLPersisterUpsertsSnapshot(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	persister, err := NewSQLPersister(client, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", persister.Name())

	_, err = persister.Load(ctx, "cart-storage:s1")
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, persister.Save(ctx, "cart-storage:s1", []byte(`{"state":{"items":[]},"version":0}`)))
	require.NoError(t, persister.Save(ctx, "cart-storage:s1", []byte(`{"state":{"items":[{"productId":"P1","price":1,"currency":"USD","quantity":1}]},"version":0}`)))

	var count int64
	require.NoError(t, client.DB().Model(&models.CartSnapshot{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	payload, err := persister.Load(ctx, "cart-storage:s1")
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"productId":"P1"`)
}

func TestSQLPersisterTreatsExpiredSnapshotAsMissing(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	persister, err := NewSQLPersister(client, time.Minute)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	persister.now = func() time.Time { return base }
	require.NoError(t, persister.Save(ctx, "ns", []byte(`{"state":{"items":[]},"version":0}`)))

	persister.now = func() time.Time { return base.Add(30 * time.Second) }
	_, err = persister.Load(ctx, "ns")
	require.NoError(t, err)

	persister.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = persister.Load(ctx, "ns")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStoreOverSQLPersister(t *testing.T) {
	ctx := context.Background()
	persister, err := NewSQLPersister(newSQLiteClient(t), 0)
	require.NoError(t, err)

	store := Open(ctx, Options{Persister: persister})
	store.AddItem(ctx, entry("P1", "", 10))
	store.AddItem(ctx, entry("P2", "V9", 5))
	store.UpdateQuantity(ctx, "P2", 4, "V9")

	restored := Open(ctx, Options{Persister: persister})
	require.Len(t, restored.Lines(), 2)
	assert.Equal(t, 4, restored.Lines()[1].Quantity)
	assert.True(t, restored.Total().Equal(store.Total()))
}

func TestSQLPersisterPurgesExpiredSnapshots(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	persister, err := NewSQLPersister(client, time.Minute)
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	persister.now = func() time.Time { return base }
	require.NoError(t, persister.Save(ctx, "stale", []byte(`{"state":{"items":[]},"version":0}`)))
	persister.now = func() time.Time { return base.Add(10 * time.Minute) }
	require.NoError(t, persister.Save(ctx, "fresh", []byte(`{"state":{"items":[]},"version":0}`)))

	deleted, err := persister.PurgeExpired(ctx, base.Add(5*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = persister.Load(ctx, "fresh")
	require.NoError(t, err)

	var remaining int64
	require.NoError(t, client.DB().Model(&models.CartSnapshot{}).Where("namespace = ?", "stale").Count(&remaining).Error)
	assert.Zero(t, remaining)
}
