package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  setupTestRedis(t),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			require.NoError(t, store.Set(ctx, KeyLeads, []byte(`[{"name":"a"}]`)))
			data, err := store.Get(ctx, KeyLeads)
			require.NoError(t, err)
			require.Equal(t, `[{"name":"a"}]`, string(data))

			require.NoError(t, store.Delete(ctx, KeyLeads))
			_, err = store.Get(ctx, KeyLeads)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte(`["a"]`)
	require.NoError(t, store.Set(ctx, "k", value))
	value[1] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `["a"]`, string(got), "store must not alias caller buffers")
}

type record struct {
	Name string `json:"name"`
}

func TestCollectionLoadMissingIsEmpty(t *testing.T) {
	coll := NewCollection[record](NewMemoryStore(), KeyLeads)

	items, err := coll.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCollectionLoadCorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyLeads, []byte(`{not json`)))

	coll := NewCollection[record](store, KeyLeads)
	items, err := coll.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCollectionSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	coll := NewCollection[record](NewMemoryStore(), KeyLeads)

	require.NoError(t, coll.Save(ctx, []record{{Name: "a"}, {Name: "b"}}))
	require.NoError(t, coll.Save(ctx, []record{{Name: "c"}}))

	items, err := coll.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []record{{Name: "c"}}, items)
}

func TestCollectionSaveNil(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	coll := NewCollection[record](store, KeyGallery)

	require.NoError(t, coll.Save(ctx, nil))
	data, err := store.Get(ctx, KeyGallery)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))
}

func TestRedisStoreNamespacesKeys(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client)
	require.NoError(t, store.Set(ctx, KeyWebhookURL, []byte(`"https://example.com"`)))

	if !mr.Exists("nkrew:webhook_url") {
		t.Error("expected key under nkrew: namespace")
	}
}
