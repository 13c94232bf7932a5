package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const testRedisAddr = "localhost:6379"

// setupTestCache connects to a local Redis, skipping the test when none is
// running, and clears any keys left behind under the prefix.
func setupTestCache(t *testing.T, prefix string) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	clearKeys(ctx, client, prefix+"*")
	t.Cleanup(func() {
		clearKeys(ctx, client, prefix+"*")
		client.Close()
	})

	return New(client, prefix, 5*time.Minute)
}

func clearKeys(ctx context.Context, client *redis.Client, pattern string) {
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t, "test:setget:")
	ctx := context.Background()

	type card struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	in := card{ID: 3, Name: "kettle", Price: 29.99}
	if err := cache.Set(ctx, "listing:all::0", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out card
	found, err := cache.Get(ctx, "listing:all::0", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("Get did not find the key just set")
	}
	if out != in {
		t.Errorf("Get = %+v, want %+v", out, in)
	}
}

func TestGetMiss(t *testing.T) {
	cache := setupTestCache(t, "test:miss:")

	var out string
	found, err := cache.Get(context.Background(), "absent", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("Get found an absent key")
	}
}

func TestDelete(t *testing.T) {
	cache := setupTestCache(t, "test:delete:")
	ctx := context.Background()

	if err := cache.Set(ctx, "doomed", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var out string
	if found, _ := cache.Get(ctx, "doomed", &out); found {
		t.Error("key still present after Delete")
	}
}

func TestInvalidateListings(t *testing.T) {
	cache := setupTestCache(t, "test:invalidate:")
	ctx := context.Background()

	for _, key := range []string{"listing:all::0", "listing:all::1", "listing:garden:kettle:0"} {
		if err := cache.Set(ctx, key, "page"); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if err := cache.Set(ctx, "other", "keep me"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := cache.InvalidateListings(ctx); err != nil {
		t.Fatalf("InvalidateListings: %v", err)
	}

	var out string
	for _, key := range []string{"listing:all::0", "listing:all::1", "listing:garden:kettle:0"} {
		if found, _ := cache.Get(ctx, key, &out); found {
			t.Errorf("listing key %q survived invalidation", key)
		}
	}
	if found, _ := cache.Get(ctx, "other", &out); !found {
		t.Error("non-listing key was dropped by invalidation")
	}
}

func TestStats(t *testing.T) {
	cache := setupTestCache(t, "test:stats:")
	ctx := context.Background()

	var out string
	cache.Set(ctx, "key", "value")
	cache.Get(ctx, "key", &out)
	cache.Get(ctx, "absent", &out)
	cache.Get(ctx, "key", &out)
	cache.Delete(ctx, "key")

	stats := cache.Stats()
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Deletes != 1 {
		t.Errorf("Deletes = %d, want 1", stats.Deletes)
	}
	want := float64(2) / 3 * 100
	if stats.HitRate < want-0.01 || stats.HitRate > want+0.01 {
		t.Errorf("HitRate = %f, want ~%f", stats.HitRate, want)
	}
}

func TestStatsNoTraffic(t *testing.T) {
	cache := New(redis.NewClient(&redis.Options{Addr: testRedisAddr}), "test:idle:", time.Minute)

	stats := cache.Stats()
	if stats.HitRate != 0 {
		t.Errorf("HitRate with no gets = %f, want 0", stats.HitRate)
	}
}
