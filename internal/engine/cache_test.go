package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("youtube_collect", "dQw4w9WgXcQ")
		k2 := CacheKey("youtube_collect", "dQw4w9WgXcQ")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("youtube_collect", "aaaaaaaaaaa")
		k2 := CacheKey("youtube_collect", "bbbbbbbbbbb")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "yn:" {
			t.Errorf("expected yn: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	CacheSet(ctx, key, []byte("hello"))

	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestCacheExpiration(t *testing.T) {
	InitCache("", 1*time.Millisecond, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	CacheSet(ctx, key, []byte("temp"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", 1*time.Minute, 3, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := CacheKey("evict", fmt.Sprintf("item-%d", i))
		CacheSet(ctx, key, []byte(fmt.Sprintf("v%d", i)))
	}

	count := 0
	resultCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestCacheStats(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	CacheGet(ctx, key)
	_, misses := CacheStats()
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	CacheSet(ctx, key, []byte("x"))
	CacheGet(ctx, key)

	hits, misses := CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

func TestInitCacheStopsPreviousCleanup(t *testing.T) {
	InitCache("", time.Minute, 100, time.Minute)
	prev := resultCache
	ctx := context.Background()
	key := CacheKey("reinit", "entry")
	CacheSet(ctx, key, []byte("old"))

	InitCache("", time.Minute, 100, time.Minute)

	select {
	case <-prev.stop:
	default:
		t.Fatal("previous cache cleanup loop was not stopped")
	}
	if resultCache == prev {
		t.Fatal("InitCache did not replace the cache")
	}
	if _, ok := CacheGet(ctx, key); ok {
		t.Error("entries of the replaced cache must not be visible")
	}
}

func TestInitCacheWithoutRedis(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"invalid url", "not-a-redis-url"},
		{"unreachable", "redis://127.0.0.1:1/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitCache(tt.url, time.Minute, 100, time.Minute)
			if resultCache.rdb != nil {
				t.Fatal("L2 must stay disabled")
			}

			ctx := context.Background()
			key := CacheKey("l1-only", tt.name)
			if _, ok := CacheGet(ctx, key); ok {
				t.Error("expected miss before set")
			}
			CacheSet(ctx, key, []byte("v"))
			got, ok := CacheGet(ctx, key)
			if !ok || string(got) != "v" {
				t.Errorf("L1 round trip = %q, %v", got, ok)
			}
		})
	}
}

func TestCacheGetBeforeInit(t *testing.T) {
	prev := resultCache
	resultCache = nil
	t.Cleanup(func() { resultCache = prev })

	_, before := CacheStats()
	if _, ok := CacheGet(context.Background(), "yn:none"); ok {
		t.Error("expected miss without a cache")
	}
	CacheSet(context.Background(), "yn:none", []byte("x"))
	if _, after := CacheStats(); after != before+1 {
		t.Errorf("misses = %d, want %d", after, before+1)
	}
}
