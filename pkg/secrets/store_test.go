package secrets

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStore_PutAndGet(t *testing.T) {
	store := NewStore()

	store.Put("db.password", "s3cr3t", 5*time.Second)

	entry, ok := store.Get("db.password")
	if !ok {
		t.Fatal("expected entry, got none")
	}
	if entry.Value != "s3cr3t" {
		t.Errorf("expected value %q, got %q", "s3cr3t", entry.Value)
	}
	if !entry.ExpiresAt.After(entry.CreatedAt) {
		t.Errorf("expected ExpiresAt after CreatedAt, got %v <= %v", entry.ExpiresAt, entry.CreatedAt)
	}
	if got := entry.ExpiresAt.Sub(entry.CreatedAt); got != 5*time.Second {
		t.Errorf("expected 5s freshness window, got %v", got)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore()

	if _, ok := store.Get("nope"); ok {
		t.Error("expected no entry for missing key")
	}
}

func TestStore_PutReplaces(t *testing.T) {
	now := time.Now()
	store := NewStoreWithClock(func() time.Time { return now })

	store.Put("api.key", "old", time.Minute)
	old, _ := store.Get("api.key")

	now = now.Add(10 * time.Second)
	store.Put("api.key", "new", time.Minute)

	entry, ok := store.Get("api.key")
	if !ok {
		t.Fatal("expected entry after replace")
	}
	if entry.Value != "new" {
		t.Errorf("expected replaced value %q, got %q", "new", entry.Value)
	}
	if !entry.ExpiresAt.After(old.ExpiresAt) {
		t.Error("expected replacement to renew the full freshness window")
	}
}

func TestStore_Expiry(t *testing.T) {
	now := time.Now()
	store := NewStoreWithClock(func() time.Time { return now })

	store.Put("token", "abc", 5*time.Second)
	entry, _ := store.Get("token")

	if entry.Expired(now.Add(2 * time.Second)) {
		t.Error("entry should be fresh at t+2s")
	}
	if !entry.Expired(now.Add(5 * time.Second)) {
		t.Error("entry should be expired exactly at t+5s")
	}
	if !entry.Expired(now.Add(6 * time.Second)) {
		t.Error("entry should be expired at t+6s")
	}

	// Expired entries stay resident until replaced.
	if _, ok := store.Get("token"); !ok {
		t.Error("expired entry should remain in the store")
	}
}

func TestStore_KeysSnapshot(t *testing.T) {
	store := NewStore()
	store.Put("a", "1", time.Minute)
	store.Put("b", "2", time.Minute)

	keys := store.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}

	// Mutating the store must not affect an already-taken snapshot.
	store.Put("c", "3", time.Minute)
	if len(keys) != 2 {
		t.Errorf("snapshot changed after mutation: %v", keys)
	}
	if store.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", store.Len())
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore()
	store.Put("gone", "v", time.Minute)
	store.Delete("gone")

	if _, ok := store.Get("gone"); ok {
		t.Error("expected entry removed after Delete")
	}

	// Deleting a missing key is a no-op.
	store.Delete("never-there")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		key := fmt.Sprintf("key-%d", i%10)
		go func(k string, n int) {
			defer wg.Done()
			store.Put(k, fmt.Sprintf("value-%d", n), time.Minute)
		}(key, i)
		go func(k string) {
			defer wg.Done()
			if entry, ok := store.Get(k); ok {
				// A read must never observe a torn entry.
				if entry.Value == "" || entry.ExpiresAt.IsZero() {
					t.Errorf("torn read for key %q: %+v", k, entry)
				}
			}
		}(key)
	}
	wg.Wait()

	for _, key := range store.Keys() {
		entry, ok := store.Get(key)
		if !ok {
			t.Fatalf("snapshot key %q missing", key)
		}
		if !entry.ExpiresAt.After(entry.CreatedAt) {
			t.Errorf("invalid entry for %q: %+v", key, entry)
		}
	}
}
