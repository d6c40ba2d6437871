package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/batcaveos/backend/internal/storage"
)

// fakeStore implements the probe surface of storage.Store.
type fakeStore struct {
	storage.Store
	objects map[string]bool // "bucket/path" -> exists
	failing map[string]bool // "bucket/path" -> probe error
	probes  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]bool), failing: make(map[string]bool)}
}

func (f *fakeStore) Exists(_ context.Context, bucket, path string) (bool, error) {
	f.probes++
	key := bucket + "/" + path
	if f.failing[key] {
		return false, errors.New("backend unavailable")
	}
	return f.objects[key], nil
}

func (f *fakeStore) PublicURL(bucket, path string) string {
	return "https://cdn.example.com/" + bucket + "/" + path
}

const testID = "537b4ab5-500f-49e4-903d-025fb6c09d54"

func TestResolvePrimaryPath(t *testing.T) {
	store := newFakeStore()
	store.objects["backgrounds/users/"+testID+"/background.png"] = true
	r := NewResolver(store, nil)

	res := r.Resolve(context.Background(), ClassBackground, testID)
	if !res.Stored || res.Fallback {
		t.Errorf("expected stored resolution, got %+v", res)
	}
	if res.URL != "https://cdn.example.com/backgrounds/users/"+testID+"/background.png" {
		t.Errorf("unexpected URL: %s", res.URL)
	}
}

func TestResolveFallsThroughPathChain(t *testing.T) {
	store := newFakeStore()
	store.objects["backgrounds/"+testID+"/background.jpg"] = true
	r := NewResolver(store, nil)

	res := r.Resolve(context.Background(), ClassBackground, testID)
	if !res.Stored {
		t.Fatalf("expected stored resolution, got %+v", res)
	}
	if res.URL != "https://cdn.example.com/backgrounds/"+testID+"/background.jpg" {
		t.Errorf("expected last-chain path, got %s", res.URL)
	}
}

func TestResolveDefaultsWhenNothingStored(t *testing.T) {
	r := NewResolver(newFakeStore(), nil)

	res := r.Resolve(context.Background(), ClassBackground, testID)
	if !res.Fallback {
		t.Fatalf("expected fallback, got %+v", res)
	}
	if res.URL != "/Photos/Default-Batman.jpg" {
		t.Errorf("unexpected default: %s", res.URL)
	}
}

func TestResolveProbeErrorFallsThrough(t *testing.T) {
	store := newFakeStore()
	store.failing["backgrounds/users/"+testID+"/background.png"] = true
	store.objects["backgrounds/users/"+testID+"/background.jpg"] = true
	r := NewResolver(store, nil)

	res := r.Resolve(context.Background(), ClassBackground, testID)
	if !res.Stored {
		t.Errorf("probe error should fall through, got %+v", res)
	}
}

func TestResolveSongHasEmptyDefault(t *testing.T) {
	r := NewResolver(newFakeStore(), nil)

	res := r.Resolve(context.Background(), ClassSong, testID)
	if res.URL != "" || !res.Fallback {
		t.Errorf("missing song should resolve to empty fallback, got %+v", res)
	}
}

func TestResolveCaches(t *testing.T) {
	store := newFakeStore()
	store.objects["profile-pictures/users/"+testID+"/pic.jpg"] = true
	r := NewResolver(store, nil)

	r.Resolve(context.Background(), ClassAvatar, testID)
	probesAfterFirst := store.probes
	r.Resolve(context.Background(), ClassAvatar, testID)
	if store.probes != probesAfterFirst {
		t.Error("second resolve should hit the cache")
	}
}

func TestInvalidateDropsCache(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store, nil)

	r.Resolve(context.Background(), ClassAvatar, testID)
	probesAfterFirst := store.probes

	r.Invalidate(testID)
	r.Resolve(context.Background(), ClassAvatar, testID)
	if store.probes == probesAfterFirst {
		t.Error("invalidate should force a re-probe")
	}
}

func TestCacheExpires(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	r := NewResolver(store, nil).
		WithTTL(time.Minute).
		WithClock(func() time.Time { return now })

	r.Resolve(context.Background(), ClassBackground, testID)
	probesAfterFirst := store.probes

	now = now.Add(2 * time.Minute)
	r.Resolve(context.Background(), ClassBackground, testID)
	if store.probes == probesAfterFirst {
		t.Error("expired cache entry should be re-probed")
	}
}

// stallingStore blocks every probe until the context gives up.
type stallingStore struct {
	storage.Store
}

func (s *stallingStore) Exists(ctx context.Context, _, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func (s *stallingStore) PublicURL(bucket, path string) string {
	return "https://cdn.example.com/" + bucket + "/" + path
}

func TestLookupTimeoutBoundsResolution(t *testing.T) {
	r := NewResolver(&stallingStore{}, nil).WithLookupTimeout(10 * time.Millisecond)

	start := time.Now()
	res := r.Resolve(context.Background(), ClassBackground, testID)
	if !res.Fallback {
		t.Errorf("stalled lookup should fall back, got %+v", res)
	}
	if time.Since(start) > time.Second {
		t.Error("lookup should have been cut off by the configured timeout")
	}
}

func TestResolveEmptyIdentity(t *testing.T) {
	r := NewResolver(newFakeStore(), nil)

	res := r.Resolve(context.Background(), ClassBackground, "")
	if !res.Fallback {
		t.Errorf("empty identity should fall back, got %+v", res)
	}
}
