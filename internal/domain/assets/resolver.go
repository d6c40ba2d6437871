// Package assets resolves per-identity asset URLs (background image,
// theme song, avatar) against blob storage, trying an ordered list of
// candidate paths and falling back to a compiled-in default. Missing
// objects are never errors.
package assets

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/storage"
)

// Class identifies one asset slot.
type Class string

const (
	ClassBackground Class = "background"
	ClassSong       Class = "song"
	ClassAvatar     Class = "avatar"
)

// DefaultLookupTimeout bounds one full fallback-chain probe.
const DefaultLookupTimeout = 5 * time.Second

// defaultCacheTTL bounds how long a resolved URL is reused before the
// store is probed again.
const defaultCacheTTL = 5 * time.Minute

// classSpec is the probe plan for one asset class.
type classSpec struct {
	bucket   string
	paths    []string // candidate paths; {id} is replaced
	fallback string
}

var classSpecs = map[Class]classSpec{
	ClassBackground: {
		bucket: storage.BucketBackgrounds,
		paths: []string{
			"users/{id}/background.png",
			"users/{id}/background.jpg",
			"{id}/background.png",
			"{id}/background.jpg",
		},
		fallback: "/Photos/Default-Batman.jpg",
	},
	ClassSong: {
		bucket: storage.BucketSongs,
		paths: []string{
			"users/{id}/background-song.mp3",
			"{id}/background-song.mp3",
		},
		fallback: "",
	},
	ClassAvatar: {
		bucket: storage.BucketProfilePictures,
		paths: []string{
			"users/{id}/pic.jpg",
			"{id}/pic.jpg",
		},
		fallback: "/Photos/app1.jpg",
	},
}

type cacheKey struct {
	class Class
	id    string
}

type cacheEntry struct {
	url       string
	resolved  bool // whether a stored object was found (vs fallback)
	expiresAt time.Time
}

// Resolver probes blob storage for identity assets with caching.
type Resolver struct {
	store   storage.Store
	logger  *zap.Logger
	timeout time.Duration
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

// NewResolver creates an asset resolver over the given store.
func NewResolver(store storage.Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:   store,
		logger:  logger,
		timeout: DefaultLookupTimeout,
		ttl:     defaultCacheTTL,
		now:     time.Now,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

// WithTTL overrides the cache lifetime.
func (r *Resolver) WithTTL(ttl time.Duration) *Resolver {
	r.ttl = ttl
	return r
}

// WithLookupTimeout overrides the per-resolution probe deadline.
func (r *Resolver) WithLookupTimeout(timeout time.Duration) *Resolver {
	if timeout > 0 {
		r.timeout = timeout
	}
	return r
}

// WithClock overrides the cache clock, useful for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolution is one resolved asset URL.
type Resolution struct {
	URL      string
	Stored   bool // true when backed by an uploaded object
	Fallback bool // true when the compiled-in default was used
}

// Resolve returns the asset URL for an identity, trying each candidate
// path in order and substituting the class default when none resolves.
// Results are cached until the TTL passes or Invalidate is called.
func (r *Resolver) Resolve(ctx context.Context, class Class, identityID string) Resolution {
	spec, ok := classSpecs[class]
	if !ok || identityID == "" {
		return Resolution{Fallback: true}
	}

	key := cacheKey{class: class, id: identityID}
	r.mu.Lock()
	if entry, hit := r.cache[key]; hit && r.now().Before(entry.expiresAt) {
		r.mu.Unlock()
		return Resolution{URL: entry.url, Stored: entry.resolved, Fallback: !entry.resolved}
	}
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	url, stored := r.probe(ctx, spec, identityID)

	r.mu.Lock()
	r.cache[key] = cacheEntry{url: url, resolved: stored, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()

	return Resolution{URL: url, Stored: stored, Fallback: !stored}
}

// probe walks the fallback chain. Backend failures on one path fall
// through to the next, and to the default after the last.
func (r *Resolver) probe(ctx context.Context, spec classSpec, identityID string) (string, bool) {
	for _, tmpl := range spec.paths {
		path := expand(tmpl, identityID)
		exists, err := r.store.Exists(ctx, spec.bucket, path)
		if err != nil {
			r.logger.Warn("asset probe failed",
				zap.String("bucket", spec.bucket),
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		if exists {
			return r.store.PublicURL(spec.bucket, path), true
		}
	}
	return spec.fallback, false
}

// Invalidate drops cached resolutions for an identity, across all
// classes. Called after uploads so fresh assets take effect.
func (r *Resolver) Invalidate(identityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.cache {
		if key.id == identityID {
			delete(r.cache, key)
		}
	}
}

// InvalidateAll empties the cache.
func (r *Resolver) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = make(map[cacheKey]cacheEntry)
}

func expand(tmpl, identityID string) string {
	return strings.ReplaceAll(tmpl, "{id}", identityID)
}
