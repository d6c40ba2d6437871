// Package storage provides the blob and record persistence adapters:
// a filesystem-backed store for development and a remote object-store
// client for production.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a missing object or bucket.
var ErrNotFound = errors.New("storage: not found")

// Standard bucket names.
const (
	BucketProfilePictures = "profile-pictures"
	BucketBackgrounds     = "backgrounds"
	BucketSongs           = "songs"
)

// DefaultBuckets is the provisioning set: every deployment carries
// these three plus one per social network icon set.
func DefaultBuckets() []Bucket {
	return []Bucket{
		{Name: BucketProfilePictures, Public: true},
		{Name: BucketBackgrounds, Public: true},
		{Name: BucketSongs, Public: true},
		{Name: "twitter", Public: true},
		{Name: "twitch", Public: true},
		{Name: "github", Public: true},
		{Name: "steam", Public: true},
	}
}

// Entry is one listed object.
type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Bucket is one object namespace.
type Bucket struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// Store is the blob storage boundary. Implementations must return
// ErrNotFound (possibly wrapped) for missing objects so callers can
// fall through asset fallback chains without treating absence as
// failure.
type Store interface {
	// Upload writes an object and returns its public URL.
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	// List returns objects under prefix. The prefix may contain glob
	// metacharacters (*, **, ?) for pattern listing.
	List(ctx context.Context, bucket, prefix string) ([]Entry, error)
	// Exists reports whether an object resolves without fetching it.
	Exists(ctx context.Context, bucket, path string) (bool, error)
	// PublicURL builds the stable URL for an object. It does not check
	// existence.
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket, path string) error

	ListBuckets(ctx context.Context) ([]Bucket, error)
	CreateBucket(ctx context.Context, name string, public bool) error
	UpdateBucket(ctx context.Context, name string, public bool) error
}
