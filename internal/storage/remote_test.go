package storage

import (
	"context"
	"testing"
	"time"
)

// The remote adapter must reject traversal before any request is
// built; these calls would otherwise hit the (unreachable) base URL.
func TestRemoteStoreRejectsUnsafePaths(t *testing.T) {
	s := NewRemoteStore(RemoteConfig{
		BaseURL:    "http://127.0.0.1:0",
		ServiceKey: "test-key",
		Timeout:    time.Second,
	})
	ctx := context.Background()

	if _, err := s.Upload(ctx, BucketBackgrounds, "users/../../other-bucket/pic.jpg", []byte("x"), "image/jpeg"); err == nil {
		t.Error("upload with traversal path should be rejected")
	}
	if _, err := s.Upload(ctx, "../backgrounds", "users/a/pic.jpg", []byte("x"), "image/jpeg"); err == nil {
		t.Error("upload with unsafe bucket should be rejected")
	}
	if _, err := s.Download(ctx, BucketSongs, "/etc/passwd"); err == nil {
		t.Error("download with absolute path should be rejected")
	}
	if _, err := s.Exists(ctx, BucketSongs, "../escape.mp3"); err == nil {
		t.Error("exists with traversal path should be rejected")
	}
	if err := s.Remove(ctx, BucketProfilePictures, "a/../../b"); err == nil {
		t.Error("remove with traversal path should be rejected")
	}
}
