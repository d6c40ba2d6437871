package storage

import (
	"context"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), "http://localhost:8000/files")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.CreateBucket(context.Background(), BucketBackgrounds, true); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestUploadDownloadRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	url, err := s.Upload(ctx, BucketBackgrounds, "users/abc/background.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url != "http://localhost:8000/files/backgrounds/users/abc/background.png" {
		t.Errorf("unexpected URL: %s", url)
	}

	data, err := s.Download(ctx, BucketBackgrounds, "users/abc/background.png")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("unexpected content: %s", data)
	}
}

func TestDownloadMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Download(context.Background(), BucketBackgrounds, "nope.png")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadToMissingBucketFails(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Upload(context.Background(), "no-bucket", "a.txt", []byte("x"), "text/plain")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadRejectsTraversal(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Upload(context.Background(), BucketBackgrounds, "../escape.txt", []byte("x"), "text/plain"); err == nil {
		t.Error("path traversal should be rejected")
	}
	if _, err := s.Upload(context.Background(), BucketBackgrounds, "/abs.txt", []byte("x"), "text/plain"); err == nil {
		t.Error("absolute path should be rejected")
	}
}

func TestListWithPrefix(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"users/abc/background.png", "users/abc/pic.jpg", "users/def/background.png"} {
		if _, err := s.Upload(ctx, BucketBackgrounds, p, []byte("x"), ""); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(ctx, BucketBackgrounds, "users/abc/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}

	all, err := s.List(ctx, BucketBackgrounds, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries, got %d", len(all))
	}
}

func TestListWithGlobPattern(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"users/abc/background.png", "users/def/background.jpg", "users/abc/pic.jpg"} {
		if _, err := s.Upload(ctx, BucketBackgrounds, p, []byte("x"), ""); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(ctx, BucketBackgrounds, "users/*/background.*")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 glob matches, got %d", len(entries))
	}
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upload(ctx, BucketBackgrounds, "users/abc/background.png", []byte("x"), ""); err != nil {
		t.Fatal(err)
	}

	ok, err := s.Exists(ctx, BucketBackgrounds, "users/abc/background.png")
	if err != nil || !ok {
		t.Errorf("expected exists=true, got %v / %v", ok, err)
	}
	ok, err = s.Exists(ctx, BucketBackgrounds, "users/abc/background.jpg")
	if err != nil || ok {
		t.Errorf("expected exists=false, got %v / %v", ok, err)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upload(ctx, BucketBackgrounds, "a.txt", []byte("x"), ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, BucketBackgrounds, "a.txt"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Remove(ctx, BucketBackgrounds, "a.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double remove, got %v", err)
	}
}

func TestBucketLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateBucket(ctx, "songs", true); err != nil {
		t.Fatalf("CreateBucket failed: %v", err)
	}
	if err := s.CreateBucket(ctx, "songs", true); err == nil {
		t.Error("duplicate create should fail")
	}

	buckets, err := s.ListBuckets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, b := range buckets {
		found[b.Name] = b.Public
	}
	if !found["songs"] {
		t.Errorf("songs bucket should be public: %v", buckets)
	}

	if err := s.UpdateBucket(ctx, "songs", false); err != nil {
		t.Fatalf("UpdateBucket failed: %v", err)
	}
	buckets, _ = s.ListBuckets(ctx)
	for _, b := range buckets {
		if b.Name == "songs" && b.Public {
			t.Error("songs bucket should be private after update")
		}
	}

	if err := s.UpdateBucket(ctx, "ghost", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown bucket, got %v", err)
	}
}

func TestPublicMarkerExcludedFromList(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.List(context.Background(), BucketBackgrounds, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("marker file leaked into listing: %v", entries)
	}
}
