package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/batcaveos/backend/internal/shared/utils"
)

// publicMarker flags a bucket directory as publicly readable.
const publicMarker = ".public"

// LocalStore is a filesystem-backed blob store for development and
// tests. Buckets are directories under root; objects are plain files.
type LocalStore struct {
	root    string
	baseURL string
	mu      sync.Mutex // serializes bucket create/update
}

// NewLocalStore creates a store rooted at dir. baseURL is the prefix
// public URLs are built from (e.g. "http://localhost:8000/files").
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root returns the filesystem root, for mounting as a static route.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) objectPath(bucket, path string) (string, error) {
	if err := utils.ValidateBucket(bucket); err != nil {
		return "", err
	}
	if err := utils.ValidateObjectPath(path); err != nil {
		return "", err
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(path)), nil
}

func (s *LocalStore) Upload(ctx context.Context, bucket, path string, data []byte, _ string) (string, error) {
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(filepath.Join(s.root, bucket)); err != nil {
		return "", fmt.Errorf("bucket %s: %w", bucket, ErrNotFound)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return s.PublicURL(bucket, path), nil
}

func (s *LocalStore) Download(_ context.Context, bucket, path string) ([]byte, error) {
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s/%s: %w", bucket, path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// List walks the bucket concurrently and returns entries under prefix.
// A prefix containing glob metacharacters is matched as a pattern
// against the object path.
func (s *LocalStore) List(_ context.Context, bucket, prefix string) ([]Entry, error) {
	if err := utils.ValidateBucket(bucket); err != nil {
		return nil, err
	}
	bucketDir := filepath.Join(s.root, bucket)
	if _, err := os.Stat(bucketDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("bucket %s: %w", bucket, ErrNotFound)
	}

	var (
		mu      sync.Mutex
		entries []Entry
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, bucketDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(bucketDir, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == publicMarker {
			return nil
		}
		if !matchPrefix(prefix, rel) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		mu.Lock()
		entries = append(entries, Entry{
			Name:      d.Name(),
			Path:      rel,
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk bucket: %w", err)
	}
	return entries, nil
}

// matchPrefix matches an object path against a plain prefix or a glob
// pattern.
func matchPrefix(prefix, rel string) bool {
	if prefix == "" {
		return true
	}
	if strings.ContainsAny(prefix, "*?[{") {
		ok, err := doublestar.Match(prefix, rel)
		return err == nil && ok
	}
	return strings.HasPrefix(rel, prefix)
}

func (s *LocalStore) Exists(ctx context.Context, bucket, path string) (bool, error) {
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("stat object: %w", err)
	}
	return true, nil
}

func (s *LocalStore) PublicURL(bucket, path string) string {
	return s.baseURL + "/" + bucket + "/" + path
}

func (s *LocalStore) Remove(_ context.Context, bucket, path string) error {
	full, err := s.objectPath(bucket, path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); os.IsNotExist(err) {
		return fmt.Errorf("%s/%s: %w", bucket, path, ErrNotFound)
	} else if err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *LocalStore) ListBuckets(_ context.Context) ([]Bucket, error) {
	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read storage root: %w", err)
	}
	var buckets []Bucket
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		_, statErr := os.Stat(filepath.Join(s.root, d.Name(), publicMarker))
		buckets = append(buckets, Bucket{Name: d.Name(), Public: statErr == nil})
	}
	return buckets, nil
}

func (s *LocalStore) CreateBucket(_ context.Context, name string, public bool) error {
	if err := utils.ValidateBucket(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root, name)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("bucket %s already exists", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return s.setPublic(dir, public)
}

func (s *LocalStore) UpdateBucket(_ context.Context, name string, public bool) error {
	if err := utils.ValidateBucket(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.root, name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("bucket %s: %w", name, ErrNotFound)
	}
	return s.setPublic(dir, public)
}

func (s *LocalStore) setPublic(dir string, public bool) error {
	marker := filepath.Join(dir, publicMarker)
	if public {
		if err := os.WriteFile(marker, nil, 0o644); err != nil {
			return fmt.Errorf("mark bucket public: %w", err)
		}
		return nil
	}
	if err := os.Remove(marker); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("mark bucket private: %w", err)
	}
	return nil
}
