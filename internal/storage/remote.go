package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/batcaveos/backend/internal/shared/utils"
)

// RemoteStore talks to a hosted object store over its REST API
// (Supabase-compatible: /storage/v1/object and /storage/v1/bucket).
// Object traffic uses a plain client; bucket provisioning goes through
// a retrying client since it runs during one-shot setup where transient
// failures are common.
type RemoteStore struct {
	client *resty.Client
	admin  *retryablehttp.Client
	base   string
	key    string
}

// RemoteConfig configures the remote store client.
type RemoteConfig struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
}

// NewRemoteStore creates a remote object store client.
func NewRemoteStore(cfg RemoteConfig) *RemoteStore {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+cfg.ServiceKey).
		SetHeader("apikey", cfg.ServiceKey)

	admin := retryablehttp.NewClient()
	admin.RetryMax = 3
	admin.RetryWaitMin = 500 * time.Millisecond
	admin.RetryWaitMax = 5 * time.Second
	admin.Logger = nil

	return &RemoteStore{
		client: client,
		admin:  admin,
		base:   base,
		key:    cfg.ServiceKey,
	}
}

// validateObject rejects bucket/path pairs before they reach a URL.
func validateObject(bucket, path string) error {
	if err := utils.ValidateBucket(bucket); err != nil {
		return err
	}
	return utils.ValidateObjectPath(path)
}

func (s *RemoteStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if err := validateObject(bucket, path); err != nil {
		return "", err
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		Post(fmt.Sprintf("/storage/v1/object/%s/%s", bucket, path))
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload %s/%s: %s", bucket, path, strings.TrimSpace(resp.String()))
	}
	return s.PublicURL(bucket, path), nil
}

func (s *RemoteStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	if err := validateObject(bucket, path); err != nil {
		return nil, err
	}
	resp, err := s.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/storage/v1/object/%s/%s", bucket, path))
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", bucket, path, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%s/%s: %w", bucket, path, ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("download %s/%s: %s", bucket, path, strings.TrimSpace(resp.String()))
	}
	return resp.Body(), nil
}

// listEntry is the wire shape of one listed object.
type listEntry struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Metadata  struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

func (s *RemoteStore) List(ctx context.Context, bucket, prefix string) ([]Entry, error) {
	var raw []listEntry
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"prefix": prefix, "limit": 1000}).
		SetResult(&raw).
		Post(fmt.Sprintf("/storage/v1/object/list/%s", bucket))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", bucket, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("bucket %s: %w", bucket, ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list %s: %s", bucket, strings.TrimSpace(resp.String()))
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		path := e.Name
		if prefix != "" {
			path = strings.TrimRight(prefix, "/") + "/" + e.Name
		}
		entries = append(entries, Entry{
			Name:      e.Name,
			Path:      path,
			Size:      e.Metadata.Size,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return entries, nil
}

func (s *RemoteStore) Exists(ctx context.Context, bucket, path string) (bool, error) {
	if err := validateObject(bucket, path); err != nil {
		return false, err
	}
	resp, err := s.client.R().
		SetContext(ctx).
		Head(fmt.Sprintf("/storage/v1/object/%s/%s", bucket, path))
	if err != nil {
		return false, fmt.Errorf("stat %s/%s: %w", bucket, path, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return false, nil
	case resp.IsError():
		return false, fmt.Errorf("stat %s/%s: status %d", bucket, path, resp.StatusCode())
	}
	return true, nil
}

func (s *RemoteStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.base, bucket, path)
}

func (s *RemoteStore) Remove(ctx context.Context, bucket, path string) error {
	if err := validateObject(bucket, path); err != nil {
		return err
	}
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/storage/v1/object/%s/%s", bucket, path))
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", bucket, path, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s/%s: %w", bucket, path, ErrNotFound)
	}
	if resp.IsError() {
		return fmt.Errorf("remove %s/%s: %s", bucket, path, strings.TrimSpace(resp.String()))
	}
	return nil
}

func (s *RemoteStore) ListBuckets(ctx context.Context) ([]Bucket, error) {
	var raw []struct {
		Name   string `json:"name"`
		Public bool   `json:"public"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&raw).
		Get("/storage/v1/bucket")
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list buckets: %s", strings.TrimSpace(resp.String()))
	}

	buckets := make([]Bucket, 0, len(raw))
	for _, b := range raw {
		buckets = append(buckets, Bucket{Name: b.Name, Public: b.Public})
	}
	return buckets, nil
}

func (s *RemoteStore) CreateBucket(ctx context.Context, name string, public bool) error {
	body := fmt.Sprintf(`{"id":%q,"name":%q,"public":%t}`, name, name, public)
	return s.adminRequest(ctx, http.MethodPost, s.base+"/storage/v1/bucket", body)
}

func (s *RemoteStore) UpdateBucket(ctx context.Context, name string, public bool) error {
	body := fmt.Sprintf(`{"public":%t}`, public)
	return s.adminRequest(ctx, http.MethodPut, s.base+"/storage/v1/bucket/"+name, body)
}

// adminRequest performs a provisioning call through the retrying
// client.
func (s *RemoteStore) adminRequest(ctx context.Context, method, url, body string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, bytes.NewReader([]byte(body)))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.admin.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%s: already exists", url)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}
	return nil
}
