package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/batcaveos/backend/internal/shared/types"
)

// ProfileRecords is the record-store boundary for durable profile rows.
// The in-memory implementation backs development and tests; the REST
// implementation targets a PostgREST-style endpoint.
type ProfileRecords interface {
	Upsert(ctx context.Context, profile types.Profile) error
	Fetch(ctx context.Context, profileID string) (types.Profile, error)
	FetchAll(ctx context.Context) ([]types.Profile, error)
	Delete(ctx context.Context, profileID string) error
}

// MemoryRecords is a map-backed ProfileRecords.
type MemoryRecords struct {
	mu   sync.RWMutex
	rows map[string]types.Profile
}

// NewMemoryRecords creates an empty in-memory record store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{rows: make(map[string]types.Profile)}
}

func (r *MemoryRecords) Upsert(_ context.Context, profile types.Profile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[profile.ID] = profile
	return nil
}

func (r *MemoryRecords) Fetch(_ context.Context, profileID string) (types.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[profileID]
	if !ok {
		return types.Profile{}, fmt.Errorf("profile %s: %w", profileID, ErrNotFound)
	}
	return p, nil
}

func (r *MemoryRecords) FetchAll(_ context.Context) ([]types.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Profile, 0, len(r.rows))
	for _, p := range r.rows {
		out = append(out, p)
	}
	return out, nil
}

func (r *MemoryRecords) Delete(_ context.Context, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[profileID]; !ok {
		return fmt.Errorf("profile %s: %w", profileID, ErrNotFound)
	}
	delete(r.rows, profileID)
	return nil
}

// RestRecords stores profile rows through a PostgREST-style API
// (/rest/v1/profiles).
type RestRecords struct {
	client *resty.Client
}

// NewRestRecords creates a REST-backed record store.
func NewRestRecords(baseURL, serviceKey string, timeout time.Duration) *RestRecords {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &RestRecords{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Authorization", "Bearer "+serviceKey).
			SetHeader("apikey", serviceKey).
			SetHeader("Content-Type", "application/json"),
	}
}

func (r *RestRecords) Upsert(ctx context.Context, profile types.Profile) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetBody([]types.Profile{profile}).
		Post("/rest/v1/profiles")
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.ID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("upsert profile %s: %s", profile.ID, strings.TrimSpace(resp.String()))
	}
	return nil
}

func (r *RestRecords) Fetch(ctx context.Context, profileID string) (types.Profile, error) {
	var rows []types.Profile
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+profileID).
		SetResult(&rows).
		Get("/rest/v1/profiles")
	if err != nil {
		return types.Profile{}, fmt.Errorf("fetch profile %s: %w", profileID, err)
	}
	if resp.IsError() {
		return types.Profile{}, fmt.Errorf("fetch profile %s: %s", profileID, strings.TrimSpace(resp.String()))
	}
	if len(rows) == 0 {
		return types.Profile{}, fmt.Errorf("profile %s: %w", profileID, ErrNotFound)
	}
	return rows[0], nil
}

func (r *RestRecords) FetchAll(ctx context.Context) ([]types.Profile, error) {
	var rows []types.Profile
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&rows).
		Get("/rest/v1/profiles")
	if err != nil {
		return nil, fmt.Errorf("fetch profiles: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch profiles: %s", strings.TrimSpace(resp.String()))
	}
	return rows, nil
}

func (r *RestRecords) Delete(ctx context.Context, profileID string) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+profileID).
		Delete("/rest/v1/profiles")
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", profileID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("profile %s: %w", profileID, ErrNotFound)
	}
	if resp.IsError() {
		return fmt.Errorf("delete profile %s: %s", profileID, strings.TrimSpace(resp.String()))
	}
	return nil
}
