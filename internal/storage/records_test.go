package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/batcaveos/backend/internal/shared/types"
)

func TestMemoryRecordsLifecycle(t *testing.T) {
	r := NewMemoryRecords()
	ctx := context.Background()

	p := types.Profile{ID: "537b4ab5-500f-49e4-903d-025fb6c09d54", Username: "rtmonly"}
	if err := r.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := r.Fetch(ctx, p.ID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got.Username != "rtmonly" {
		t.Errorf("unexpected row: %+v", got)
	}

	p.Bio = "updated"
	if err := r.Upsert(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, _ = r.Fetch(ctx, p.ID)
	if got.Bio != "updated" {
		t.Error("upsert should replace the row")
	}

	all, err := r.FetchAll(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("expected 1 row, got %d (%v)", len(all), err)
	}

	if err := r.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := r.Fetch(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := r.Delete(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestMemoryRecordsRequiresID(t *testing.T) {
	r := NewMemoryRecords()
	if err := r.Upsert(context.Background(), types.Profile{Username: "anon"}); err == nil {
		t.Error("upsert without ID should fail")
	}
}
