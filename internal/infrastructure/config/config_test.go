package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != "8000" {
		t.Errorf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Desktop.ViewportWidth != 1920 || cfg.Desktop.TaskbarHeight != 40 {
		t.Errorf("unexpected desktop defaults: %+v", cfg.Desktop)
	}
	if cfg.Admin.Key != "" {
		t.Error("admin surface should be disabled by default")
	}
	if !cfg.RateLimit.Enabled {
		t.Error("rate limiting should default on")
	}
	if cfg.Desktop.AssetTimeout != 5*time.Second {
		t.Errorf("unexpected asset timeout: %v", cfg.Desktop.AssetTimeout)
	}
	if cfg.Desktop.NotificationTTL != 1500*time.Millisecond {
		t.Errorf("unexpected notification TTL: %v", cfg.Desktop.NotificationTTL)
	}
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("ASSET_LOOKUP_TIMEOUT", "250ms")
	t.Setenv("NOTIFICATION_TTL", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Desktop.AssetTimeout != 250*time.Millisecond {
		t.Errorf("ASSET_LOOKUP_TIMEOUT not applied: %v", cfg.Desktop.AssetTimeout)
	}
	if cfg.Desktop.NotificationTTL != 3*time.Second {
		t.Errorf("NOTIFICATION_TTL not applied: %v", cfg.Desktop.NotificationTTL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("VIEWPORT_WIDTH", "1280")
	t.Setenv("ADMIN_SETUP_KEY", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("PORT not applied: %s", cfg.Server.Port)
	}
	if cfg.Desktop.ViewportWidth != 1280 {
		t.Errorf("VIEWPORT_WIDTH not applied: %d", cfg.Desktop.ViewportWidth)
	}
	if cfg.Admin.Key != "s3cret" {
		t.Error("ADMIN_SETUP_KEY not applied")
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("VIEWPORT_WIDTH", "not-a-number")

	cfg := LoadOrDefault()
	if cfg.Desktop.ViewportWidth != 1920 {
		t.Errorf("expected default on parse failure, got %d", cfg.Desktop.ViewportWidth)
	}
}
