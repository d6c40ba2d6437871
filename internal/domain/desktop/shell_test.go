package desktop

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/batcaveos/backend/internal/domain/assets"
	"github.com/batcaveos/backend/internal/domain/identity"
	"github.com/batcaveos/backend/internal/domain/notify"
	"github.com/batcaveos/backend/internal/domain/playback"
	"github.com/batcaveos/backend/internal/domain/window"
	"github.com/batcaveos/backend/internal/shared/types"
	"github.com/batcaveos/backend/internal/storage"
)

// probeStore serves asset probes from a fixed object set.
type probeStore struct {
	storage.Store
	objects map[string]bool
}

func (p *probeStore) Exists(_ context.Context, bucket, path string) (bool, error) {
	return p.objects[bucket+"/"+path], nil
}

func (p *probeStore) PublicURL(bucket, path string) string {
	return "https://cdn.example.com/" + bucket + "/" + path
}

func newTestShell(objects map[string]bool) *Shell {
	if objects == nil {
		objects = map[string]bool{}
	}
	store := identity.NewStoreWithDefaults()
	s := NewShell(
		window.NewManager(window.DefaultRegistry(), types.Viewport{Width: 1920, Height: 1080, TaskbarHeight: 40}),
		playback.NewCoordinator(playback.DefaultPlaylist(), nil),
		notify.NewQueue().WithAfterFunc(func(_ time.Duration, _ func()) func() { return func() {} }),
		store,
		assets.NewResolver(&probeStore{objects: objects}, nil),
		nil,
	)
	s.applyAsync = false
	return s
}

func TestSwitchIdentityShowsWelcomeToast(t *testing.T) {
	s := newTestShell(nil)
	arkham, _ := s.Identities().GetByUsername("arkham")

	if _, err := s.SwitchIdentity(context.Background(), arkham.ID); err != nil {
		t.Fatalf("SwitchIdentity failed: %v", err)
	}

	toasts := s.Notifications().List()
	if len(toasts) != 1 {
		t.Fatalf("expected 1 toast, got %d", len(toasts))
	}
	if !strings.Contains(toasts[0].Message, "arkham") {
		t.Errorf("welcome toast should name the profile: %s", toasts[0].Message)
	}
}

func TestSwitchIdentityAppliesStoredBackground(t *testing.T) {
	arkhamID := "ab7355f4-06a9-43cf-be29-9134d8737b22"
	s := newTestShell(map[string]bool{
		"backgrounds/users/" + arkhamID + "/background.png": true,
	})

	if _, err := s.SwitchIdentity(context.Background(), arkhamID); err != nil {
		t.Fatal(err)
	}

	bg := s.Background()
	if !strings.HasPrefix(bg, "https://cdn.example.com/backgrounds/users/"+arkhamID+"/background.png?t=") {
		t.Errorf("expected cache-busted stored background, got %s", bg)
	}
}

func TestSwitchIdentityFallsBackToProfileBackground(t *testing.T) {
	s := newTestShell(nil)
	arkham, _ := s.Identities().GetByUsername("arkham")

	if _, err := s.SwitchIdentity(context.Background(), arkham.ID); err != nil {
		t.Fatal(err)
	}

	if s.Background() != "/Photos/gotham.jpg" {
		t.Errorf("expected profile background, got %s", s.Background())
	}
}

func TestSwitchIdentityPlaysStoredThemeSong(t *testing.T) {
	arkhamID := "ab7355f4-06a9-43cf-be29-9134d8737b22"
	s := newTestShell(map[string]bool{
		"songs/users/" + arkhamID + "/background-song.mp3": true,
	})

	if _, err := s.SwitchIdentity(context.Background(), arkhamID); err != nil {
		t.Fatal(err)
	}

	state := s.Playback().State()
	if !state.IsPlaying {
		t.Error("stored theme song should start playing")
	}
	if state.Current == nil || !strings.Contains(state.Current.File, "background-song.mp3") {
		t.Errorf("unexpected current track: %+v", state.Current)
	}
}

func TestSwitchIdentityPlaysBuiltinThemeSong(t *testing.T) {
	s := newTestShell(nil)
	arkham, _ := s.Identities().GetByUsername("arkham")

	if _, err := s.SwitchIdentity(context.Background(), arkham.ID); err != nil {
		t.Fatal(err)
	}

	state := s.Playback().State()
	if state.Current == nil || state.Current.File != "songs/song4.mp3" {
		t.Errorf("expected arkham's playlist theme, got %+v", state.Current)
	}
}

func TestStaleAssetApplicationDiscarded(t *testing.T) {
	arkhamID := "ab7355f4-06a9-43cf-be29-9134d8737b22"
	s := newTestShell(map[string]bool{
		"backgrounds/users/" + arkhamID + "/background.png": true,
	})
	arkham, _ := s.Identities().Get(arkhamID)
	slos, _ := s.Identities().GetByUsername("slos")

	// Another switch lands before arkham's assets are applied.
	if _, err := s.Identities().Switch(slos.ID); err != nil {
		t.Fatal(err)
	}
	s.applyAssets(context.Background(), arkham)

	if strings.Contains(s.Background(), arkhamID) {
		t.Error("stale asset application should be discarded")
	}
}

func TestSwitchUnknownIdentityFails(t *testing.T) {
	s := newTestShell(nil)

	if _, err := s.SwitchIdentity(context.Background(), "no-such-id"); err == nil {
		t.Error("unknown identity should fail")
	}
	if s.Notifications().Len() != 0 {
		t.Error("failed switch must not toast")
	}
}

func TestRefreshAssetsBypassesCache(t *testing.T) {
	s := newTestShell(nil)
	current, _ := s.Identities().Current()

	// First resolve caches the fallback; an upload then appears.
	s.applyAssets(context.Background(), current)
	ps := &probeStore{objects: map[string]bool{
		"backgrounds/users/" + current.ID + "/background.png": true,
	}}
	s.resolver = assets.NewResolver(ps, nil)

	s.RefreshAssets(context.Background())
	if !strings.Contains(s.Background(), current.ID) {
		t.Errorf("refresh should pick up the uploaded background, got %s", s.Background())
	}
}

func TestSnapshot(t *testing.T) {
	s := newTestShell(nil)
	s.Windows().Open(types.KindMusic)
	s.Playback().Play()

	state := s.Snapshot()
	if state.Profile == nil {
		t.Fatal("snapshot should carry the active profile")
	}
	if len(state.Windows) != 1 {
		t.Errorf("expected 1 open window, got %d", len(state.Windows))
	}
	if !state.Playback.IsPlaying {
		t.Error("snapshot should reflect playback state")
	}
	if state.Viewport.Width != 1920 {
		t.Errorf("unexpected viewport: %+v", state.Viewport)
	}
}
