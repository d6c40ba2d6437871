// Package desktop implements the shell: the coordinator that ties the
// window manager, playback transport, notification queue, identity
// store, and asset resolver into one desktop session.
package desktop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/domain/assets"
	"github.com/batcaveos/backend/internal/domain/identity"
	"github.com/batcaveos/backend/internal/domain/notify"
	"github.com/batcaveos/backend/internal/domain/playback"
	"github.com/batcaveos/backend/internal/domain/window"
	"github.com/batcaveos/backend/internal/shared/types"
)

// Shell coordinates the desktop session.
type Shell struct {
	windows    *window.Manager
	playbackCo *playback.Coordinator
	queue      *notify.Queue
	identities *identity.Store
	resolver   *assets.Resolver
	logger     *zap.Logger

	mu         sync.RWMutex
	background string
	avatar     string

	// applyAsync gates whether asset application runs in a goroutine.
	// Tests flip it off to observe results synchronously.
	applyAsync bool
	now        func() time.Time
}

// NewShell wires a desktop shell.
func NewShell(
	windows *window.Manager,
	playbackCo *playback.Coordinator,
	queue *notify.Queue,
	identities *identity.Store,
	resolver *assets.Resolver,
	logger *zap.Logger,
) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Shell{
		windows:    windows,
		playbackCo: playbackCo,
		queue:      queue,
		identities: identities,
		resolver:   resolver,
		logger:     logger,
		applyAsync: true,
		now:        time.Now,
	}
	if p, ok := identities.Current(); ok {
		s.background = p.BackgroundImage
		s.avatar = p.AvatarURL
	}
	return s
}

// Windows exposes the window manager.
func (s *Shell) Windows() *window.Manager { return s.windows }

// Playback exposes the playback coordinator.
func (s *Shell) Playback() *playback.Coordinator { return s.playbackCo }

// Notifications exposes the toast queue.
func (s *Shell) Notifications() *notify.Queue { return s.queue }

// Identities exposes the profile store.
func (s *Shell) Identities() *identity.Store { return s.identities }

// SwitchIdentity makes a profile the active identity, shows a welcome
// toast, and applies its assets (background, avatar, theme song) in the
// background. Asset application is abandoned if another switch lands
// first.
func (s *Shell) SwitchIdentity(ctx context.Context, profileID string) (types.Profile, error) {
	profile, err := s.identities.Switch(profileID)
	if err != nil {
		return types.Profile{}, fmt.Errorf("switch identity: %w", err)
	}

	s.mu.Lock()
	s.background = profile.BackgroundImage
	s.avatar = profile.AvatarURL
	s.mu.Unlock()

	s.queue.Show("Welcome", fmt.Sprintf("Logged in as %s", profile.Username), "👋")

	if s.applyAsync {
		go s.applyAssets(context.WithoutCancel(ctx), profile)
	} else {
		s.applyAssets(ctx, profile)
	}
	return profile, nil
}

// applyAssets resolves the profile's stored assets and applies them.
// Results are discarded when the active identity changed while probes
// were in flight.
func (s *Shell) applyAssets(ctx context.Context, profile types.Profile) {
	bg := s.resolver.Resolve(ctx, assets.ClassBackground, profile.ID)
	avatar := s.resolver.Resolve(ctx, assets.ClassAvatar, profile.ID)
	song := s.resolver.Resolve(ctx, assets.ClassSong, profile.ID)

	if s.identities.CurrentID() != profile.ID {
		s.logger.Debug("identity changed during asset lookup, discarding",
			zap.String("profile_id", profile.ID))
		return
	}

	s.mu.Lock()
	if bg.Stored {
		s.background = s.cacheBust(bg.URL)
	}
	if avatar.Stored {
		s.avatar = s.cacheBust(avatar.URL)
	}
	s.mu.Unlock()

	switch {
	case song.Stored:
		s.playbackCo.PlayByURL(song.URL, profile.Username)
	case profile.Preferences.AutoPlayMusic || profile.ThemeSong.File != "":
		s.playbackCo.PlayThemeSong(profile.ThemeSong)
	}
}

// cacheBust appends a timestamp query so clients refetch replaced
// assets at stable URLs.
func (s *Shell) cacheBust(url string) string {
	if url == "" {
		return url
	}
	return fmt.Sprintf("%s?t=%d", url, s.now().Unix())
}

// Background returns the active background image URL.
func (s *Shell) Background() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.background
}

// Avatar returns the active avatar URL.
func (s *Shell) Avatar() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.avatar
}

// RefreshAssets re-resolves the active identity's assets, bypassing the
// cache. Used after uploads.
func (s *Shell) RefreshAssets(ctx context.Context) {
	profile, ok := s.identities.Current()
	if !ok {
		return
	}
	s.resolver.Invalidate(profile.ID)
	s.applyAssets(ctx, profile)
}

// State is the full desktop snapshot sent to clients.
type State struct {
	Profile       *types.Profile       `json:"profile,omitempty"`
	Background    string               `json:"background"`
	Avatar        string               `json:"avatar"`
	Windows       []types.Window       `json:"windows"`
	Playback      types.PlaybackState  `json:"playback"`
	Notifications []types.Notification `json:"notifications"`
	Viewport      types.Viewport       `json:"viewport"`
}

// Snapshot assembles the full desktop state.
func (s *Shell) Snapshot() State {
	state := State{
		Background:    s.Background(),
		Avatar:        s.Avatar(),
		Windows:       s.windows.List(),
		Playback:      s.playbackCo.State(),
		Notifications: s.queue.List(),
		Viewport:      s.windows.Viewport(),
	}
	if p, ok := s.identities.Current(); ok {
		state.Profile = &p
	}
	return state
}
