// Package identity implements the profile store: the roster of desktop
// identities, the active-identity pointer, and per-profile
// customization (preferences, files, social links).
package identity

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/batcaveos/backend/internal/infrastructure/monitoring"
	"github.com/batcaveos/backend/internal/shared/id"
	"github.com/batcaveos/backend/internal/shared/types"
	"github.com/batcaveos/backend/internal/shared/utils"
)

// SwitchListener observes identity switches. Listeners run
// synchronously inside Switch; long work belongs in a goroutine.
type SwitchListener func(profile types.Profile)

// Store holds the profile roster.
type Store struct {
	mu        sync.RWMutex
	profiles  map[string]*types.Profile
	passwords map[string][]byte // id -> bcrypt hash
	current   string
	listeners []SwitchListener
	metrics   *monitoring.Metrics
}

// NewStore creates an empty profile store.
func NewStore() *Store {
	return &Store{
		profiles:  make(map[string]*types.Profile),
		passwords: make(map[string][]byte),
	}
}

// NewStoreWithDefaults creates a store seeded with the built-in roster,
// with the first profile active.
func NewStoreWithDefaults() *Store {
	s := NewStore()
	for _, p := range builtinProfiles() {
		profile := p
		s.profiles[profile.ID] = &profile
		if s.current == "" {
			s.current = profile.ID
		}
	}
	return s
}

// WithMetrics adds metrics tracking to the store.
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	if metrics != nil {
		metrics.SetProfilesTracked(s.Count())
	}
	return s
}

// OnSwitch registers an identity-switch listener.
func (s *Store) OnSwitch(l SwitchListener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, l)
}

// Register creates a new profile with default customization. The
// username must be unique.
func (s *Store) Register(username, email, password string) (types.Profile, error) {
	if err := utils.ValidateUsername(username); err != nil {
		return types.Profile{}, err
	}
	if err := utils.ValidateEmail(email, false); err != nil {
		return types.Profile{}, err
	}
	if len(password) < 6 {
		return types.Profile{}, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.Username == username {
			return types.Profile{}, fmt.Errorf("username %s already exists", username)
		}
	}

	now := time.Now()
	profile := types.Profile{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       email,
		Preferences: DefaultPreferences(),
		Files:       DefaultFiles(username),
		PinnedApps:  []types.Kind{types.KindMusic, types.KindSettings},
		LastLogin:   now,
		CreatedAt:   now,
	}
	s.profiles[profile.ID] = &profile
	s.passwords[profile.ID] = hash

	if s.metrics != nil {
		s.metrics.SetProfilesTracked(len(s.profiles))
	}
	return profile, nil
}

// Authenticate checks a username/password pair and returns the profile.
// Seeded profiles carry no password and cannot authenticate this way.
func (s *Store) Authenticate(username, password string) (types.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for pid, p := range s.profiles {
		if p.Username != username {
			continue
		}
		hash, ok := s.passwords[pid]
		if !ok {
			return types.Profile{}, fmt.Errorf("profile has no password set")
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
			return types.Profile{}, fmt.Errorf("invalid credentials")
		}
		return *p, nil
	}
	return types.Profile{}, fmt.Errorf("invalid credentials")
}

// Switch makes the given profile the active identity, touching its
// LastLogin and notifying listeners. Unknown IDs fail without changing
// the active identity.
func (s *Store) Switch(profileID string) (types.Profile, error) {
	s.mu.Lock()

	p, ok := s.profiles[profileID]
	if !ok {
		s.mu.Unlock()
		return types.Profile{}, fmt.Errorf("profile not found: %s", profileID)
	}

	s.current = profileID
	p.LastLogin = time.Now()
	snapshot := clone(p)
	listeners := append([]SwitchListener(nil), s.listeners...)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordIdentitySwitch()
	}
	for _, l := range listeners {
		l(snapshot)
	}
	return snapshot, nil
}

// Current returns the active profile.
func (s *Store) Current() (types.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[s.current]
	if !ok {
		return types.Profile{}, false
	}
	return clone(p), true
}

// CurrentID returns the active profile ID.
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Get retrieves a profile by ID.
func (s *Store) Get(profileID string) (types.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return types.Profile{}, false
	}
	return clone(p), true
}

// GetByUsername retrieves a profile by username.
func (s *Store) GetByUsername(username string) (types.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.Username == username {
			return clone(p), true
		}
	}
	return types.Profile{}, false
}

// List returns all profiles sorted by username.
func (s *Store) List() []types.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Count returns the number of profiles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.profiles)
}

// UpdateProfile applies a partial profile mutation.
func (s *Store) UpdateProfile(profileID string, update types.ProfileUpdate) (types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return types.Profile{}, fmt.Errorf("profile not found: %s", profileID)
	}

	if update.AvatarURL != nil {
		p.AvatarURL = *update.AvatarURL
	}
	if update.BackgroundImage != nil {
		p.BackgroundImage = *update.BackgroundImage
	}
	if update.ThemeSong != nil {
		p.ThemeSong = *update.ThemeSong
	}
	if update.Social != nil {
		p.Social = *update.Social
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	return clone(p), nil
}

// UpdatePreferences applies a partial preferences mutation.
func (s *Store) UpdatePreferences(profileID string, update types.PreferencesUpdate) (types.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return types.Preferences{}, fmt.Errorf("profile not found: %s", profileID)
	}

	prefs := &p.Preferences
	if update.Theme != nil {
		prefs.Theme = *update.Theme
	}
	if update.AccentColor != nil {
		prefs.AccentColor = *update.AccentColor
	}
	if update.FontSize != nil {
		prefs.FontSize = *update.FontSize
	}
	if update.Animations != nil {
		prefs.Animations = *update.Animations
	}
	if update.DesktopLayout != nil {
		prefs.DesktopLayout = *update.DesktopLayout
	}
	if update.TaskbarPosition != nil {
		prefs.TaskbarPosition = *update.TaskbarPosition
	}
	if update.AutoPlayMusic != nil {
		prefs.AutoPlayMusic = *update.AutoPlayMusic
	}
	if update.ShowClock != nil {
		prefs.ShowClock = *update.ShowClock
	}
	if update.ShowNotifications != nil {
		prefs.ShowNotifications = *update.ShowNotifications
	}
	return *prefs, nil
}

// AddFile appends a file entry to a profile, assigning its ID and
// modification time.
func (s *Store) AddFile(profileID string, file types.UserFile) (types.UserFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return types.UserFile{}, fmt.Errorf("profile not found: %s", profileID)
	}

	file.ID = id.NewFileID().String()
	file.LastModified = time.Now()
	p.Files = append(p.Files, file)
	return file, nil
}

// UpdateFile applies a mutation to a file entry, touching its
// modification time.
func (s *Store) UpdateFile(profileID, fileID string, mutate func(*types.UserFile)) (types.UserFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return types.UserFile{}, fmt.Errorf("profile not found: %s", profileID)
	}

	for i := range p.Files {
		if p.Files[i].ID == fileID {
			mutate(&p.Files[i])
			p.Files[i].ID = fileID // mutation may not reassign identity
			p.Files[i].LastModified = time.Now()
			return p.Files[i], nil
		}
	}
	return types.UserFile{}, fmt.Errorf("file not found: %s", fileID)
}

// DeleteFile removes a file entry.
func (s *Store) DeleteFile(profileID, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile not found: %s", profileID)
	}

	for i := range p.Files {
		if p.Files[i].ID == fileID {
			p.Files = append(p.Files[:i], p.Files[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("file not found: %s", fileID)
}

// ToggleFavorite flips a file's favorite flag.
func (s *Store) ToggleFavorite(profileID, fileID string) (types.UserFile, error) {
	return s.UpdateFile(profileID, fileID, func(f *types.UserFile) {
		f.Favorite = !f.Favorite
	})
}

// Files returns a profile's files, optionally filtered by type.
func (s *Store) Files(profileID string, fileType types.FileType) ([]types.UserFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", profileID)
	}

	out := make([]types.UserFile, 0, len(p.Files))
	for _, f := range p.Files {
		if fileType == "" || f.Type == fileType {
			out = append(out, f)
		}
	}
	return out, nil
}

// FavoriteFiles returns a profile's favorited files.
func (s *Store) FavoriteFiles(profileID string) ([]types.UserFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", profileID)
	}

	var out []types.UserFile
	for _, f := range p.Files {
		if f.Favorite {
			out = append(out, f)
		}
	}
	return out, nil
}

// RecentFiles returns a profile's most recently modified files.
func (s *Store) RecentFiles(profileID string, limit int) ([]types.UserFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", profileID)
	}

	out := append([]types.UserFile(nil), p.Files...)
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// clone deep-copies a profile so callers never alias store state.
func clone(p *types.Profile) types.Profile {
	out := *p
	out.Files = append([]types.UserFile(nil), p.Files...)
	out.PinnedApps = append([]types.Kind(nil), p.PinnedApps...)
	return out
}
