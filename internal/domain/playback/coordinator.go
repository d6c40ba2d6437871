// Package playback implements the shared audio transport: one playlist,
// one cursor, and the play/pause/next/prev/shuffle/repeat semantics all
// connected clients observe together.
package playback

import (
	"math/rand"
	"sync"
	"time"

	"github.com/batcaveos/backend/internal/infrastructure/monitoring"
	"github.com/batcaveos/backend/internal/shared/types"
)

// restartThreshold is how far into a track "previous" restarts it
// instead of stepping back.
const restartThreshold = 3 * time.Second

// Sink is the audio output the coordinator drives. The server itself
// does not decode audio; the default sink only tracks elapsed time so
// transport rules that depend on position still hold.
type Sink interface {
	// Load points the sink at a new track, resetting position.
	Load(song types.Song)
	Play()
	Pause()
	// SeekStart rewinds to the beginning without changing tracks.
	SeekStart()
	// Position reports elapsed time in the current track.
	Position() time.Duration
	SetVolume(percent int)
}

// Coordinator owns the playback state shared across clients.
type Coordinator struct {
	mu      sync.RWMutex
	songs   []types.Song
	current int
	playing bool
	loaded  bool // the sink has a track loaded
	volume  int
	shuffle bool
	repeat  bool
	custom  *types.Song // out-of-band track, not part of songs

	sink    Sink
	randInt func(n int) int
	metrics *monitoring.Metrics
}

// NewCoordinator creates a coordinator over the given playlist. A nil
// sink falls back to the built-in clock sink.
func NewCoordinator(songs []types.Song, sink Sink) *Coordinator {
	if sink == nil {
		sink = NewClockSink()
	}
	c := &Coordinator{
		songs:   songs,
		volume:  50,
		sink:    sink,
		randInt: rand.Intn,
	}
	sink.SetVolume(c.volume)
	return c
}

// WithMetrics adds metrics tracking to the coordinator.
func (c *Coordinator) WithMetrics(metrics *monitoring.Metrics) *Coordinator {
	c.metrics = metrics
	return c
}

// WithRand replaces the shuffle source, useful for deterministic tests.
func (c *Coordinator) WithRand(randInt func(n int) int) *Coordinator {
	c.randInt = randInt
	return c
}

// Play starts or resumes playback of the current track.
func (c *Coordinator) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.songs) == 0 && c.custom == nil {
		return
	}
	if !c.loaded {
		c.sink.Load(c.songs[c.current])
		c.loaded = true
	}
	if !c.playing {
		c.playing = true
		c.sink.Play()
		c.setPlayingMetric(true)
	}
}

// Pause halts playback, keeping the position. Idempotent.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		c.playing = false
		c.sink.Pause()
		c.setPlayingMetric(false)
	}
}

// Next advances to the following track, wrapping at the end. With
// shuffle on it jumps to a random other track instead.
func (c *Coordinator) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.songs) == 0 {
		return
	}
	if c.shuffle {
		c.current = c.randomIndex()
	} else {
		c.current = (c.current + 1) % len(c.songs)
	}
	c.loadAndPlay()
}

// Prev restarts the current track when more than a few seconds in,
// otherwise steps back to the previous track, wrapping at the start.
func (c *Coordinator) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.songs) == 0 {
		return
	}
	if c.sink.Position() > restartThreshold {
		c.sink.SeekStart()
		return
	}
	c.current = (c.current - 1 + len(c.songs)) % len(c.songs)
	c.loadAndPlay()
}

// Select jumps to a playlist entry by index. Out-of-range indexes are
// ignored.
func (c *Coordinator) Select(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.songs) {
		return
	}
	c.current = index
	c.loadAndPlay()
}

// HandleTrackEnd applies the end-of-track rule: repeat replays, shuffle
// jumps to a random track, otherwise the cursor advances and playback
// stops after the final track.
func (c *Coordinator) HandleTrackEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.songs) == 0 {
		c.stop()
		return
	}
	switch {
	case c.repeat:
		c.sink.SeekStart()
		c.sink.Play()
	case c.shuffle:
		c.current = c.randomIndex()
		c.loadAndPlay()
	case c.current < len(c.songs)-1:
		c.current++
		c.loadAndPlay()
	default:
		c.stop()
	}
}

// ToggleShuffle flips shuffle mode and returns the new value.
func (c *Coordinator) ToggleShuffle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shuffle = !c.shuffle
	return c.shuffle
}

// ToggleRepeat flips repeat mode and returns the new value.
func (c *Coordinator) ToggleRepeat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.repeat = !c.repeat
	return c.repeat
}

// SetVolume sets the volume, clamped to [0,100].
func (c *Coordinator) SetVolume(percent int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	c.volume = percent
	c.sink.SetVolume(percent)
	return c.volume
}

// PlayByURL plays an out-of-band track (e.g. another profile's theme
// song) without inserting it into the playlist. Any later playlist
// transport clears it.
func (c *Coordinator) PlayByURL(url, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	song := types.Song{
		Title:  label + "'s Theme",
		Artist: label,
		File:   url,
	}
	c.custom = &song
	c.sink.Load(song)
	c.loaded = true
	c.playing = true
	c.sink.Play()
	c.setPlayingMetric(true)
	if c.metrics != nil {
		c.metrics.RecordTrackPlayed("url")
	}
}

// PlayThemeSong plays a profile's theme song as a playlist member: an
// entry with the same file is reused, otherwise the song is appended.
func (c *Coordinator) PlayThemeSong(song types.Song) {
	if song.File == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	found := -1
	for i, s := range c.songs {
		if s.File == song.File {
			found = i
			break
		}
	}
	if found == -1 {
		c.songs = append(c.songs, song)
		found = len(c.songs) - 1
	}
	c.current = found
	c.loadAndPlay()
}

// State returns a snapshot of the transport.
func (c *Coordinator) State() types.PlaybackState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := types.PlaybackState{
		Songs:        append([]types.Song(nil), c.songs...),
		CurrentIndex: c.current,
		IsPlaying:    c.playing,
		Volume:       c.volume,
		Shuffle:      c.shuffle,
		Repeat:       c.repeat,
	}
	if c.custom != nil {
		song := *c.custom
		state.Current = &song
	} else if c.current >= 0 && c.current < len(c.songs) {
		song := c.songs[c.current]
		state.Current = &song
	}
	return state
}

// loadAndPlay moves the sink to the current track and starts it. Any
// out-of-band track is dropped. Must hold lock.
func (c *Coordinator) loadAndPlay() {
	c.custom = nil
	c.sink.Load(c.songs[c.current])
	c.loaded = true
	c.playing = true
	c.sink.Play()
	c.setPlayingMetric(true)
	if c.metrics != nil {
		c.metrics.RecordTrackPlayed("playlist")
	}
}

// stop must hold lock.
func (c *Coordinator) stop() {
	if c.playing {
		c.playing = false
		c.sink.Pause()
		c.setPlayingMetric(false)
	}
}

// randomIndex picks a track other than the current one whenever the
// playlist has more than one entry. Must hold lock.
func (c *Coordinator) randomIndex() int {
	for {
		i := c.randInt(len(c.songs))
		if i != c.current || len(c.songs) == 1 {
			return i
		}
	}
}

func (c *Coordinator) setPlayingMetric(playing bool) {
	if c.metrics != nil {
		c.metrics.SetPlaying(playing)
	}
}
