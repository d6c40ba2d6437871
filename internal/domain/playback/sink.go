package playback

import (
	"sync"
	"time"

	"github.com/batcaveos/backend/internal/shared/types"
)

// ClockSink is the default Sink. It produces no audio; it tracks track
// position from wall-clock time so transport rules that depend on
// elapsed time behave the same as a real player.
type ClockSink struct {
	mu        sync.Mutex
	playing   bool
	startedAt time.Time
	elapsed   time.Duration
	volume    int
	now       func() time.Time
}

// NewClockSink creates a wall-clock position sink.
func NewClockSink() *ClockSink {
	return &ClockSink{now: time.Now}
}

// NewClockSinkAt creates a sink with a custom clock for tests.
func NewClockSinkAt(now func() time.Time) *ClockSink {
	return &ClockSink{now: now}
}

// Load resets position for a new track.
func (s *ClockSink) Load(_ types.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsed = 0
	s.startedAt = s.now()
}

func (s *ClockSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		s.playing = true
		s.startedAt = s.now()
	}
}

func (s *ClockSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		s.elapsed += s.now().Sub(s.startedAt)
		s.playing = false
	}
}

func (s *ClockSink) SeekStart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsed = 0
	s.startedAt = s.now()
}

func (s *ClockSink) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		return s.elapsed + s.now().Sub(s.startedAt)
	}
	return s.elapsed
}

func (s *ClockSink) SetVolume(percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = percent
}
