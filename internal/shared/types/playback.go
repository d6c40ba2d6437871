package types

// Song is one playlist entry.
type Song struct {
	Title     string `json:"title" toml:"title" yaml:"title"`
	Artist    string `json:"artist" toml:"artist" yaml:"artist"`
	File      string `json:"file" toml:"file" yaml:"file"`
	Thumbnail string `json:"thumbnail,omitempty" toml:"thumbnail" yaml:"thumbnail"`
}

// PlaybackState is a read-only snapshot of the shared audio transport.
// CurrentIndex is always a valid index into Songs whenever Songs is
// non-empty; Volume is clamped to [0,100].
type PlaybackState struct {
	Songs        []Song `json:"songs"`
	CurrentIndex int    `json:"current_index"`
	Current      *Song  `json:"current,omitempty"`
	IsPlaying    bool   `json:"is_playing"`
	Volume       int    `json:"volume"`
	Shuffle      bool   `json:"shuffle"`
	Repeat       bool   `json:"repeat"`
}
