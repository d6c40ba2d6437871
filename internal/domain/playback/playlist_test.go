package playback

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlaylist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.toml")
	data := `
[[songs]]
title = "On Melancholy Hill"
artist = "Gorillaz"
file = "songs/song1.mp3"
thumbnail = "Thumbnails/Melachony.png"

[[songs]]
title = "Forest Theme"
artist = "Nature Sounds"
file = "songs/song3.mp3"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	songs, err := LoadPlaylist(path)
	if err != nil {
		t.Fatalf("LoadPlaylist failed: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(songs))
	}
	if songs[0].Artist != "Gorillaz" {
		t.Errorf("unexpected artist: %s", songs[0].Artist)
	}
}

func TestLoadPlaylistRejectsIncompleteEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.toml")
	data := `
[[songs]]
artist = "Nobody"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPlaylist(path); err == nil {
		t.Error("expected error for entry missing title and file")
	}
}

func TestLoadPlaylistMissingFile(t *testing.T) {
	if _, err := LoadPlaylist(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultPlaylist(t *testing.T) {
	songs := DefaultPlaylist()
	if len(songs) != 11 {
		t.Fatalf("expected 11 songs, got %d", len(songs))
	}
	seen := make(map[string]bool)
	for _, s := range songs {
		if s.Title == "" || s.File == "" {
			t.Errorf("incomplete entry: %+v", s)
		}
		if seen[s.File] {
			t.Errorf("duplicate file: %s", s.File)
		}
		seen[s.File] = true
	}
}
