package playback

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/batcaveos/backend/internal/shared/types"
)

// playlistFile is the on-disk playlist format.
type playlistFile struct {
	Songs []types.Song `toml:"songs"`
}

// LoadPlaylist reads a TOML playlist file.
func LoadPlaylist(path string) ([]types.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}

	var pf playlistFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}

	for i, s := range pf.Songs {
		if s.Title == "" || s.File == "" {
			return nil, fmt.Errorf("playlist entry %d missing title or file", i)
		}
	}
	return pf.Songs, nil
}

// DefaultPlaylist returns the built-in song list used when no playlist
// file is configured.
func DefaultPlaylist() []types.Song {
	return []types.Song{
		{Title: "On Melancholy Hill", Artist: "Gorillaz", File: "songs/song1.mp3", Thumbnail: "Thumbnails/Melachony.png"},
		{Title: "13 nuyork nights at 21", Artist: "Uzi Vert", File: "songs/song2.mp3", Thumbnail: "Thumbnails/nuyrok.jpg"},
		{Title: "Forest Theme", Artist: "Nature Sounds", File: "songs/song3.mp3", Thumbnail: "Thumbnails/forest.jpg"},
		{Title: "Gotham City", Artist: "Dark Knight", File: "songs/song4.mp3", Thumbnail: "Thumbnails/gotham.jpg"},
		{Title: "Randal's Theme", Artist: "Unknown", File: "songs/song5.mp3", Thumbnail: "Thumbnails/randal.jpg"},
		{Title: "Hat Trick", Artist: "Protect", File: "songs/song6.mp3", Thumbnail: "Thumbnails/HT.png"},
		{Title: "OPM BABI", Artist: "Playboi Carti", File: "songs/song7.mp3", Thumbnail: "Thumbnails/OB.png"},
		{Title: "If It Aint Wok", Artist: "Lucki", File: "songs/song8.mp3", Thumbnail: "Thumbnails/IFAW.jpg"},
		{Title: "Zebra Stripes", Artist: "Wild Life", File: "songs/song9.mp3", Thumbnail: "Thumbnails/zebra.jpg"},
		{Title: "Los Save Us", Artist: "Savior", File: "songs/song10.mp3", Thumbnail: "Thumbnails/lossave.jpg"},
		{Title: "Blatt Beat", Artist: "Blatt", File: "songs/song11.mp3", Thumbnail: "Thumbnails/blatt.jpg"},
	}
}
