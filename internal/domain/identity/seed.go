package identity

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/batcaveos/backend/internal/shared/types"
)

// DefaultPreferences returns the baseline desktop options every new
// profile starts from.
func DefaultPreferences() types.Preferences {
	return types.Preferences{
		Theme:             "dark",
		AccentColor:       "#0078d7",
		FontSize:          "medium",
		Animations:        true,
		DesktopLayout:     "grid",
		TaskbarPosition:   "bottom",
		AutoPlayMusic:     false,
		ShowClock:         true,
		ShowNotifications: true,
	}
}

// DefaultFiles returns the starter file set every profile receives.
func DefaultFiles(username string) []types.UserFile {
	now := time.Now()
	return []types.UserFile{
		{
			ID:           username + "-welcome",
			Name:         "Welcome.txt",
			Type:         types.FileDocument,
			Path:         "/Documents/Welcome.txt",
			Content:      fmt.Sprintf("Welcome to %s's desktop!\n\nThis is your personal space. Feel free to customize it to your liking.", username),
			LastModified: now,
			Favorite:     true,
		},
		{
			ID:           username + "-notes",
			Name:         "Notes.txt",
			Type:         types.FileDocument,
			Path:         "/Documents/Notes.txt",
			Content:      "Important notes and reminders go here.",
			LastModified: now,
			Favorite:     false,
		},
		{
			ID:           username + "-profile",
			Name:         username + ".jpg",
			Type:         types.FileImage,
			Path:         "/Photos/Profile/" + username + ".jpg",
			LastModified: now,
			Favorite:     true,
		},
	}
}

// seedEntry is one row of the built-in roster table.
type seedEntry struct {
	id         string
	username   string
	avatar     string
	background string
	song       types.Song
	theme      string
	accent     string
	pinned     []types.Kind
	bio        string
	admin      bool
}

var seedRoster = []seedEntry{
	{
		id: "537b4ab5-500f-49e4-903d-025fb6c09d54", username: "rtmonly",
		avatar: "/Photos/app1.jpg", background: "/Photos/Default-Batman.jpg",
		song:  types.Song{Title: "On Melancholy Hill", Artist: "Gorillaz", File: "songs/song1.mp3", Thumbnail: "Thumbnails/Melachony.png"},
		theme: "dark", accent: "#00bfff",
		pinned: []types.Kind{types.KindMusic, types.KindSettings, types.KindDocuments},
		bio:    "Digital artist and music producer. Creating visual experiences.", admin: true,
	},
	{
		id: "d94c0d42-1494-445b-ad9d-bb08ba927d8b", username: "n333mo",
		avatar: "/Photos/app2.jpg", background: "/Photos/batman.jpg",
		song:  types.Song{Title: "13 nuyork nights at 21", Artist: "Uzi Vert", File: "songs/song2.mp3", Thumbnail: "Thumbnails/nuyrok.jpg"},
		theme: "dark", accent: "#333333",
		pinned: []types.Kind{types.KindDocuments, types.KindSettings},
		bio:    "I am vengeance. I am the night.", admin: true,
	},
	{
		id: "ff7c352b-7cdd-47ae-bde3-b047610e8334", username: "slos",
		avatar: "/Photos/app3.jpg", background: "/Photos/forest.jpg",
		song:  types.Song{Title: "Forest Theme", Artist: "Nature Sounds", File: "songs/song3.mp3", Thumbnail: "Thumbnails/forest.jpg"},
		theme: "light", accent: "#4caf50",
		pinned: []types.Kind{types.KindPictures, types.KindDocuments},
		bio:    "Nature enthusiast and environmental advocate.",
	},
	{
		id: "ab7355f4-06a9-43cf-be29-9134d8737b22", username: "arkham",
		avatar: "/Photos/app4.jpg", background: "/Photos/gotham.jpg",
		song:  types.Song{Title: "Gotham City", Artist: "Dark Knight", File: "songs/song4.mp3", Thumbnail: "Thumbnails/gotham.jpg"},
		theme: "dark", accent: "#607d8b",
		pinned: []types.Kind{types.KindSettings, types.KindDirectory},
		bio:    "The city that never sleeps, always watching.", admin: true,
	},
	{
		id: "4a01de5b-03f2-42af-8f3c-cd860fabc093", username: "outlaw",
		avatar: "/Photos/app5.jpg", background: "/Photos/randal.jpg",
		song:  types.Song{Title: "Randal's Theme", Artist: "Unknown", File: "songs/song5.mp3", Thumbnail: "Thumbnails/randal.jpg"},
		theme: "light", accent: "#ff9800",
		pinned: []types.Kind{types.KindMusic, types.KindPictures, types.KindDocuments},
		bio:    "Just a regular guy with irregular thoughts.",
	},
	{
		id: "f846905e-1625-47fc-9483-56bb7ae3c79d", username: "gekk",
		avatar: "/Photos/app6.jpg", background: "/Photos/batmobile.jpg",
		song:  types.Song{Title: "Hat Trick", Artist: "Protect", File: "songs/song6.mp3", Thumbnail: "Thumbnails/HT.png"},
		theme: "dark", accent: "#f44336",
		pinned: []types.Kind{types.KindSettings, types.KindDirectory},
		bio:    "The ultimate vehicle for justice.",
	},
	{
		id: "7f7fe66f-bcb4-471a-8151-c9daa9f9ed1d", username: "lydell",
		avatar: "/Photos/app7.jpg", background: "/Photos/joker.jpg",
		song:  types.Song{Title: "OPM BABI", Artist: "Playboi Carti", File: "songs/song7.mp3", Thumbnail: "Thumbnails/OB.png"},
		theme: "dark", accent: "#4caf50",
		pinned: []types.Kind{types.KindMusic, types.KindPictures},
		bio:    "Why so serious?",
	},
	{
		id: "7fe8e0aa-0c79-439a-96bc-c8196a3e6799", username: "clipzy",
		avatar: "/Photos/app8.jpg", background: "/Photos/zebra.jpg",
		song:  types.Song{Title: "If It Aint Wok", Artist: "Lucki", File: "songs/song8.mp3", Thumbnail: "Thumbnails/IFAW.jpg"},
		theme: "light", accent: "#9e9e9e",
		pinned: []types.Kind{types.KindPictures, types.KindMusic},
		bio:    "Black and white and unique all over.",
	},
	{
		id: "9c1bc599-8f18-4a14-b2f2-696db2fda4a1", username: "jack",
		avatar: "/Photos/app9.jpg", background: "/Photos/losSave.jpg",
		song:  types.Song{Title: "Zebra Stripes", Artist: "Wild Life", File: "songs/song9.mp3", Thumbnail: "Thumbnails/zebra.jpg"},
		theme: "dark", accent: "#2196f3",
		pinned: []types.Kind{types.KindDocuments, types.KindDirectory},
		bio:    "Saving the world, one pixel at a time.",
	},
	{
		id: "4bf1fcf4-0db6-4eca-8f39-f689f2096c6c", username: "junz",
		avatar: "/Photos/app10.jpg", background: "/Photos/blatt.jpg",
		song:  types.Song{Title: "Los Save Us", Artist: "Savior", File: "songs/song10.mp3", Thumbnail: "Thumbnails/lossave.jpg"},
		theme: "dark", accent: "#673ab7",
		pinned: []types.Kind{types.KindMusic, types.KindPictures},
		bio:    "Music producer and beat maker extraordinaire.",
	},
	{
		id: "cfd859bf-88b2-478e-b8ee-e32f15f29d86", username: "mocha",
		avatar: "/Photos/app11.jpg", background: "/Photos/Default-Batman.jpg",
		song:  types.Song{Title: "Blatt Beat", Artist: "Blatt", File: "songs/song11.mp3", Thumbnail: "Thumbnails/blatt.jpg"},
		theme: "dark", accent: "#673ab7",
		pinned: []types.Kind{types.KindMusic, types.KindPictures},
		bio:    "Coffee lover and code writer.",
	},
	{
		id: "acab184c-5a2d-4cd8-a1ce-4e07cd488918", username: "said",
		avatar: "/Photos/app12.jpg", background: "/Photos/batman4.jpg",
		song:  types.Song{Title: "On Melancholy Hill", Artist: "Gorillaz", File: "songs/song1.mp3", Thumbnail: "Thumbnails/Melachony.png"},
		theme: "dark", accent: "#673ab7",
		pinned: []types.Kind{types.KindMusic, types.KindPictures},
		bio:    "Always has something to say.",
	},
	{
		id: "21ac1b9e-7c6f-4d21-b972-132d6d7df1e1", username: "scorpy",
		avatar: "/Photos/app13.jpg", background: "/Photos/badbih.png",
		song:  types.Song{Title: "13 nuyork nights at 21", Artist: "Uzi Vert", File: "songs/song2.mp3", Thumbnail: "Thumbnails/nuyrok.jpg"},
		theme: "dark", accent: "#673ab7",
		pinned: []types.Kind{types.KindMusic, types.KindPictures},
		bio:    "Stinging beats and sharp lyrics.",
	},
	{
		id: "986e281b-809e-4739-8d2a-292f416cf146", username: "trystin",
		avatar: "/Photos/app14.jpg", background: "/Photos/Forest.png",
		song:  types.Song{Title: "Forest Theme", Artist: "Nature Sounds", File: "songs/song3.mp3", Thumbnail: "Thumbnails/forest.jpg"},
		theme: "dark", accent: "#673ab7",
		pinned: []types.Kind{types.KindMusic, types.KindPictures},
		bio:    "Always trying something new.",
	},
}

// builtinProfiles expands the roster table into full profiles.
func builtinProfiles() []types.Profile {
	created := time.Date(2023, time.January, 15, 12, 0, 0, 0, time.UTC)
	out := make([]types.Profile, 0, len(seedRoster))
	for _, e := range seedRoster {
		prefs := DefaultPreferences()
		prefs.Theme = e.theme
		prefs.AccentColor = e.accent
		out = append(out, types.Profile{
			ID:              e.id,
			Username:        e.username,
			AvatarURL:       e.avatar,
			BackgroundImage: e.background,
			ThemeSong:       e.song,
			Social: types.SocialLinks{
				Twitter: "https://twitter.com/" + e.username,
				Twitch:  "https://twitch.tv/" + e.username,
				GitHub:  "https://github.com/" + e.username,
				Steam:   "https://steamcommunity.com/id/" + e.username + "/",
			},
			Preferences: prefs,
			Files:       DefaultFiles(e.username),
			PinnedApps:  e.pinned,
			Bio:         e.bio,
			IsAdmin:     e.admin,
			LastLogin:   time.Now(),
			CreatedAt:   created,
		})
	}
	return out
}

// seedFile is the on-disk roster format.
type seedFile struct {
	Profiles []seedProfile `yaml:"profiles"`
}

type seedProfile struct {
	ID              string            `yaml:"id"`
	Username        string            `yaml:"username"`
	Email           string            `yaml:"email"`
	AvatarURL       string            `yaml:"avatar_url"`
	BackgroundImage string            `yaml:"background_image"`
	ThemeSong       types.Song        `yaml:"theme_song"`
	Social          types.SocialLinks `yaml:"social"`
	Preferences     *types.Preferences `yaml:"preferences"`
	PinnedApps      []string          `yaml:"pinned_apps"`
	Bio             string            `yaml:"bio"`
	IsAdmin         bool              `yaml:"is_admin"`
}

// LoadSeed reads a YAML roster file and returns a store seeded from it.
// Profiles without an explicit ID or preferences get defaults.
func LoadSeed(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(sf.Profiles) == 0 {
		return nil, fmt.Errorf("seed contains no profiles")
	}

	s := NewStore()
	for i, sp := range sf.Profiles {
		if sp.Username == "" {
			return nil, fmt.Errorf("seed profile %d missing username", i)
		}
		prefs := DefaultPreferences()
		if sp.Preferences != nil {
			prefs = *sp.Preferences
		}
		pinned := make([]types.Kind, 0, len(sp.PinnedApps))
		for _, k := range sp.PinnedApps {
			pinned = append(pinned, types.Kind(k))
		}
		profile := types.Profile{
			ID:              sp.ID,
			Username:        sp.Username,
			Email:           sp.Email,
			AvatarURL:       sp.AvatarURL,
			BackgroundImage: sp.BackgroundImage,
			ThemeSong:       sp.ThemeSong,
			Social:          sp.Social,
			Preferences:     prefs,
			Files:           DefaultFiles(sp.Username),
			PinnedApps:      pinned,
			Bio:             sp.Bio,
			IsAdmin:         sp.IsAdmin,
			LastLogin:       time.Now(),
			CreatedAt:       time.Now(),
		}
		if profile.ID == "" {
			profile.ID = uuid.NewString()
		}
		s.profiles[profile.ID] = &profile
		if s.current == "" {
			s.current = profile.ID
		}
	}
	return s, nil
}
