package types

import "time"

// Preferences holds the per-profile desktop options.
type Preferences struct {
	Theme             string `json:"theme" yaml:"theme"`
	AccentColor       string `json:"accent_color" yaml:"accent_color"`
	FontSize          string `json:"font_size" yaml:"font_size"`
	Animations        bool   `json:"animations" yaml:"animations"`
	DesktopLayout     string `json:"desktop_layout" yaml:"desktop_layout"`
	TaskbarPosition   string `json:"taskbar_position" yaml:"taskbar_position"`
	AutoPlayMusic     bool   `json:"auto_play_music" yaml:"auto_play_music"`
	ShowClock         bool   `json:"show_clock" yaml:"show_clock"`
	ShowNotifications bool   `json:"show_notifications" yaml:"show_notifications"`
}

// SocialLinks are the profile's external account URLs. Each network also
// maps to a storage bucket holding its uploaded icon.
type SocialLinks struct {
	Twitter string `json:"twitter,omitempty" yaml:"twitter"`
	Twitch  string `json:"twitch,omitempty" yaml:"twitch"`
	GitHub  string `json:"github,omitempty" yaml:"github"`
	Steam   string `json:"steam,omitempty" yaml:"steam"`
}

// FileType classifies a user file for directory filtering.
type FileType string

const (
	FileDocument FileType = "document"
	FileImage    FileType = "image"
	FileVideo    FileType = "video"
	FileAudio    FileType = "audio"
	FileOther    FileType = "other"
)

// UserFile is one entry in a profile's file list.
type UserFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         FileType  `json:"type"`
	Path         string    `json:"path"`
	Content      string    `json:"content,omitempty"`
	LastModified time.Time `json:"last_modified"`
	Favorite     bool      `json:"favorite"`
}

// Profile is one desktop identity and its mutable customization.
type Profile struct {
	ID              string      `json:"id"`
	Username        string      `json:"username"`
	Email           string      `json:"email,omitempty"`
	AvatarURL       string      `json:"avatar_url"`
	BackgroundImage string      `json:"background_image"`
	ThemeSong       Song        `json:"theme_song"`
	Social          SocialLinks `json:"social"`
	Preferences     Preferences `json:"preferences"`
	Files           []UserFile  `json:"files"`
	PinnedApps      []Kind      `json:"pinned_apps"`
	Bio             string      `json:"bio,omitempty"`
	IsAdmin         bool        `json:"is_admin"`
	LastLogin       time.Time   `json:"last_login"`
	CreatedAt       time.Time   `json:"created_at"`
}

// ProfileUpdate carries a partial profile mutation. Nil fields are left
// untouched.
type ProfileUpdate struct {
	AvatarURL       *string      `json:"avatar_url,omitempty"`
	BackgroundImage *string      `json:"background_image,omitempty"`
	ThemeSong       *Song        `json:"theme_song,omitempty"`
	Social          *SocialLinks `json:"social,omitempty"`
	Bio             *string      `json:"bio,omitempty"`
}

// PreferencesUpdate carries a partial preferences mutation.
type PreferencesUpdate struct {
	Theme             *string `json:"theme,omitempty"`
	AccentColor       *string `json:"accent_color,omitempty"`
	FontSize          *string `json:"font_size,omitempty"`
	Animations        *bool   `json:"animations,omitempty"`
	DesktopLayout     *string `json:"desktop_layout,omitempty"`
	TaskbarPosition   *string `json:"taskbar_position,omitempty"`
	AutoPlayMusic     *bool   `json:"auto_play_music,omitempty"`
	ShowClock         *bool   `json:"show_clock,omitempty"`
	ShowNotifications *bool   `json:"show_notifications,omitempty"`
}
