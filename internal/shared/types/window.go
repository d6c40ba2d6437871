package types

import "time"

// Kind identifies an application window slot. The desktop is
// single-instance-per-kind: opening a kind that is already open only
// refocuses the existing window, and viewer kinds swap their content
// rather than spawning a second instance.
type Kind string

const (
	KindSettings    Kind = "settings"
	KindDocuments   Kind = "documents"
	KindPictures    Kind = "pictures"
	KindMusic       Kind = "music"
	KindDirectory   Kind = "directory"
	KindProfiles    Kind = "profiles"
	KindTextViewer  Kind = "text-viewer"
	KindImageViewer Kind = "image-viewer"
	KindVideoViewer Kind = "video-viewer"
	KindAdmin       Kind = "admin"
)

// Position is a window origin in screen pixels.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window extent in screen pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Viewport describes the drawable screen area. The taskbar strip at the
// bottom is reserved and windows are never dragged into it.
type Viewport struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	TaskbarHeight int `json:"taskbar_height"`
}

// Window is one application window slot. Records persist after close
// (IsOpen flips to false) so reopening restores the last position and
// content wiring.
type Window struct {
	Kind        Kind                   `json:"kind"`
	Title       string                 `json:"title"`
	Icon        string                 `json:"icon,omitempty"`
	IsOpen      bool                   `json:"is_open"`
	IsMaximized bool                   `json:"is_maximized"`
	Position    Position               `json:"position"`
	Size        Size                   `json:"size"`
	ZIndex      int                    `json:"z_index"`
	Content     map[string]interface{} `json:"content,omitempty"`
	OpenedAt    time.Time              `json:"opened_at"`
}

// DragSession is the transient state of one pointer-down-to-pointer-up
// gesture. At most one exists system-wide at a time.
type DragSession struct {
	Kind   Kind     `json:"kind"`
	Offset Position `json:"offset"` // pointer minus window origin at grab
}

// WindowStats contains window manager statistics.
type WindowStats struct {
	TrackedWindows int   `json:"tracked_windows"`
	OpenWindows    int   `json:"open_windows"`
	TopKind        *Kind `json:"top_kind,omitempty"`
	DragActive     bool  `json:"drag_active"`
}
