package types

// OpenWindowRequest opens (or refocuses) a window slot, optionally
// swapping the content shown in a viewer kind.
type OpenWindowRequest struct {
	Content map[string]interface{} `json:"content,omitempty"`
}

// PointerRequest carries a pointer coordinate for drag operations.
type PointerRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// VolumeRequest sets playback volume.
type VolumeRequest struct {
	Volume int `json:"volume"`
}

// IndexRequest selects a playlist entry.
type IndexRequest struct {
	Index int `json:"index"`
}

// PlayURLRequest plays an out-of-band track (e.g. another profile's
// theme song) without inserting it into the playlist.
type PlayURLRequest struct {
	URL   string `json:"url" binding:"required"`
	Label string `json:"label" binding:"required"`
}

// NotifyRequest appends a toast to the notification queue.
type NotifyRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Icon    string `json:"icon"`
}

// AddFileRequest adds a file entry to a profile.
type AddFileRequest struct {
	Name    string   `json:"name" binding:"required"`
	Type    FileType `json:"type" binding:"required"`
	Path    string   `json:"path" binding:"required"`
	Content string   `json:"content"`
}

// RegisterRequest creates a new identity record.
type RegisterRequest struct {
	AdminKey string `json:"adminKey"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// AdminRequest is the shared envelope for one-shot maintenance actions.
// Every admin endpoint is gated by the AdminKey shared secret.
type AdminRequest struct {
	AdminKey string `json:"adminKey"`
	Bucket   string `json:"bucket,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Public   *bool  `json:"public,omitempty"`
}

// WSMessage is one frame on the desktop event socket.
type WSMessage struct {
	Type    string                 `json:"type"`
	Kind    Kind                   `json:"kind,omitempty"`
	X       int                    `json:"x,omitempty"`
	Y       int                    `json:"y,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ActionResult reports one maintenance action outcome.
type ActionResult struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
