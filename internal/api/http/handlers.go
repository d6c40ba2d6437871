// Package http contains the REST handlers for the desktop backend.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/batcaveos/backend/internal/admin"
	"github.com/batcaveos/backend/internal/domain/desktop"
	"github.com/batcaveos/backend/internal/infrastructure/logging"
	"github.com/batcaveos/backend/internal/infrastructure/monitoring"
	"github.com/batcaveos/backend/internal/shared/types"
	"github.com/batcaveos/backend/internal/shared/utils"
	"github.com/batcaveos/backend/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	shell       *desktop.Shell
	provisioner *admin.Provisioner
	store       storage.Store
	metrics     *monitoring.Metrics
	logger      *logging.Logger
	adminKey    string
}

// NewHandlers creates a new handler set
func NewHandlers(
	shell *desktop.Shell,
	provisioner *admin.Provisioner,
	store storage.Store,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
	adminKey string,
) *Handlers {
	return &Handlers{
		shell:       shell,
		provisioner: provisioner,
		store:       store,
		metrics:     metrics,
		logger:      logger,
		adminKey:    adminKey,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Desktop Service (Go)",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"windows":  h.shell.Windows().Stats(),
		"profiles": h.shell.Identities().Count(),
		"toasts":   h.shell.Notifications().Len(),
	})
}

// Stats returns the JSON metrics snapshot
func (h *Handlers) Stats(c *gin.Context) {
	snapshot := h.metrics.GetSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"requests":          snapshot.TotalRequests,
		"errors":            snapshot.TotalErrors,
		"open_windows":      snapshot.OpenWindows,
		"ws_connections":    snapshot.WSConnections,
		"identity_switches": snapshot.IdentitySwitches,
		"avg_latency_secs":  snapshot.AverageLatency(),
		"uptime_secs":       h.metrics.UptimeSeconds(),
	})
}

// Desktop returns the full desktop snapshot
func (h *Handlers) Desktop(c *gin.Context) {
	c.JSON(http.StatusOK, h.shell.Snapshot())
}

// ListWindows lists open windows bottom to top
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"windows": h.shell.Windows().List(),
		"stats":   h.shell.Windows().Stats(),
	})
}

// OpenWindow opens or refocuses a window
func (h *Handlers) OpenWindow(c *gin.Context) {
	kind := types.Kind(c.Param("kind"))

	var req types.OpenWindowRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	success := h.shell.Windows().OpenWith(kind, req.Content)

	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"kind":    kind,
	})
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	kind := types.Kind(c.Param("kind"))
	success := h.shell.Windows().Close(kind)

	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"kind":    kind,
	})
}

// FocusWindow brings a window to the top
func (h *Handlers) FocusWindow(c *gin.Context) {
	kind := types.Kind(c.Param("kind"))
	success := h.shell.Windows().Focus(kind)

	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"kind":    kind,
	})
}

// MaximizeWindow toggles maximized state
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	kind := types.Kind(c.Param("kind"))
	success := h.shell.Windows().ToggleMaximize(kind)

	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"kind":    kind,
	})
}

// StartDrag begins a drag gesture
func (h *Handlers) StartDrag(c *gin.Context) {
	kind := types.Kind(c.Param("kind"))

	var req types.PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success := h.shell.Windows().BeginDrag(kind, types.Position{X: req.X, Y: req.Y})

	c.JSON(http.StatusOK, gin.H{
		"success": success,
		"kind":    kind,
	})
}

// MoveDrag updates the active drag toward a pointer position
func (h *Handlers) MoveDrag(c *gin.Context) {
	var req types.PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success := h.shell.Windows().UpdateDrag(types.Position{X: req.X, Y: req.Y})

	c.JSON(http.StatusOK, gin.H{"success": success})
}

// EndDrag releases the active drag
func (h *Handlers) EndDrag(c *gin.Context) {
	h.shell.Windows().EndDrag()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetViewport updates the viewport dimensions
func (h *Handlers) SetViewport(c *gin.Context) {
	var req types.Viewport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "viewport dimensions must be positive"})
		return
	}

	h.shell.Windows().SetViewport(req)

	c.JSON(http.StatusOK, gin.H{"success": true, "viewport": req})
}

// PlaybackState returns the transport snapshot
func (h *Handlers) PlaybackState(c *gin.Context) {
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// Play starts or resumes playback
func (h *Handlers) Play(c *gin.Context) {
	h.shell.Playback().Play()
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// Pause halts playback
func (h *Handlers) Pause(c *gin.Context) {
	h.shell.Playback().Pause()
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// NextTrack advances the playlist
func (h *Handlers) NextTrack(c *gin.Context) {
	h.shell.Playback().Next()
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// PrevTrack restarts or steps back
func (h *Handlers) PrevTrack(c *gin.Context) {
	h.shell.Playback().Prev()
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// SelectTrack jumps to a playlist index
func (h *Handlers) SelectTrack(c *gin.Context) {
	var req types.IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.shell.Playback().Select(req.Index)
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// ToggleShuffle flips shuffle mode
func (h *Handlers) ToggleShuffle(c *gin.Context) {
	shuffle := h.shell.Playback().ToggleShuffle()
	c.JSON(http.StatusOK, gin.H{"shuffle": shuffle})
}

// ToggleRepeat flips repeat mode
func (h *Handlers) ToggleRepeat(c *gin.Context) {
	repeat := h.shell.Playback().ToggleRepeat()
	c.JSON(http.StatusOK, gin.H{"repeat": repeat})
}

// SetVolume sets the playback volume
func (h *Handlers) SetVolume(c *gin.Context) {
	var req types.VolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	volume := h.shell.Playback().SetVolume(req.Volume)
	c.JSON(http.StatusOK, gin.H{"volume": volume})
}

// PlayURL plays an out-of-band track
func (h *Handlers) PlayURL(c *gin.Context) {
	var req types.PlayURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateLabel(req.Label, "label", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.shell.Playback().PlayByURL(req.URL, req.Label)
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// TrackEnded applies the end-of-track transition
func (h *Handlers) TrackEnded(c *gin.Context) {
	h.shell.Playback().HandleTrackEnd()
	c.JSON(http.StatusOK, h.shell.Playback().State())
}

// ListNotifications returns pending toasts
func (h *Handlers) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.shell.Notifications().List(),
	})
}

// ShowNotification appends a toast
func (h *Handlers) ShowNotification(c *gin.Context) {
	var req types.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateLabel(req.Title, "title", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n := h.shell.Notifications().Show(req.Title, req.Message, req.Icon)
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

// DismissNotification removes a toast
func (h *Handlers) DismissNotification(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "notification_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success := h.shell.Notifications().Dismiss(id)
	c.JSON(http.StatusOK, gin.H{"success": success, "id": id})
}
