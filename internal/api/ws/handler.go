// Package ws streams desktop state changes over WebSocket. Drag
// gestures arrive as high-frequency pointer frames, so mutations come
// in over the socket and every connected client receives the updated
// window list after each one.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/domain/desktop"
	"github.com/batcaveos/backend/internal/infrastructure/logging"
	"github.com/batcaveos/backend/internal/infrastructure/monitoring"
	"github.com/batcaveos/backend/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections
type Handler struct {
	shell   *desktop.Shell
	metrics *monitoring.Metrics
	logger  *logging.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (cl *client) write(data []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHandler creates a new WebSocket handler
func NewHandler(shell *desktop.Shell, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	return &Handler{
		shell:   shell,
		metrics: metrics,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
	h.metrics.IncWSConnections()

	defer func() {
		h.mu.Lock()
		delete(h.clients, cl)
		h.mu.Unlock()
		h.metrics.DecWSConnections()
		conn.Close()
	}()

	h.sendTo(cl, map[string]interface{}{
		"type":    "system",
		"message": "Connected to Desktop Service (Go)",
	})
	h.sendTo(cl, h.stateFrame())

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		switch msg.Type {
		case "drag_start":
			h.shell.Windows().BeginDrag(msg.Kind, types.Position{X: msg.X, Y: msg.Y})
			h.broadcast(h.stateFrame())
		case "drag_move":
			if h.shell.Windows().UpdateDrag(types.Position{X: msg.X, Y: msg.Y}) {
				h.broadcast(h.stateFrame())
			}
		case "drag_end":
			h.shell.Windows().EndDrag()
			h.broadcast(h.stateFrame())
		case "open":
			h.shell.Windows().Open(msg.Kind)
			h.broadcast(h.stateFrame())
		case "close":
			h.shell.Windows().Close(msg.Kind)
			h.broadcast(h.stateFrame())
		case "focus":
			h.shell.Windows().Focus(msg.Kind)
			h.broadcast(h.stateFrame())
		case "maximize":
			h.shell.Windows().ToggleMaximize(msg.Kind)
			h.broadcast(h.stateFrame())
		case "state":
			h.sendTo(cl, h.stateFrame())
		case "ping":
			h.sendTo(cl, map[string]interface{}{"type": "pong"})
		default:
			h.sendTo(cl, map[string]interface{}{
				"type":      "error",
				"message":   "unknown message type",
				"timestamp": time.Now().Unix(),
			})
		}
	}
}

// Broadcast pushes an arbitrary frame to all connected clients. The
// shell calls this indirectly through NotifyStateChanged when state
// mutates outside the socket (REST calls, identity switches).
func (h *Handler) Broadcast(frame map[string]interface{}) {
	h.broadcast(frame)
}

// NotifyStateChanged pushes the current window state to all clients.
func (h *Handler) NotifyStateChanged() {
	h.broadcast(h.stateFrame())
}

func (h *Handler) stateFrame() map[string]interface{} {
	return map[string]interface{}{
		"type":      "state",
		"windows":   h.shell.Windows().List(),
		"timestamp": time.Now().Unix(),
	}
}

func (h *Handler) sendTo(cl *client, frame map[string]interface{}) {
	data, err := sonic.Marshal(frame)
	if err != nil {
		h.logger.Error("frame encode failed", zap.Error(err))
		return
	}
	if err := cl.write(data); err != nil {
		return
	}
	if t, ok := frame["type"].(string); ok {
		h.metrics.RecordWSMessage("out", t)
	}
}

func (h *Handler) broadcast(frame map[string]interface{}) {
	data, err := sonic.Marshal(frame)
	if err != nil {
		h.logger.Error("frame encode failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		if err := cl.write(data); err != nil {
			continue
		}
	}
	if t, ok := frame["type"].(string); ok {
		h.metrics.RecordWSMessage("out", t)
	}
}
