package window

import (
	"sort"
	"sync"
	"time"

	"github.com/batcaveos/backend/internal/infrastructure/monitoring"
	"github.com/batcaveos/backend/internal/shared/types"
)

// Manager is the single source of truth for which application windows
// are visible, where each sits on screen, and which is topmost. All
// operations are total over the current state: unknown kinds and
// out-of-order calls are no-ops, never errors.
type Manager struct {
	mu       sync.RWMutex
	windows  map[types.Kind]*types.Window // Protected by mu
	drag     *types.DragSession           // Protected by mu; at most one
	viewport types.Viewport
	topZ     int
	registry *Registry
	metrics  *monitoring.Metrics
}

// NewManager creates a window manager for the given viewport.
func NewManager(registry *Registry, viewport types.Viewport) *Manager {
	return &Manager{
		windows:  make(map[types.Kind]*types.Window),
		viewport: viewport,
		registry: registry,
	}
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Open marks the window for kind as open and promotes it to the top of
// the stacking order. The first open of a kind assigns its default
// placement; later opens restore the last position. Idempotent: opening
// an already-open window only refocuses it.
func (m *Manager) Open(kind types.Kind) bool {
	return m.OpenWith(kind, nil)
}

// OpenWith opens a window and, when content is non-nil, swaps the
// content shown in its (single, shared) slot.
func (m *Manager) OpenWith(kind types.Kind, content map[string]interface{}) bool {
	desc, known := m.registry.Get(kind)
	if !known {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, exists := m.windows[kind]
	if !exists {
		w = &types.Window{
			Kind:     kind,
			Title:    desc.Title,
			Icon:     desc.Icon,
			Position: desc.DefaultPosition,
			Size:     desc.DefaultSize,
		}
		m.windows[kind] = w
	}

	wasOpen := w.IsOpen
	w.IsOpen = true
	if !wasOpen {
		w.OpenedAt = time.Now()
	}
	if content != nil {
		w.Content = content
	}
	m.promote(w)

	if m.metrics != nil && !wasOpen {
		m.metrics.RecordWindowOpen(string(kind))
		m.metrics.SetWindowsOpen(m.openCount())
	}
	return true
}

// Close marks the window as closed. The record persists so reopening
// restores the last position and content wiring. Idempotent.
func (m *Manager) Close(kind types.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[kind]
	if !ok || !w.IsOpen {
		return false
	}

	w.IsOpen = false
	if m.drag != nil && m.drag.Kind == kind {
		m.drag = nil
	}

	if m.metrics != nil {
		m.metrics.SetWindowsOpen(m.openCount())
	}
	return true
}

// Focus promotes an open window to the top of the stacking order.
// Focusing a closed or unknown kind is a no-op and never auto-opens.
func (m *Manager) Focus(kind types.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[kind]
	if !ok || !w.IsOpen {
		return false
	}

	m.promote(w)
	return true
}

// BeginDrag starts a drag gesture for kind at the given pointer
// position, capturing the pointer offset from the window origin and
// implicitly focusing the window. Rejected while another drag is
// active, while the window is maximized, or for closed/unknown kinds.
func (m *Manager) BeginDrag(kind types.Kind, pointer types.Position) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.drag != nil {
		return false
	}

	w, ok := m.windows[kind]
	if !ok || !w.IsOpen || w.IsMaximized {
		return false
	}

	m.drag = &types.DragSession{
		Kind: kind,
		Offset: types.Position{
			X: pointer.X - w.Position.X,
			Y: pointer.Y - w.Position.Y,
		},
	}
	m.promote(w)

	if m.metrics != nil {
		m.metrics.RecordDrag(string(kind))
	}
	return true
}

// UpdateDrag moves the dragged window toward the pointer, clamped so
// the window stays fully inside the viewport and clear of the taskbar
// strip. No-op when no drag is active or the window is maximized.
func (m *Manager) UpdateDrag(pointer types.Position) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.drag == nil {
		return false
	}

	w, ok := m.windows[m.drag.Kind]
	if !ok || w.IsMaximized {
		return false
	}

	w.Position = m.clampPosition(types.Position{
		X: pointer.X - m.drag.Offset.X,
		Y: pointer.Y - m.drag.Offset.Y,
	}, w.Size)
	return true
}

// EndDrag clears the active drag session. Idempotent.
func (m *Manager) EndDrag() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drag = nil
}

// ToggleMaximize flips maximized state. While maximized the rendering
// layer fills the viewport minus the taskbar strip; the stored position
// is never mutated, so un-maximizing restores it exactly.
func (m *Manager) ToggleMaximize(kind types.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[kind]
	if !ok || !w.IsOpen {
		return false
	}

	w.IsMaximized = !w.IsMaximized
	if w.IsMaximized && m.drag != nil && m.drag.Kind == kind {
		m.drag = nil
	}
	return true
}

// SetViewport updates the viewport dimensions and re-clamps every open,
// non-maximized window so none is stranded off-screen.
func (m *Manager) SetViewport(v types.Viewport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viewport = v
	for _, w := range m.windows {
		if w.IsOpen && !w.IsMaximized {
			w.Position = m.clampPosition(w.Position, w.Size)
		}
	}
}

// Get retrieves a copy of the window record for kind.
func (m *Manager) Get(kind types.Kind) (types.Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	w, ok := m.windows[kind]
	if !ok {
		return types.Window{}, false
	}
	return *w, true
}

// List returns copies of all open windows ordered bottom to top.
func (m *Manager) List() []types.Window {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Window, 0, len(m.windows))
	for _, w := range m.windows {
		if w.IsOpen {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Top returns the topmost open window, if any.
func (m *Manager) Top() (types.Window, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var top *types.Window
	for _, w := range m.windows {
		if w.IsOpen && (top == nil || w.ZIndex > top.ZIndex) {
			top = w
		}
	}
	if top == nil {
		return types.Window{}, false
	}
	return *top, true
}

// Drag returns a copy of the active drag session, if any.
func (m *Manager) Drag() (types.DragSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.drag == nil {
		return types.DragSession{}, false
	}
	return *m.drag, true
}

// Viewport returns the current viewport.
func (m *Manager) Viewport() types.Viewport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.viewport
}

// Stats returns manager statistics.
func (m *Manager) Stats() types.WindowStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.WindowStats{
		TrackedWindows: len(m.windows),
		DragActive:     m.drag != nil,
	}
	var top *types.Window
	for _, w := range m.windows {
		if w.IsOpen {
			stats.OpenWindows++
			if top == nil || w.ZIndex > top.ZIndex {
				top = w
			}
		}
	}
	if top != nil {
		kind := top.Kind
		stats.TopKind = &kind
	}
	return stats
}

// promote raises a window above all others. Each promotion is a
// discrete event, so exactly one window ever holds the maximum rank.
// Must hold lock.
func (m *Manager) promote(w *types.Window) {
	m.topZ++
	w.ZIndex = m.topZ
}

// clampPosition bounds a candidate origin so the window stays inside
// the viewport, using the window's own dimensions. Windows larger than
// the viewport pin to the origin. Must hold lock.
func (m *Manager) clampPosition(p types.Position, size types.Size) types.Position {
	maxX := m.viewport.Width - size.Width
	maxY := m.viewport.Height - size.Height - m.viewport.TaskbarHeight
	return types.Position{
		X: clamp(p.X, 0, maxX),
		Y: clamp(p.Y, 0, maxY),
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openCount must hold lock.
func (m *Manager) openCount() int {
	n := 0
	for _, w := range m.windows {
		if w.IsOpen {
			n++
		}
	}
	return n
}
