package window

import (
	"testing"

	"github.com/batcaveos/backend/internal/shared/types"
)

func testViewport() types.Viewport {
	return types.Viewport{Width: 1920, Height: 1080, TaskbarHeight: 40}
}

func newTestManager() *Manager {
	return NewManager(DefaultRegistry(), testViewport())
}

func TestOpenAssignsDefaults(t *testing.T) {
	m := newTestManager()

	if !m.Open(types.KindSettings) {
		t.Fatal("Open failed for known kind")
	}

	w, ok := m.Get(types.KindSettings)
	if !ok {
		t.Fatal("window not tracked after open")
	}
	if !w.IsOpen {
		t.Error("window should be open")
	}
	if w.Position != (types.Position{X: 120, Y: 80}) {
		t.Errorf("unexpected default position: %+v", w.Position)
	}
	if w.Title != "Settings" {
		t.Errorf("unexpected title: %s", w.Title)
	}
}

func TestOpenUnknownKindNoop(t *testing.T) {
	m := newTestManager()

	if m.Open(types.Kind("solitaire")) {
		t.Error("opening unknown kind should fail")
	}
	if len(m.List()) != 0 {
		t.Error("unknown kind should not be tracked")
	}
}

func TestOpenIdempotentKeepsPosition(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindMusic)

	m.BeginDrag(types.KindMusic, types.Position{X: 250, Y: 150})
	m.UpdateDrag(types.Position{X: 510, Y: 310})
	m.EndDrag()

	moved, _ := m.Get(types.KindMusic)
	m.Open(types.KindMusic)
	reopened, _ := m.Get(types.KindMusic)
	if reopened.Position != moved.Position {
		t.Errorf("re-open changed position: %+v vs %+v", reopened.Position, moved.Position)
	}
}

func TestCloseThenReopenRestoresPosition(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindDocuments)

	m.BeginDrag(types.KindDocuments, types.Position{X: 170, Y: 110})
	m.UpdateDrag(types.Position{X: 470, Y: 310})
	m.EndDrag()
	moved, _ := m.Get(types.KindDocuments)

	m.Close(types.KindDocuments)
	m.Open(types.KindDocuments)

	w, _ := m.Get(types.KindDocuments)
	if w.Position != moved.Position {
		t.Errorf("reopen lost position: got %+v want %+v", w.Position, moved.Position)
	}
}

func TestCloseIdempotent(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindPictures)

	if !m.Close(types.KindPictures) {
		t.Error("first close should succeed")
	}
	if m.Close(types.KindPictures) {
		t.Error("second close should be a no-op")
	}
	if m.Close(types.Kind("nothing")) {
		t.Error("closing unknown kind should be a no-op")
	}
}

func TestFocusOrdering(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.Open(types.KindDocuments)
	m.Open(types.KindPictures)

	top, _ := m.Top()
	if top.Kind != types.KindPictures {
		t.Errorf("most recently opened should be top, got %s", top.Kind)
	}

	m.Focus(types.KindSettings)
	top, _ = m.Top()
	if top.Kind != types.KindSettings {
		t.Errorf("focused window should be top, got %s", top.Kind)
	}

	// List returns bottom-to-top.
	list := m.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 open windows, got %d", len(list))
	}
	if list[2].Kind != types.KindSettings {
		t.Errorf("expected settings last, got %s", list[2].Kind)
	}
}

func TestFocusClosedWindowNoop(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.Close(types.KindSettings)

	if m.Focus(types.KindSettings) {
		t.Error("focusing closed window should fail")
	}
	w, _ := m.Get(types.KindSettings)
	if w.IsOpen {
		t.Error("focus must never auto-open")
	}
}

func TestCloseTopPromotesNext(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.Open(types.KindDocuments)
	m.Close(types.KindDocuments)

	top, ok := m.Top()
	if !ok || top.Kind != types.KindSettings {
		t.Errorf("expected settings on top after closing documents, got %+v", top)
	}
}

func TestDragFollowsPointer(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	// Default position 120,80; grab at an interior point.
	if !m.BeginDrag(types.KindSettings, types.Position{X: 150, Y: 100}) {
		t.Fatal("BeginDrag failed")
	}

	m.UpdateDrag(types.Position{X: 350, Y: 300})
	w, _ := m.Get(types.KindSettings)
	// Offset was (30,20), so origin should be pointer minus offset.
	if w.Position != (types.Position{X: 320, Y: 280}) {
		t.Errorf("unexpected position after drag: %+v", w.Position)
	}
}

func TestDragClampsToViewport(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings) // 640x480 at 120,80

	m.BeginDrag(types.KindSettings, types.Position{X: 120, Y: 80})

	// Far beyond the top-left corner.
	m.UpdateDrag(types.Position{X: -5000, Y: -5000})
	w, _ := m.Get(types.KindSettings)
	if w.Position != (types.Position{X: 0, Y: 0}) {
		t.Errorf("expected clamp to origin, got %+v", w.Position)
	}

	// Far beyond the bottom-right corner.
	m.UpdateDrag(types.Position{X: 50000, Y: 50000})
	w, _ = m.Get(types.KindSettings)
	wantX := 1920 - 640
	wantY := 1080 - 480 - 40
	if w.Position != (types.Position{X: wantX, Y: wantY}) {
		t.Errorf("expected clamp to %d,%d, got %+v", wantX, wantY, w.Position)
	}
}

func TestOversizedWindowPinsToOrigin(t *testing.T) {
	r := DefaultRegistry()
	r.Register(Descriptor{
		Kind:        types.Kind("settings"),
		Title:       "Settings",
		DefaultSize: types.Size{Width: 3000, Height: 2000},
	})
	m := NewManager(r, testViewport())
	m.Open(types.KindSettings)

	m.BeginDrag(types.KindSettings, types.Position{X: 0, Y: 0})
	m.UpdateDrag(types.Position{X: 500, Y: 500})

	w, _ := m.Get(types.KindSettings)
	if w.Position != (types.Position{X: 0, Y: 0}) {
		t.Errorf("oversized window should pin to origin, got %+v", w.Position)
	}
}

func TestSingleDragSession(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.Open(types.KindDocuments)

	if !m.BeginDrag(types.KindSettings, types.Position{X: 130, Y: 90}) {
		t.Fatal("first BeginDrag failed")
	}
	if m.BeginDrag(types.KindDocuments, types.Position{X: 170, Y: 110}) {
		t.Error("second BeginDrag should be rejected while one is active")
	}

	m.EndDrag()
	if !m.BeginDrag(types.KindDocuments, types.Position{X: 170, Y: 110}) {
		t.Error("BeginDrag should succeed after EndDrag")
	}
}

func TestBeginDragFocuses(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.Open(types.KindDocuments)

	m.BeginDrag(types.KindSettings, types.Position{X: 130, Y: 90})
	top, _ := m.Top()
	if top.Kind != types.KindSettings {
		t.Errorf("BeginDrag should focus the window, top is %s", top.Kind)
	}
}

func TestUpdateDragWithoutSessionNoop(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)

	before, _ := m.Get(types.KindSettings)
	if m.UpdateDrag(types.Position{X: 900, Y: 500}) {
		t.Error("UpdateDrag without a session should be a no-op")
	}
	after, _ := m.Get(types.KindSettings)
	if before.Position != after.Position {
		t.Error("position changed without an active drag")
	}
}

func TestEndDragIdempotent(t *testing.T) {
	m := newTestManager()
	m.EndDrag()
	m.EndDrag()
	if _, active := m.Drag(); active {
		t.Error("no drag should be active")
	}
}

func TestDragWhileMaximizedInert(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.ToggleMaximize(types.KindSettings)

	if m.BeginDrag(types.KindSettings, types.Position{X: 10, Y: 10}) {
		t.Error("BeginDrag on maximized window should be rejected")
	}
}

func TestMaximizeSelfInverse(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	before, _ := m.Get(types.KindSettings)

	m.ToggleMaximize(types.KindSettings)
	w, _ := m.Get(types.KindSettings)
	if !w.IsMaximized {
		t.Error("window should be maximized")
	}

	m.ToggleMaximize(types.KindSettings)
	w, _ = m.Get(types.KindSettings)
	if w.IsMaximized {
		t.Error("window should be restored")
	}
	if w.Position != before.Position {
		t.Errorf("restore changed position: %+v vs %+v", w.Position, before.Position)
	}
}

func TestMaximizeClosedWindowNoop(t *testing.T) {
	m := newTestManager()
	if m.ToggleMaximize(types.KindSettings) {
		t.Error("maximizing untracked window should fail")
	}
}

func TestMaximizeCancelsOwnDrag(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.BeginDrag(types.KindSettings, types.Position{X: 130, Y: 90})

	m.ToggleMaximize(types.KindSettings)
	if _, active := m.Drag(); active {
		t.Error("maximize should cancel the active drag for the same window")
	}
}

func TestCloseCancelsDrag(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.BeginDrag(types.KindSettings, types.Position{X: 130, Y: 90})

	m.Close(types.KindSettings)
	if _, active := m.Drag(); active {
		t.Error("close should cancel the window's drag")
	}
}

func TestSetViewportReclamps(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings) // 640x480

	m.BeginDrag(types.KindSettings, types.Position{X: 120, Y: 80})
	m.UpdateDrag(types.Position{X: 50000, Y: 50000})
	m.EndDrag()

	m.SetViewport(types.Viewport{Width: 1024, Height: 768, TaskbarHeight: 40})
	w, _ := m.Get(types.KindSettings)
	wantX := 1024 - 640
	wantY := 768 - 480 - 40
	if w.Position != (types.Position{X: wantX, Y: wantY}) {
		t.Errorf("expected re-clamp to %d,%d, got %+v", wantX, wantY, w.Position)
	}
}

func TestStats(t *testing.T) {
	m := newTestManager()
	m.Open(types.KindSettings)
	m.Open(types.KindDocuments)
	m.Close(types.KindSettings)

	stats := m.Stats()
	if stats.TrackedWindows != 2 {
		t.Errorf("expected 2 tracked, got %d", stats.TrackedWindows)
	}
	if stats.OpenWindows != 1 {
		t.Errorf("expected 1 open, got %d", stats.OpenWindows)
	}
	if stats.TopKind == nil || *stats.TopKind != types.KindDocuments {
		t.Errorf("unexpected top kind: %v", stats.TopKind)
	}
}

func TestOpenWithContent(t *testing.T) {
	m := newTestManager()
	m.OpenWith(types.KindImageViewer, map[string]interface{}{"path": "a.png"})
	m.OpenWith(types.KindImageViewer, map[string]interface{}{"path": "b.png"})

	w, _ := m.Get(types.KindImageViewer)
	if w.Content["path"] != "b.png" {
		t.Errorf("content should be swapped, got %v", w.Content)
	}
	if len(m.List()) != 1 {
		t.Error("viewer must stay single-instance")
	}

	// Re-open without content keeps the last content.
	m.Open(types.KindImageViewer)
	w, _ = m.Get(types.KindImageViewer)
	if w.Content["path"] != "b.png" {
		t.Error("plain open should not clear content")
	}
}
