package window

import (
	"sync"

	"github.com/batcaveos/backend/internal/shared/types"
)

// Descriptor defines the static properties of one window kind: its
// label, icon, and first-open placement.
type Descriptor struct {
	Kind            types.Kind `json:"kind"`
	Title           string     `json:"title"`
	Icon            string     `json:"icon"`
	DefaultPosition types.Position
	DefaultSize     types.Size
}

// Registry maps window kinds to their descriptors.
type Registry struct {
	mu    sync.RWMutex
	kinds map[types.Kind]Descriptor
	order []types.Kind
}

// NewRegistry creates an empty kind registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[types.Kind]Descriptor)}
}

// DefaultRegistry returns the registry seeded with the built-in
// application kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range builtinKinds {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a descriptor.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[d.Kind]; !exists {
		r.order = append(r.order, d.Kind)
	}
	r.kinds[d.Kind] = d
}

// Get retrieves a descriptor by kind.
func (r *Registry) Get(kind types.Kind) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.kinds[kind]
	return d, ok
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.kinds[k])
	}
	return out
}

var builtinKinds = []Descriptor{
	{Kind: types.KindSettings, Title: "Settings", Icon: "⚙️", DefaultPosition: types.Position{X: 120, Y: 80}, DefaultSize: types.Size{Width: 640, Height: 480}},
	{Kind: types.KindDocuments, Title: "Documents", Icon: "📄", DefaultPosition: types.Position{X: 160, Y: 100}, DefaultSize: types.Size{Width: 720, Height: 520}},
	{Kind: types.KindPictures, Title: "Pictures", Icon: "🖼️", DefaultPosition: types.Position{X: 200, Y: 120}, DefaultSize: types.Size{Width: 800, Height: 560}},
	{Kind: types.KindMusic, Title: "Music Player", Icon: "🎵", DefaultPosition: types.Position{X: 240, Y: 140}, DefaultSize: types.Size{Width: 420, Height: 600}},
	{Kind: types.KindDirectory, Title: "Directory", Icon: "📁", DefaultPosition: types.Position{X: 280, Y: 160}, DefaultSize: types.Size{Width: 720, Height: 520}},
	{Kind: types.KindProfiles, Title: "Profiles", Icon: "👥", DefaultPosition: types.Position{X: 320, Y: 180}, DefaultSize: types.Size{Width: 640, Height: 520}},
	{Kind: types.KindTextViewer, Title: "Text Viewer", Icon: "📝", DefaultPosition: types.Position{X: 360, Y: 200}, DefaultSize: types.Size{Width: 560, Height: 440}},
	{Kind: types.KindImageViewer, Title: "Image Viewer", Icon: "🌄", DefaultPosition: types.Position{X: 400, Y: 220}, DefaultSize: types.Size{Width: 800, Height: 600}},
	{Kind: types.KindVideoViewer, Title: "Video Viewer", Icon: "🎬", DefaultPosition: types.Position{X: 440, Y: 240}, DefaultSize: types.Size{Width: 800, Height: 600}},
	{Kind: types.KindAdmin, Title: "Admin", Icon: "🔧", DefaultPosition: types.Position{X: 100, Y: 60}, DefaultSize: types.Size{Width: 640, Height: 480}},
}
