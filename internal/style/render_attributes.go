package style

import "github.com/tobilg/maptile-engine/internal/store"

// RenderAttributes accumulates the per-feature styles a stylesheet cascade
// produces for one tile's candidate set: three maps, one per feature kind,
// plus a canvas style. Each feature gets at most one Style, shared across
// every rule that targets it. It is owned by a single render job and never
// shared across goroutines.
type RenderAttributes struct {
	Nodes     map[store.NodeId]*Style
	Ways      map[store.WayId]*Style
	Relations map[store.RelId]*Style
	Canvas    *Style
}

// NewRenderAttributes returns an empty RenderAttributes with no canvas
// style set.
func NewRenderAttributes() *RenderAttributes {
	return &RenderAttributes{
		Nodes:     make(map[store.NodeId]*Style),
		Ways:      make(map[store.WayId]*Style),
		Relations: make(map[store.RelId]*Style),
	}
}

// EnsureNode returns the Style entry for id, creating a default-
// initialized one if absent.
func (a *RenderAttributes) EnsureNode(id store.NodeId) *Style {
	if s, ok := a.Nodes[id]; ok {
		return s
	}
	s := New()
	a.Nodes[id] = s
	return s
}

// EnsureWay returns the Style entry for id, creating a default-
// initialized one if absent.
func (a *RenderAttributes) EnsureWay(id store.WayId) *Style {
	if s, ok := a.Ways[id]; ok {
		return s
	}
	s := New()
	a.Ways[id] = s
	return s
}

// EnsureRelation returns the Style entry for id, creating a default-
// initialized one if absent.
func (a *RenderAttributes) EnsureRelation(id store.RelId) *Style {
	if s, ok := a.Relations[id]; ok {
		return s
	}
	s := New()
	a.Relations[id] = s
	return s
}

// EnsureCanvas returns the canvas Style, creating a default-initialized
// one if absent.
func (a *RenderAttributes) EnsureCanvas() *Style {
	if a.Canvas == nil {
		a.Canvas = New()
	}
	return a.Canvas
}
