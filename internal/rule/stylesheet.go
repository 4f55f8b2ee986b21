package rule

import (
	"github.com/tobilg/maptile-engine/internal/cache"
	"github.com/tobilg/maptile-engine/internal/store"
	"github.com/tobilg/maptile-engine/internal/style"
	"github.com/tobilg/maptile-engine/internal/tileid"
)

// Stylesheet is an ordered list of rules plus an optional canvas template
// and the on-disk directory asset paths resolve relative to. It is
// immutable after construction; concurrent render jobs may share one
// Stylesheet without synchronization.
//
// Known, deliberately preserved quirks from the source engine (see
// DESIGN.md "Open Questions resolved"):
//   - has-not-tag forwards only on strict tag absence, not the broader
//     "unset or no/false" semantics its prose once suggested.
//   - tag-unequals never forwards when the tag is absent.
type Stylesheet struct {
	Rules  []*Rule
	Canvas *style.StyleTemplate
	Dir    string
}

// Apply runs every rule over the candidate id-vectors in declaration
// order, finishes every resulting style, and — if a canvas template is
// set — overmerges and finishes a canvas style too.
func (s *Stylesheet) Apply(g *store.Geodata, nodeIDs []store.NodeId, wayIDs []store.WayId, relIDs []store.RelId, tile tileid.TileID, assets *cache.AssetCache) *style.RenderAttributes {
	attrs := style.NewRenderAttributes()

	for _, r := range s.Rules {
		r.Match(g, nodeIDs, wayIDs, relIDs, tile, attrs)
	}

	for id, st := range attrs.Nodes {
		if node, ok := g.GetNode(id); ok {
			st.Finish(node.Tags, true, s.Dir, assets)
		}
	}
	for id, st := range attrs.Ways {
		if way, ok := g.GetWay(id); ok {
			st.Finish(way.Tags, true, s.Dir, assets)
		}
	}
	for id, st := range attrs.Relations {
		if rel, ok := g.GetRelation(id); ok {
			st.Finish(rel.Tags, true, s.Dir, assets)
		}
	}

	if s.Canvas != nil {
		canvas := attrs.EnsureCanvas()
		canvas.Overmerge(s.Canvas, nil)
		canvas.Finish(nil, false, s.Dir, assets)
	}

	return attrs
}
