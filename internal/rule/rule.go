package rule

import (
	"github.com/tobilg/maptile-engine/internal/store"
	"github.com/tobilg/maptile-engine/internal/style"
	"github.com/tobilg/maptile-engine/internal/tileid"
)

// AcceptedKinds is a bitset over the three feature kinds a rule fans out
// over.
type AcceptedKinds uint8

const (
	AcceptsNode AcceptedKinds = 1 << iota
	AcceptsWay
	AcceptsRelation
)

// Has reports whether k includes x.
func (k AcceptedKinds) Has(x AcceptedKinds) bool { return k&x != 0 }

// Rule bundles a zoom interval, an accepted-kind bitset, the head of a
// selector chain, and the StyleTemplate that chain's apply-selector
// overmerges into matched features.
type Rule struct {
	ZoomBottom, ZoomTop int
	Kinds               AcceptedKinds
	Head                *Selector
	Template             *style.StyleTemplate
}

// Match runs the rule against one tile's candidate id-vectors. Outside the
// rule's zoom interval it is a no-op; otherwise it invokes the selector
// chain head once per id in every accepted kind's vector, in vector
// order.
func (r *Rule) Match(g *store.Geodata, nodeIDs []store.NodeId, wayIDs []store.WayId, relIDs []store.RelId, tile tileid.TileID, attrs *style.RenderAttributes) {
	if tile.Z < r.ZoomBottom || tile.Z > r.ZoomTop {
		return
	}

	if r.Kinds.Has(AcceptsNode) {
		for _, id := range nodeIDs {
			r.Head.MatchNode(g, id, tile, attrs)
		}
	}
	if r.Kinds.Has(AcceptsWay) {
		for _, id := range wayIDs {
			r.Head.MatchWay(g, id, tile, attrs)
		}
	}
	if r.Kinds.Has(AcceptsRelation) {
		for _, id := range relIDs {
			r.Head.MatchRelation(g, id, tile, attrs)
		}
	}
}
