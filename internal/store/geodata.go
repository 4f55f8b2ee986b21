package store

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tobilg/maptile-engine/internal/geo"
	"github.com/tobilg/maptile-engine/internal/index"
)

// ErrDanglingReference is returned by NewGeodata when a way or relation
// references a node/way id outside the bounds of the feature arrays it was
// built from.
var ErrDanglingReference = errors.New("store: dangling reference")

// Geodata is the immutable, in-memory feature store: three parallel arrays
// (nodes, ways, relations) plus the spatial indices built over them. Once
// constructed it is read-only and safe for concurrent use by any number of
// render jobs.
type Geodata struct {
	Nodes     []Node
	Ways      []Way
	Relations []Relation

	wayBounds []geo.FixedRect
	relBounds []geo.FixedRect

	pointIndex *index.PointIndex
	wayIndex   *index.RectIndex
	relIndex   *index.RectIndex
}

// NewGeodata validates nodes/ways/relations for dangling references,
// classifies way connectivity, derives way/relation bounding boxes, and
// builds the point and rectangle indices. Construction is a pure,
// order-deterministic function of its input — required for the persistence
// round-trip, which rebuilds indices from saved feature arrays rather than
// serializing the tree graphs.
func NewGeodata(nodes []Node, ways []Way, relations []Relation) (*Geodata, error) {
	if err := validateReferences(nodes, ways, relations); err != nil {
		return nil, err
	}

	classifyWayTypes(nodes, ways)

	g := &Geodata{
		Nodes:     nodes,
		Ways:      ways,
		Relations: relations,
	}

	g.wayBounds = make([]geo.FixedRect, len(ways))
	for i := range ways {
		g.wayBounds[i] = g.calculateWayBoundingBox(&ways[i])
	}

	g.relBounds = make([]geo.FixedRect, len(relations))
	for i := range relations {
		g.relBounds[i] = g.calculateRelationBoundingBox(&relations[i])
	}

	points := make([]geo.FixedPoint, len(nodes))
	for i, n := range nodes {
		points[i] = n.Location
	}

	log.WithFields(log.Fields{
		"nodes":     len(nodes),
		"ways":      len(ways),
		"relations": len(relations),
	}).Info("store: building geodata indices")

	g.pointIndex = index.BuildPointIndex(points)
	g.wayIndex = index.BuildRectIndex(g.wayBounds)
	g.relIndex = index.BuildRectIndex(g.relBounds)

	return g, nil
}

func validateReferences(nodes []Node, ways []Way, relations []Relation) error {
	nodeCount := len(nodes)
	wayCount := len(ways)

	for i, w := range ways {
		for _, nid := range w.NodeIDs {
			if nid.Raw() < 0 || int(nid.Raw()) >= nodeCount {
				return fmt.Errorf("store: way %d references node %d out of %d: %w", i, nid, nodeCount, ErrDanglingReference)
			}
		}
	}

	for i, r := range relations {
		for _, nid := range r.NodeIDs {
			if nid.Raw() < 0 || int(nid.Raw()) >= nodeCount {
				return fmt.Errorf("store: relation %d references node %d out of %d: %w", i, nid, nodeCount, ErrDanglingReference)
			}
		}
		for _, wid := range r.WayIDs {
			if wid.Raw() < 0 || int(wid.Raw()) >= wayCount {
				return fmt.Errorf("store: relation %d references way %d out of %d: %w", i, wid, wayCount, ErrDanglingReference)
			}
		}
	}

	return nil
}

// classifyWayTypes assigns each way's WayType from the shared-endpoint
// network, not just its own node list: a way is connected at an end if
// that endpoint node is also an endpoint of some other (non-closed) way.
// Closed ways (first node == last node) are classified Closed regardless
// of network connectivity and do not themselves contribute endpoints.
func classifyWayTypes(nodes []Node, ways []Way) {
	endpointRefs := make(map[NodeId]int)
	for i := range ways {
		w := &ways[i]
		if len(w.NodeIDs) == 0 || w.IsClosed() {
			continue
		}
		endpointRefs[w.NodeIDs[0]]++
		endpointRefs[w.NodeIDs[len(w.NodeIDs)-1]]++
	}

	for i := range ways {
		w := &ways[i]
		if len(w.NodeIDs) == 0 {
			w.Type = Unconnected
			continue
		}
		if w.IsClosed() {
			w.Type = Closed
			continue
		}

		start := w.NodeIDs[0]
		end := w.NodeIDs[len(w.NodeIDs)-1]
		startShared := endpointRefs[start] > 1
		endShared := endpointRefs[end] > 1

		switch {
		case startShared && endShared:
			w.Type = ConnectedBoth
		case startShared:
			w.Type = ConnectedStart
		case endShared:
			w.Type = ConnectedEnd
		default:
			w.Type = Unconnected
		}
	}
}

// calculateWayBoundingBox encloses every node location a way visits. A way
// with no nodes yields the empty-rect sentinel (geo.FixedRect{}), never a
// panic — callers must check IsEmpty before using the result.
func (g *Geodata) calculateWayBoundingBox(w *Way) geo.FixedRect {
	if len(w.NodeIDs) == 0 {
		return geo.FixedRect{}
	}
	first := g.Nodes[w.NodeIDs[0]].Location
	bbox := geo.NewFixedRect(first.X, first.Y, first.X, first.Y)
	for _, nid := range w.NodeIDs[1:] {
		bbox.EnclosePoint(g.Nodes[nid].Location)
	}
	return bbox
}

// calculateRelationBoundingBox encloses every directly-referenced node
// location plus the (already computed) bounding box of every referenced
// way, skipping any way whose own box is empty. A relation with no
// resolvable geometry at all yields the empty-rect sentinel.
func (g *Geodata) calculateRelationBoundingBox(r *Relation) geo.FixedRect {
	var bbox geo.FixedRect
	haveBox := false

	for _, nid := range r.NodeIDs {
		p := g.Nodes[nid].Location
		if !haveBox {
			bbox = geo.NewFixedRect(p.X, p.Y, p.X, p.Y)
			haveBox = true
			continue
		}
		bbox.EnclosePoint(p)
	}

	for _, wid := range r.WayIDs {
		wb := g.wayBounds[wid]
		if wb.IsEmpty() {
			continue
		}
		if !haveBox {
			bbox = wb
			haveBox = true
			continue
		}
		bbox.Enclose(wb)
	}

	if !haveBox {
		return geo.FixedRect{}
	}
	return bbox
}

// GetNode returns the node at id, or false if id is out of range.
func (g *Geodata) GetNode(id NodeId) (*Node, bool) {
	if id.Raw() < 0 || int(id.Raw()) >= len(g.Nodes) {
		return nil, false
	}
	return &g.Nodes[id], true
}

// GetWay returns the way at id, or false if id is out of range.
func (g *Geodata) GetWay(id WayId) (*Way, bool) {
	if id.Raw() < 0 || int(id.Raw()) >= len(g.Ways) {
		return nil, false
	}
	return &g.Ways[id], true
}

// GetRelation returns the relation at id, or false if id is out of range.
func (g *Geodata) GetRelation(id RelId) (*Relation, bool) {
	if id.Raw() < 0 || int(id.Raw()) >= len(g.Relations) {
		return nil, false
	}
	return &g.Relations[id], true
}

// WayBounds returns the precomputed bounding box for way id.
func (g *Geodata) WayBounds(id WayId) geo.FixedRect { return g.wayBounds[id] }

// RelationBounds returns the precomputed bounding box for relation id.
func (g *Geodata) RelationBounds(id RelId) geo.FixedRect { return g.relBounds[id] }

// NodeIDsInRect returns every node id whose location lies within rect.
func (g *Geodata) NodeIDsInRect(rect geo.FixedRect) []NodeId {
	raw := g.pointIndex.Search(rect)
	out := make([]NodeId, len(raw))
	for i, id := range raw {
		out[i] = NodeId(id)
	}
	return out
}

// WayIDsInRect returns every way id whose bounding box intersects rect.
func (g *Geodata) WayIDsInRect(rect geo.FixedRect) []WayId {
	raw := g.wayIndex.Search(rect)
	out := make([]WayId, len(raw))
	for i, id := range raw {
		out[i] = WayId(id)
	}
	return out
}

// RelationIDsInRect returns every relation id whose bounding box
// intersects rect.
func (g *Geodata) RelationIDsInRect(rect geo.FixedRect) []RelId {
	raw := g.relIndex.Search(rect)
	out := make([]RelId, len(raw))
	for i, id := range raw {
		out[i] = RelId(id)
	}
	return out
}

// ContainsData reports whether rect contains any node, or intersects any
// way/relation bounding box — used to short-circuit tile rendering for
// empty tiles before running the full rule cascade.
func (g *Geodata) ContainsData(rect geo.FixedRect) bool {
	if g.pointIndex.Contains(rect) {
		return true
	}
	if len(g.wayIndex.Search(rect)) > 0 {
		return true
	}
	if len(g.relIndex.Search(rect)) > 0 {
		return true
	}
	return false
}
