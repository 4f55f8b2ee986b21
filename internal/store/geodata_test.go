package store

import (
	"errors"
	"testing"

	"github.com/tobilg/maptile-engine/internal/geo"
)

func pt(x, y int64) geo.FixedPoint { return geo.FixedPoint{X: x, Y: y} }

func TestNewGeodataDanglingNodeReferenceInWay(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}}
	ways := []Way{{NodeIDs: []NodeId{0, 5}}}
	_, err := NewGeodata(nodes, ways, nil)
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected ErrDanglingReference, got %v", err)
	}
}

func TestNewGeodataDanglingWayReferenceInRelation(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}}
	relations := []Relation{{WayIDs: []WayId{3}}}
	_, err := NewGeodata(nodes, nil, relations)
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expected ErrDanglingReference, got %v", err)
	}
}

func TestWayTypeClosed(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}, {Location: pt(1, 0)}, {Location: pt(1, 1)}}
	ways := []Way{{NodeIDs: []NodeId{0, 1, 2, 0}}}
	g, err := NewGeodata(nodes, ways, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Ways[0].Type != Closed {
		t.Errorf("Type = %v, want Closed", g.Ways[0].Type)
	}
}

func TestWayTypeConnectedAcrossSharedEndpoints(t *testing.T) {
	// Two ways sharing node 1 as an endpoint: way A ends at 1, way B starts
	// at 1. Neither way is closed, so both should show connectivity at the
	// shared node.
	nodes := []Node{{Location: pt(0, 0)}, {Location: pt(1, 0)}, {Location: pt(2, 0)}, {Location: pt(3, 0)}}
	ways := []Way{
		{NodeIDs: []NodeId{0, 1}},
		{NodeIDs: []NodeId{1, 2, 3}},
	}
	g, err := NewGeodata(nodes, ways, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Ways[0].Type != ConnectedEnd {
		t.Errorf("way 0 Type = %v, want ConnectedEnd", g.Ways[0].Type)
	}
	if g.Ways[1].Type != ConnectedStart {
		t.Errorf("way 1 Type = %v, want ConnectedStart", g.Ways[1].Type)
	}
}

func TestWayTypeUnconnectedWhenIsolated(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}, {Location: pt(1, 0)}}
	ways := []Way{{NodeIDs: []NodeId{0, 1}}}
	g, err := NewGeodata(nodes, ways, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Ways[0].Type != Unconnected {
		t.Errorf("Type = %v, want Unconnected", g.Ways[0].Type)
	}
}

func TestWayTypeConnectedBoth(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}, {Location: pt(1, 0)}, {Location: pt(2, 0)}}
	ways := []Way{
		{NodeIDs: []NodeId{0, 1}}, // shares node 0 with way 2, node 1 with way 1
		{NodeIDs: []NodeId{1, 2}},
		{NodeIDs: []NodeId{0, 2}},
	}
	g, err := NewGeodata(nodes, ways, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Ways[0].Type != ConnectedBoth {
		t.Errorf("way 0 Type = %v, want ConnectedBoth", g.Ways[0].Type)
	}
}

func TestWayBoundingBoxEnclosesNodes(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}, {Location: pt(5, 5)}, {Location: pt(-2, 3)}}
	ways := []Way{{NodeIDs: []NodeId{0, 1, 2}}}
	g, err := NewGeodata(nodes, ways, nil)
	if err != nil {
		t.Fatal(err)
	}
	bbox := g.WayBounds(0)
	want := geo.NewFixedRect(-2, 0, 5, 5)
	if bbox != want {
		t.Errorf("WayBounds = %+v, want %+v", bbox, want)
	}
}

func TestWayBoundingBoxEmptyForNoNodes(t *testing.T) {
	ways := []Way{{}}
	g, err := NewGeodata(nil, ways, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.WayBounds(0).IsEmpty() {
		t.Error("expected empty-rect sentinel for a way with no nodes")
	}
}

func TestRelationBoundingBoxEnclosesNodesAndWays(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}, {Location: pt(10, 10)}, {Location: pt(-5, -5)}}
	ways := []Way{{NodeIDs: []NodeId{0, 1}}}
	relations := []Relation{{NodeIDs: []NodeId{2}, WayIDs: []WayId{0}}}
	g, err := NewGeodata(nodes, ways, relations)
	if err != nil {
		t.Fatal(err)
	}
	bbox := g.RelationBounds(0)
	want := geo.NewFixedRect(-5, -5, 10, 10)
	if bbox != want {
		t.Errorf("RelationBounds = %+v, want %+v", bbox, want)
	}
}

func TestRelationBoundingBoxEmptyWhenNothingResolves(t *testing.T) {
	relations := []Relation{{}}
	g, err := NewGeodata(nil, nil, relations)
	if err != nil {
		t.Fatal(err)
	}
	if !g.RelationBounds(0).IsEmpty() {
		t.Error("expected empty-rect sentinel for a relation with no geometry")
	}
}

func TestNodeIDsInRectMatchesLocation(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}, {Location: pt(100, 100)}, {Location: pt(5, 5)}}
	g, err := NewGeodata(nodes, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ids := g.NodeIDsInRect(geo.NewFixedRect(0, 0, 10, 10))
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2 (ids=%v)", len(ids), ids)
	}
}

func TestContainsDataTrueAndFalse(t *testing.T) {
	nodes := []Node{{Location: pt(0, 0)}}
	g, err := NewGeodata(nodes, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !g.ContainsData(geo.NewFixedRect(-1, -1, 1, 1)) {
		t.Error("expected ContainsData true for rect enclosing the only node")
	}
	if g.ContainsData(geo.NewFixedRect(100, 100, 200, 200)) {
		t.Error("expected ContainsData false for a rect with no data")
	}
}

func TestGetNodeWayRelationOutOfRange(t *testing.T) {
	g, err := NewGeodata(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g.GetNode(0); ok {
		t.Error("expected GetNode(0) to fail on empty store")
	}
	if _, ok := g.GetWay(0); ok {
		t.Error("expected GetWay(0) to fail on empty store")
	}
	if _, ok := g.GetRelation(0); ok {
		t.Error("expected GetRelation(0) to fail on empty store")
	}
}
