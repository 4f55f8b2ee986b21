// Package persist saves and loads a store.Geodata as a single binary
// artifact: a small magic+version header followed by a gob-encoded archive
// of the three feature arrays. Indices are never serialized directly —
// store.NewGeodata rebuilds them deterministically from the decoded arrays,
// so the round trip is exact without mirroring a pointer-graph on disk. Tag
// and role maps are framed as key-sorted slices rather than gob-encoded
// maps: gob iterates Go maps in randomized order, which would otherwise
// make two Save calls over an identical store emit different bytes.
package persist

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/tobilg/maptile-engine/internal/geo"
	"github.com/tobilg/maptile-engine/internal/store"
)

const (
	magic         = "MTES"
	formatVersion uint32 = 1
)

// ErrCorruptStore is returned when the artifact's magic bytes don't match
// or the gob stream can't be decoded.
var ErrCorruptStore = errors.New("persist: corrupt store")

// ErrIncompatibleStore is returned when the artifact's version header
// doesn't match the version this build of persist knows how to read.
var ErrIncompatibleStore = errors.New("persist: incompatible store version")

// tagKV is one tag's key/value pair, framed in sorted-by-key order so a
// gob-encoded tag map never depends on Go's randomized map iteration.
type tagKV struct {
	Key, Value string
}

// nodeRoleKV is one relation member node's role, framed in sorted-by-id
// order for the same reason tagKV is.
type nodeRoleKV struct {
	ID   store.NodeId
	Role string
}

// wayRoleKV is one relation member way's role, framed in sorted-by-id
// order for the same reason tagKV is.
type wayRoleKV struct {
	ID   store.WayId
	Role string
}

func toTagKVs(tags map[string]string) []tagKV {
	if len(tags) == 0 {
		return nil
	}
	kvs := make([]tagKV, 0, len(tags))
	for k, v := range tags {
		kvs = append(kvs, tagKV{Key: k, Value: v})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return kvs
}

func fromTagKVs(kvs []tagKV) map[string]string {
	if len(kvs) == 0 {
		return nil
	}
	tags := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		tags[kv.Key] = kv.Value
	}
	return tags
}

func toNodeRoleKVs(roles map[store.NodeId]string) []nodeRoleKV {
	if len(roles) == 0 {
		return nil
	}
	kvs := make([]nodeRoleKV, 0, len(roles))
	for id, role := range roles {
		kvs = append(kvs, nodeRoleKV{ID: id, Role: role})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].ID < kvs[j].ID })
	return kvs
}

func fromNodeRoleKVs(kvs []nodeRoleKV) map[store.NodeId]string {
	if len(kvs) == 0 {
		return nil
	}
	roles := make(map[store.NodeId]string, len(kvs))
	for _, kv := range kvs {
		roles[kv.ID] = kv.Role
	}
	return roles
}

func toWayRoleKVs(roles map[store.WayId]string) []wayRoleKV {
	if len(roles) == 0 {
		return nil
	}
	kvs := make([]wayRoleKV, 0, len(roles))
	for id, role := range roles {
		kvs = append(kvs, wayRoleKV{ID: id, Role: role})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].ID < kvs[j].ID })
	return kvs
}

func fromWayRoleKVs(kvs []wayRoleKV) map[store.WayId]string {
	if len(kvs) == 0 {
		return nil
	}
	roles := make(map[store.WayId]string, len(kvs))
	for _, kv := range kvs {
		roles[kv.ID] = kv.Role
	}
	return roles
}

// wireNode/wireWay/wireRelation mirror store.Node/Way/Relation with their
// tag and role maps replaced by sorted slices, for bit-stable encoding.
type wireNode struct {
	Location geo.FixedPoint
	Tags     []tagKV
}

type wireWay struct {
	NodeIDs []store.NodeId
	Tags    []tagKV
	Type    store.WayType
}

type wireRelation struct {
	NodeIDs   []store.NodeId
	WayIDs    []store.WayId
	NodeRoles []nodeRoleKV
	WayRoles  []wayRoleKV
	Tags      []tagKV
}

func toWireNode(n store.Node) wireNode {
	return wireNode{Location: n.Location, Tags: toTagKVs(n.Tags)}
}

func fromWireNode(n wireNode) store.Node {
	return store.Node{Location: n.Location, Tags: fromTagKVs(n.Tags)}
}

func toWireWay(w store.Way) wireWay {
	return wireWay{NodeIDs: w.NodeIDs, Tags: toTagKVs(w.Tags), Type: w.Type}
}

func fromWireWay(w wireWay) store.Way {
	return store.Way{NodeIDs: w.NodeIDs, Tags: fromTagKVs(w.Tags), Type: w.Type}
}

func toWireRelation(r store.Relation) wireRelation {
	return wireRelation{
		NodeIDs:   r.NodeIDs,
		WayIDs:    r.WayIDs,
		NodeRoles: toNodeRoleKVs(r.NodeRoles),
		WayRoles:  toWayRoleKVs(r.WayRoles),
		Tags:      toTagKVs(r.Tags),
	}
}

func fromWireRelation(r wireRelation) store.Relation {
	return store.Relation{
		NodeIDs:   r.NodeIDs,
		WayIDs:    r.WayIDs,
		NodeRoles: fromNodeRoleKVs(r.NodeRoles),
		WayRoles:  fromWayRoleKVs(r.WayRoles),
		Tags:      fromTagKVs(r.Tags),
	}
}

type archive struct {
	Nodes     []wireNode
	Ways      []wireWay
	Relations []wireRelation
}

// Save writes g's feature arrays to w, magic+version framed.
func Save(w io.Writer, g *store.Geodata) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(magic); err != nil {
		return fmt.Errorf("persist: writing magic: %w", err)
	}
	if err := binary.Write(bw, binary.BigEndian, formatVersion); err != nil {
		return fmt.Errorf("persist: writing version: %w", err)
	}

	a := archive{
		Nodes:     make([]wireNode, len(g.Nodes)),
		Ways:      make([]wireWay, len(g.Ways)),
		Relations: make([]wireRelation, len(g.Relations)),
	}
	for i, n := range g.Nodes {
		a.Nodes[i] = toWireNode(n)
	}
	for i, w := range g.Ways {
		a.Ways[i] = toWireWay(w)
	}
	for i, r := range g.Relations {
		a.Relations[i] = toWireRelation(r)
	}

	if err := gob.NewEncoder(bw).Encode(&a); err != nil {
		return fmt.Errorf("persist: encoding archive: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("persist: flushing: %w", err)
	}

	log.WithFields(log.Fields{
		"nodes":     len(a.Nodes),
		"ways":      len(a.Ways),
		"relations": len(a.Relations),
	}).Info("persist: store saved")
	return nil
}

// Load reads an artifact written by Save and rebuilds a store.Geodata from
// it. A load of a just-saved store searches identically to the store that
// produced it, since index construction is a pure function of the feature
// arrays.
func Load(r io.Reader) (*store.Geodata, error) {
	br := bufio.NewReader(r)

	gotMagic := make([]byte, len(magic))
	if _, err := io.ReadFull(br, gotMagic); err != nil {
		return nil, fmt.Errorf("persist: reading magic: %w", ErrCorruptStore)
	}
	if string(gotMagic) != magic {
		return nil, fmt.Errorf("persist: magic %q: %w", gotMagic, ErrCorruptStore)
	}

	var version uint32
	if err := binary.Read(br, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("persist: reading version: %w", ErrCorruptStore)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("persist: version %d, want %d: %w", version, formatVersion, ErrIncompatibleStore)
	}

	var a archive
	if err := gob.NewDecoder(br).Decode(&a); err != nil {
		return nil, fmt.Errorf("persist: decoding archive: %w", ErrCorruptStore)
	}

	nodes := make([]store.Node, len(a.Nodes))
	for i, n := range a.Nodes {
		nodes[i] = fromWireNode(n)
	}
	ways := make([]store.Way, len(a.Ways))
	for i, w := range a.Ways {
		ways[i] = fromWireWay(w)
	}
	relations := make([]store.Relation, len(a.Relations))
	for i, r := range a.Relations {
		relations[i] = fromWireRelation(r)
	}

	g, err := store.NewGeodata(nodes, ways, relations)
	if err != nil {
		return nil, fmt.Errorf("persist: rebuilding indices: %w", err)
	}

	log.WithFields(log.Fields{
		"nodes":     len(a.Nodes),
		"ways":      len(a.Ways),
		"relations": len(a.Relations),
	}).Info("persist: store loaded")
	return g, nil
}

// SaveFile creates (or truncates) path and calls Save against it.
func SaveFile(path string, g *store.Geodata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: creating %s: %w", path, err)
	}
	defer f.Close()
	return Save(f, g)
}

// LoadFile opens path and calls Load against it.
func LoadFile(path string) (*store.Geodata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
