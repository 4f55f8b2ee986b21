// Package store holds the three parallel feature arrays (nodes, ways,
// relations) that make up the geodata index's feature store, plus the
// bounding-box oracle used to derive AABBs for ways and relations.
package store

// NodeId indexes into a Geodata's node array. It is not interconvertible
// with WayId or RelId without an explicit cast.
type NodeId int32

// WayId indexes into a Geodata's way array.
type WayId int32

// RelId indexes into a Geodata's relation array.
type RelId int32

// Raw returns the underlying integer index.
func (id NodeId) Raw() int32 { return int32(id) }

// Raw returns the underlying integer index.
func (id WayId) Raw() int32 { return int32(id) }

// Raw returns the underlying integer index.
func (id RelId) Raw() int32 { return int32(id) }
