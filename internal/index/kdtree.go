// Package index implements the two static spatial indices the geodata store
// range-queries against: a kd-tree over point locations (for nodes) and an
// R-tree over axis-aligned bounding boxes (for ways and relations). Both are
// arena-addressed (a single node slice, int32 child indices) and built/
// searched with an explicit worklist rather than recursion, per the
// iterative-traversal discipline the source engine adopted after the
// recursive versions overflowed on real-world OSM extracts.
package index

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/tobilg/maptile-engine/internal/geo"
)

// PointLeafCapacity is the kd-tree's compile-time leaf size. A node
// partition of this size or smaller becomes a leaf rather than splitting
// further.
const PointLeafCapacity = 1024

type kdNode struct {
	ids        []int32
	splitValue int64
	left       int32 // -1 if absent
	right      int32 // -1 if absent
}

// PointIndex is a static, balanced kd-tree over a fixed set of points,
// indexed positionally: point i is identified by the int32 id i.
type PointIndex struct {
	points []geo.FixedPoint
	nodes  []kdNode
	bounds geo.FixedRect
}

// BuildPointIndex builds a kd-tree over points, where the id of points[i]
// is int32(i). Build is a pure, order-deterministic function of points: two
// builds over identical input produce structurally identical trees, which
// the persistence round-trip depends on.
func BuildPointIndex(points []geo.FixedPoint) *PointIndex {
	ids := make([]int32, len(points))
	for i := range points {
		ids[i] = int32(i)
	}

	pi := &PointIndex{points: points}
	if len(points) == 0 {
		return pi
	}

	bounds := geo.NewFixedRect(points[0].X, points[0].Y, points[0].X, points[0].Y)
	for _, p := range points[1:] {
		bounds.EnclosePoint(p)
	}
	pi.bounds = bounds

	log.Debugf("index: building point index over %d nodes", len(points))
	pi.nodes = buildKDNodes(points, ids)
	return pi
}

type kdBuildTask struct {
	nodeIdx int32
	ids     []int32
	depth   int
}

func buildKDNodes(points []geo.FixedPoint, ids []int32) []kdNode {
	nodes := make([]kdNode, 1)
	tasks := []kdBuildTask{{nodeIdx: 0, ids: ids, depth: 0}}

	for len(tasks) > 0 {
		task := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]

		if len(task.ids) <= PointLeafCapacity {
			nodes[task.nodeIdx] = kdNode{
				ids:   append([]int32(nil), task.ids...),
				left:  -1,
				right: -1,
			}
			continue
		}

		axis := task.depth % 2
		median, left, right := partitionByAxis(points, task.ids, axis)

		leftIdx, rightIdx := int32(-1), int32(-1)
		if len(left) > 0 {
			nodes = append(nodes, kdNode{})
			leftIdx = int32(len(nodes) - 1)
			tasks = append(tasks, kdBuildTask{nodeIdx: leftIdx, ids: left, depth: task.depth + 1})
		}
		if len(right) > 0 {
			nodes = append(nodes, kdNode{})
			rightIdx = int32(len(nodes) - 1)
			tasks = append(tasks, kdBuildTask{nodeIdx: rightIdx, ids: right, depth: task.depth + 1})
		}

		nodes[task.nodeIdx] = kdNode{splitValue: median, left: leftIdx, right: rightIdx}
	}

	return nodes
}

// partitionByAxis splits ids into the <= median and > median partitions on
// the given axis (0 = x, 1 = y), selecting the median via quickselect
// (expected O(n), never a full sort).
func partitionByAxis(points []geo.FixedPoint, ids []int32, axis int) (median int64, left, right []int32) {
	coord := func(id int32) int64 {
		if axis == 0 {
			return points[id].X
		}
		return points[id].Y
	}

	work := append([]int32(nil), ids...)
	k := len(work) / 2
	median = quickselect(work, k, coord)

	left = make([]int32, 0, len(ids))
	right = make([]int32, 0, len(ids))
	for _, id := range ids {
		if coord(id) <= median {
			left = append(left, id)
		} else {
			right = append(right, id)
		}
	}

	// A degenerate distribution (many points sharing the median value) can
	// leave every id on the left partition. Fall back to keeping the ids
	// below the median on the left and dividing the ids equal to the median
	// between both sides, so build always terminates and every id still lies
	// inside the child rect splitRect derives from median.
	if len(right) == 0 && len(ids) > 1 {
		half := len(ids) / 2
		left = left[:0]
		for _, id := range ids {
			if coord(id) < median {
				left = append(left, id)
			}
		}
		for _, id := range ids {
			if coord(id) == median && len(left) < half {
				left = append(left, id)
			} else if coord(id) == median {
				right = append(right, id)
			}
		}
	}

	return median, left, right
}

// quickselect returns the k-th smallest coord(work[i]) value, partitioning
// work in place (Lomuto-style, iterative — no recursion).
func quickselect(work []int32, k int, coord func(int32) int64) int64 {
	lo, hi := 0, len(work)-1
	for lo < hi {
		pivotIdx := lo + rand.Intn(hi-lo+1)
		work[pivotIdx], work[hi] = work[hi], work[pivotIdx]
		pivot := coord(work[hi])

		store := lo
		for i := lo; i < hi; i++ {
			if coord(work[i]) < pivot {
				work[i], work[store] = work[store], work[i]
				store++
			}
		}
		work[store], work[hi] = work[hi], work[store]

		switch {
		case store == k:
			lo, hi = store, store
		case store < k:
			lo = store + 1
		default:
			hi = store - 1
		}
	}
	return coord(work[k])
}

type kdSearchTask struct {
	nodeIdx int32
	rect    geo.FixedRect
	depth   int
}

// Search returns every id whose point lies inside rect.
func (pi *PointIndex) Search(rect geo.FixedRect) []int32 {
	if len(pi.nodes) == 0 {
		return nil
	}

	var result []int32
	tasks := []kdSearchTask{{nodeIdx: 0, rect: pi.bounds, depth: 0}}

	for len(tasks) > 0 {
		task := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]
		node := pi.nodes[task.nodeIdx]

		if node.left == -1 && node.right == -1 {
			for _, id := range node.ids {
				if rect.Contains(pi.points[id]) {
					result = append(result, id)
				}
			}
			continue
		}

		axis := task.depth % 2
		leftRect, rightRect := splitRect(task.rect, axis, node.splitValue)

		drain := func(idx int32) []int32 { return pi.drainMatching(idx, rect) }
		if node.left != -1 {
			tasks = appendChildTask(tasks, rect, leftRect, node.left, task.depth+1, &result, drain)
		}
		if node.right != -1 {
			tasks = appendChildTask(tasks, rect, rightRect, node.right, task.depth+1, &result, drain)
		}
	}

	return result
}

// Contains reports whether rect contains at least one indexed point,
// short-circuiting on the first hit. Visit order among candidates is
// unspecified; the boolean result is deterministic.
func (pi *PointIndex) Contains(rect geo.FixedRect) bool {
	if len(pi.nodes) == 0 {
		return false
	}

	tasks := []kdSearchTask{{nodeIdx: 0, rect: pi.bounds, depth: 0}}
	for len(tasks) > 0 {
		task := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]
		node := pi.nodes[task.nodeIdx]

		if node.left == -1 && node.right == -1 {
			for _, id := range node.ids {
				if rect.Contains(pi.points[id]) {
					return true
				}
			}
			continue
		}

		axis := task.depth % 2
		leftRect, rightRect := splitRect(task.rect, axis, node.splitValue)

		if node.left != -1 {
			childRect := leftRect
			if rect.ContainsRect(childRect) || rect.Intersects(childRect) {
				if rect.ContainsRect(childRect) && pi.anyMatching(node.left, rect) {
					return true
				}
				tasks = append(tasks, kdSearchTask{nodeIdx: node.left, rect: childRect, depth: task.depth + 1})
			}
		}
		if node.right != -1 {
			childRect := rightRect
			if rect.ContainsRect(childRect) || rect.Intersects(childRect) {
				if rect.ContainsRect(childRect) && pi.anyMatching(node.right, rect) {
					return true
				}
				tasks = append(tasks, kdSearchTask{nodeIdx: node.right, rect: childRect, depth: task.depth + 1})
			}
		}
	}
	return false
}

// anyMatching reports whether the subtree rooted at nodeIdx holds at least
// one point actually inside query. Every candidate point is checked
// against query rather than assumed to match once its subtree's derived
// bound is contained in query.
func (pi *PointIndex) anyMatching(nodeIdx int32, query geo.FixedRect) bool {
	stack := []int32{nodeIdx}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := pi.nodes[idx]
		if node.left == -1 && node.right == -1 {
			for _, id := range node.ids {
				if query.Contains(pi.points[id]) {
					return true
				}
			}
			continue
		}
		if node.left != -1 {
			stack = append(stack, node.left)
		}
		if node.right != -1 {
			stack = append(stack, node.right)
		}
	}
	return false
}

// drainMatching gathers every id in the subtree rooted at nodeIdx whose
// point actually lies inside query, iteratively, checking every candidate
// point against query the same way anyMatching does.
func (pi *PointIndex) drainMatching(nodeIdx int32, query geo.FixedRect) []int32 {
	var result []int32
	stack := []int32{nodeIdx}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := pi.nodes[idx]
		if node.left == -1 && node.right == -1 {
			for _, id := range node.ids {
				if query.Contains(pi.points[id]) {
					result = append(result, id)
				}
			}
			continue
		}
		if node.left != -1 {
			stack = append(stack, node.left)
		}
		if node.right != -1 {
			stack = append(stack, node.right)
		}
	}
	return result
}

func appendChildTask(tasks []kdSearchTask, query, childRect geo.FixedRect, childIdx int32, depth int, result *[]int32, drain func(int32) []int32) []kdSearchTask {
	switch {
	case query.ContainsRect(childRect):
		*result = append(*result, drain(childIdx)...)
	case query.Intersects(childRect):
		tasks = append(tasks, kdSearchTask{nodeIdx: childIdx, rect: childRect, depth: depth})
	}
	return tasks
}

// splitRect slices rect at splitValue along axis (0=x, 1=y), returning the
// (<=splitValue, >splitValue) child rects.
func splitRect(rect geo.FixedRect, axis int, splitValue int64) (left, right geo.FixedRect) {
	if axis == 0 {
		left = geo.NewFixedRect(rect.MinX, rect.MinY, splitValue, rect.MaxY)
		right = geo.NewFixedRect(splitValue, rect.MinY, rect.MaxX, rect.MaxY)
		return
	}
	left = geo.NewFixedRect(rect.MinX, rect.MinY, rect.MaxX, splitValue)
	right = geo.NewFixedRect(rect.MinX, splitValue, rect.MaxX, rect.MaxY)
	return
}
