package index

import "github.com/tobilg/maptile-engine/internal/geo"

// RectLeafCapacity is the R-tree's compile-time leaf size, matching the
// original engine's choice for way/relation bounding-box counts.
const RectLeafCapacity = 100

type rNode struct {
	ids   []int32
	key   geo.FixedRect
	left  int32
	right int32
}

// RectIndex is a static R-tree over a fixed set of axis-aligned bounding
// boxes, indexed positionally: rects[i] (when non-empty) is identified by
// the int32 id i. Empty rects (the geo.FixedRect zero-value sentinel,
// produced by ways/relations with no geometry) are excluded from the tree
// entirely and never returned by Search.
type RectIndex struct {
	rects []geo.FixedRect
	nodes []rNode
}

// BuildRectIndex builds an R-tree over rects. Entries for which
// geo.FixedRect.IsEmpty is true are skipped. Build is order-deterministic:
// identical input produces a structurally identical tree.
func BuildRectIndex(rects []geo.FixedRect) *RectIndex {
	ids := make([]int32, 0, len(rects))
	for i, r := range rects {
		if !r.IsEmpty() {
			ids = append(ids, int32(i))
		}
	}

	ri := &RectIndex{rects: rects}
	if len(ids) == 0 {
		return ri
	}
	ri.nodes = buildRNodes(rects, ids)
	return ri
}

type rBuildTask struct {
	nodeIdx int32
	ids     []int32
}

func buildRNodes(rects []geo.FixedRect, ids []int32) []rNode {
	nodes := make([]rNode, 1)
	tasks := []rBuildTask{{nodeIdx: 0, ids: ids}}

	for len(tasks) > 0 {
		task := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]

		bbox := encloseAll(rects, task.ids)

		if len(task.ids) <= RectLeafCapacity {
			nodes[task.nodeIdx] = rNode{
				ids:   append([]int32(nil), task.ids...),
				key:   bbox,
				left:  -1,
				right: -1,
			}
			continue
		}

		left, right := splitByCenterMedian(rects, task.ids, bbox)

		leftIdx, rightIdx := int32(-1), int32(-1)
		if len(left) > 0 {
			nodes = append(nodes, rNode{})
			leftIdx = int32(len(nodes) - 1)
			tasks = append(tasks, rBuildTask{nodeIdx: leftIdx, ids: left})
		}
		if len(right) > 0 {
			nodes = append(nodes, rNode{})
			rightIdx = int32(len(nodes) - 1)
			tasks = append(tasks, rBuildTask{nodeIdx: rightIdx, ids: right})
		}

		nodes[task.nodeIdx] = rNode{key: bbox, left: leftIdx, right: rightIdx}
	}

	return nodes
}

func encloseAll(rects []geo.FixedRect, ids []int32) geo.FixedRect {
	bbox := rects[ids[0]]
	for _, id := range ids[1:] {
		bbox.Enclose(rects[id])
	}
	return bbox
}

// splitByCenterMedian splits ids around the median center coordinate on
// whichever axis bbox is wider along — the same "split the long axis"
// heuristic the original RTree used to keep leaves roughly square.
func splitByCenterMedian(rects []geo.FixedRect, ids []int32, bbox geo.FixedRect) (left, right []int32) {
	axis := 0
	if bbox.GetHeight() > bbox.GetWidth() {
		axis = 1
	}

	center := func(id int32) int64 {
		c := rects[id].GetCenter()
		if axis == 0 {
			return c.X
		}
		return c.Y
	}

	work := append([]int32(nil), ids...)
	k := len(work) / 2
	median := quickselect(work, k, center)

	left = make([]int32, 0, len(ids))
	right = make([]int32, 0, len(ids))
	for _, id := range ids {
		if center(id) <= median {
			left = append(left, id)
		} else {
			right = append(right, id)
		}
	}

	if len(right) == 0 && len(left) == len(ids) && len(ids) > 1 {
		half := len(ids) / 2
		left = append([]int32(nil), ids[:half]...)
		right = append([]int32(nil), ids[half:]...)
	}

	return left, right
}

// Bounds returns the enclosing rect of every indexed entry, or the empty
// sentinel if the index holds nothing.
func (ri *RectIndex) Bounds() geo.FixedRect {
	if len(ri.nodes) == 0 {
		return geo.FixedRect{}
	}
	return ri.nodes[0].key
}

type rSearchTask struct {
	nodeIdx int32
}

// Search returns every id whose bounding box intersects query.
func (ri *RectIndex) Search(query geo.FixedRect) []int32 {
	if len(ri.nodes) == 0 {
		return nil
	}

	var result []int32
	tasks := []rSearchTask{{nodeIdx: 0}}

	for len(tasks) > 0 {
		task := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]
		node := ri.nodes[task.nodeIdx]

		switch {
		case query.ContainsRect(node.key):
			result = append(result, ri.drainIDs(task.nodeIdx)...)
		case query.Intersects(node.key):
			if node.left == -1 && node.right == -1 {
				for _, id := range node.ids {
					if query.Intersects(ri.rects[id]) {
						result = append(result, id)
					}
				}
				continue
			}
			if node.left != -1 {
				tasks = append(tasks, rSearchTask{nodeIdx: node.left})
			}
			if node.right != -1 {
				tasks = append(tasks, rSearchTask{nodeIdx: node.right})
			}
		}
	}

	return result
}

// drainIDs gathers every id in the subtree rooted at nodeIdx, iteratively.
func (ri *RectIndex) drainIDs(nodeIdx int32) []int32 {
	var result []int32
	stack := []int32{nodeIdx}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := ri.nodes[idx]
		if node.left == -1 && node.right == -1 {
			result = append(result, node.ids...)
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
