package index

import (
	"testing"

	"github.com/tobilg/maptile-engine/internal/geo"
)

func buildRectGrid(n int) []geo.FixedRect {
	rects := make([]geo.FixedRect, 0, n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			rects = append(rects, geo.NewFixedRect(int64(x*10), int64(y*10), int64(x*10+5), int64(y*10+5)))
		}
	}
	return rects
}

func bruteForceRectSearch(rects []geo.FixedRect, query geo.FixedRect) []int32 {
	var want []int32
	for i, r := range rects {
		if !r.IsEmpty() && query.Intersects(r) {
			want = append(want, int32(i))
		}
	}
	return want
}

func TestRectIndexSearchMatchesBruteForce(t *testing.T) {
	rects := buildRectGrid(20) // 400 boxes, forces splitting past leaf capacity
	idx := BuildRectIndex(rects)

	query := geo.NewFixedRect(25, 25, 75, 85)
	got := sortedInt32(idx.Search(query))
	want := sortedInt32(bruteForceRectSearch(rects, query))

	if len(got) != len(want) {
		t.Fatalf("Search returned %d ids, want %d (got=%v want=%v)", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Search mismatch at %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRectIndexSkipsEmptyRects(t *testing.T) {
	rects := []geo.FixedRect{
		geo.NewFixedRect(0, 0, 10, 10),
		{}, // empty sentinel, e.g. a way with zero nodes
		geo.NewFixedRect(20, 20, 30, 30),
	}
	idx := BuildRectIndex(rects)

	got := sortedInt32(idx.Search(geo.NewFixedRect(-100, -100, 100, 100)))
	want := []int32{0, 2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Search = %v, want %v (id 1 must be excluded)", got, want)
	}
}

func TestRectIndexEmptyInput(t *testing.T) {
	idx := BuildRectIndex(nil)
	if got := idx.Search(geo.NewFixedRect(0, 0, 10, 10)); got != nil {
		t.Errorf("Search on empty index = %v, want nil", got)
	}
	if !idx.Bounds().IsEmpty() {
		t.Error("Bounds on empty index must be the empty sentinel")
	}
}

func TestRectIndexNoMatchOutsideBounds(t *testing.T) {
	rects := buildRectGrid(10)
	idx := BuildRectIndex(rects)
	if got := idx.Search(geo.NewFixedRect(10000, 10000, 20000, 20000)); len(got) != 0 {
		t.Errorf("Search far outside bounds returned %d ids, want 0", len(got))
	}
}

func TestRectIndexBoundsEnclosesEverything(t *testing.T) {
	rects := buildRectGrid(15)
	idx := BuildRectIndex(rects)
	bounds := idx.Bounds()
	for i, r := range rects {
		if !bounds.ContainsRect(r) {
			t.Fatalf("Bounds %+v does not contain rect %d (%+v)", bounds, i, r)
		}
	}
}
