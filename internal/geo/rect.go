package geo

// FixedRect is a closed, axis-aligned rectangle in fixed (integer) Web
// Mercator coordinates. The invariant minX <= maxX && minY <= maxY holds for
// every FixedRect constructed through NewFixedRect; the zero value (0,0,0,0)
// is the empty-rect sentinel used by the bounding-box oracle for features
// with no geometry.
type FixedRect struct {
	MinX, MinY, MaxX, MaxY int64
}

// NewFixedRect builds a rect from its min and max coordinates. It panics if
// minX > maxX or minY > maxY; use EncloseFixedRect for corners in any order.
func NewFixedRect(minX, minY, maxX, maxY int64) FixedRect {
	if minX > maxX || minY > maxY {
		panic("geo: FixedRect requires minX<=maxX and minY<=maxY")
	}
	return FixedRect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// EncloseFixedRect returns the smallest rect that contains both corners,
// without requiring the caller to know which corner is which.
func EncloseFixedRect(p1, p2 FixedPoint) FixedRect {
	return FixedRect{
		MinX: min64(p1.X, p2.X),
		MinY: min64(p1.Y, p2.Y),
		MaxX: max64(p1.X, p2.X),
		MaxY: max64(p1.Y, p2.Y),
	}
}

// IsEmpty reports whether r is the empty-rect sentinel.
func (r FixedRect) IsEmpty() bool {
	return r == FixedRect{}
}

// Contains reports whether p lies within r, inclusive on all four edges.
func (r FixedRect) Contains(p FixedPoint) bool {
	return between(r.MinX, p.X, r.MaxX) && between(r.MinY, p.Y, r.MaxY)
}

// ContainsRect reports whether other is fully inside r, inclusive of
// touching the boundary.
func (r FixedRect) ContainsRect(other FixedRect) bool {
	return between(r.MinX, other.MinX, r.MaxX) &&
		between(r.MinY, other.MinY, r.MaxY) &&
		between(r.MinX, other.MaxX, r.MaxX) &&
		between(r.MinY, other.MaxY, r.MaxY)
}

// Intersects reports whether the two closed rectangles share at least one
// point, edges and corners counting as overlap.
func (r FixedRect) Intersects(other FixedRect) bool {
	xOverlap := between(r.MinX, other.MaxX, r.MaxX) ||
		between(r.MinX, other.MinX, r.MaxX) ||
		between(other.MinX, r.MaxX, other.MaxX) ||
		between(other.MinX, r.MinX, other.MaxX)
	yOverlap := between(r.MinY, other.MaxY, r.MaxY) ||
		between(r.MinY, other.MinY, r.MaxY) ||
		between(other.MinY, r.MaxY, other.MaxY) ||
		between(other.MinY, r.MinY, other.MaxY)
	return xOverlap && yOverlap
}

// Enclose mutates r to the smallest rect covering r and other.
func (r *FixedRect) Enclose(other FixedRect) {
	r.MinX = min64(r.MinX, other.MinX)
	r.MaxX = max64(r.MaxX, other.MaxX)
	r.MinY = min64(r.MinY, other.MinY)
	r.MaxY = max64(r.MaxY, other.MaxY)
}

// EnclosePoint mutates r to the smallest rect covering r and p.
func (r *FixedRect) EnclosePoint(p FixedPoint) {
	r.MinX = min64(r.MinX, p.X)
	r.MaxX = max64(r.MaxX, p.X)
	r.MinY = min64(r.MinY, p.Y)
	r.MaxY = max64(r.MaxY, p.Y)
}

// GetCenter returns the rect's center, truncated by integer division; callers
// must tolerate a 1-unit truncation per spec.
func (r FixedRect) GetCenter() FixedPoint {
	return FixedPoint{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// GetArea returns the rect's area.
func (r FixedRect) GetArea() int64 {
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

// GetWidth returns maxX-minX.
func (r FixedRect) GetWidth() int64 { return r.MaxX - r.MinX }

// GetHeight returns maxY-minY.
func (r FixedRect) GetHeight() int64 { return r.MaxY - r.MinY }

// Translate returns r shifted by (dx, dy).
func (r FixedRect) Translate(dx, dy int64) FixedRect {
	return FixedRect{r.MinX + dx, r.MinY + dy, r.MaxX + dx, r.MaxY + dy}
}

// Grow returns r expanded by dx on the x-axis and dy on the y-axis on both
// sides.
func (r FixedRect) Grow(dx, dy int64) FixedRect {
	return FixedRect{r.MinX - dx, r.MinY - dy, r.MaxX + dx, r.MaxY + dy}
}

// GetIntersection returns the overlap of r and other, or the empty-rect
// sentinel if the overlap has zero width or height — including rects that
// only touch at an edge or corner, which Intersects reports as overlapping.
func (r FixedRect) GetIntersection(other FixedRect) FixedRect {
	x0 := max64(r.MinX, other.MinX)
	y0 := max64(r.MinY, other.MinY)
	x1 := min64(r.MaxX, other.MaxX)
	y1 := min64(r.MaxY, other.MaxY)
	if x0 >= x1 || y0 >= y1 {
		return FixedRect{}
	}
	return FixedRect{x0, y0, x1, y1}
}

// FloatRect is the double-precision counterpart of FixedRect, used at
// style/label boundaries (e.g. mercator tile envelopes before quantization).
type FloatRect struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewFloatRect builds a rect from two opposite corners, normalizing order.
func NewFloatRect(minX, minY, maxX, maxY float64) FloatRect {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return FloatRect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Contains reports whether p lies within r, inclusive on all four edges.
func (r FloatRect) Contains(p FloatPoint) bool {
	return betweenF(r.MinX, p.X, r.MaxX) && betweenF(r.MinY, p.Y, r.MaxY)
}

// GetCenter returns the rect's center.
func (r FloatRect) GetCenter() FloatPoint {
	return FloatPoint{X: (r.MinX + r.MaxX) / 2.0, Y: (r.MinY + r.MaxY) / 2.0}
}

// GetArea returns the rect's area.
func (r FloatRect) GetArea() float64 {
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

func between(lo, v, hi int64) bool {
	return lo <= v && v <= hi
}

func betweenF(lo, v, hi float64) bool {
	return lo <= v && v <= hi
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
