package geo

import (
	"math"
	"testing"
)

func TestMercatorRoundTrip(t *testing.T) {
	lats := []float64{0, 10, -10, 45, -45, 84.9, -84.9}
	lons := []float64{0, 10, -10, 90, -90, 179.9, -179.9}

	for _, lat := range lats {
		for _, lon := range lons {
			p := ProjectMercator(lat, lon)
			gotLat, gotLon := InverseMercator(p)
			if math.Abs(gotLat-lat) > 1e-9 || math.Abs(gotLon-lon) > 1e-9 {
				t.Errorf("round trip (%v,%v) -> (%v,%v), diff too large", lat, lon, gotLat, gotLon)
			}
		}
	}
}

func TestWorldTileRectContainsOrigin(t *testing.T) {
	// Tile (0,0,0) covers the whole world; its rect must contain the
	// projection of the origin.
	r := TileRect(0, 0, 0)
	origin := ToFixed(ProjectMercator(0, 0))
	if !r.Contains(origin) {
		t.Errorf("world tile rect %+v does not contain origin %+v", r, origin)
	}
}

func TestTileRectSubdivision(t *testing.T) {
	// The four z=1 tiles must tile the z=0 world rect exactly (as a union).
	world := TileRect(0, 0, 0)
	var minX, minY, maxX, maxY int64 = math.MaxInt64, math.MaxInt64, math.MinInt64, math.MinInt64
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			r := TileRect(1, x, y)
			if r.MinX < minX {
				minX = r.MinX
			}
			if r.MinY < minY {
				minY = r.MinY
			}
			if r.MaxX > maxX {
				maxX = r.MaxX
			}
			if r.MaxY > maxY {
				maxY = r.MaxY
			}
		}
	}
	if minX != world.MinX || minY != world.MinY || maxX != world.MaxX || maxY != world.MaxY {
		t.Errorf("z=1 tiles union = (%d,%d,%d,%d), want world rect %+v", minX, minY, maxX, maxY, world)
	}
}
