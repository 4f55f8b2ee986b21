package geo

import "math"

// earthRadius is the sphere radius (meters) used by the spherical Web
// Mercator projection (EPSG:3857). One fixed-coordinate unit equals one
// projected meter; the whole world fits comfortably inside the ±2^31
// fixed-coordinate domain the index guarantees.
const earthRadius = 6378137.0

// ProjectMercator projects a (lat, lon) pair in degrees onto the Web
// Mercator plane, returning unrounded projected meters. Valid for
// |lat| < 90; callers relying on the round-trip property should stay within
// |lat| < 85 per spec.
func ProjectMercator(lat, lon float64) FloatPoint {
	x := earthRadius * degToRad(lon)
	y := earthRadius * math.Log(math.Tan(math.Pi/4+degToRad(lat)/2))
	return FloatPoint{X: x, Y: y}
}

// InverseMercator recovers (lat, lon) in degrees from a projected point.
func InverseMercator(p FloatPoint) (lat, lon float64) {
	lon = radToDeg(p.X / earthRadius)
	lat = radToDeg(2*math.Atan(math.Exp(p.Y/earthRadius)) - math.Pi/2)
	return lat, lon
}

// ToFixed rounds a projected FloatPoint to the nearest FixedPoint.
func ToFixed(p FloatPoint) FixedPoint {
	return FixedPoint{X: int64(math.Round(p.X)), Y: int64(math.Round(p.Y))}
}

// TileCornerMercator returns the Mercator projection of the (tx, ty) corner
// of the slippy-map tile grid at zoom z, where tx/ty may be fractional (e.g.
// x+1 to reach the tile's far edge). y follows the XYZ convention: 0 at the
// north pole side, increasing southward.
func TileCornerMercator(tx, ty float64, z int) FixedPoint {
	n := math.Exp2(float64(z))
	lon := tx/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*ty/n)))
	lat := radToDeg(latRad)
	return ToFixed(ProjectMercator(lat, lon))
}

// TileRect returns the FixedRect covering the slippy-map tile (z, x, y).
func TileRect(z, x, y int) FixedRect {
	c0 := TileCornerMercator(float64(x), float64(y+1), z)
	c1 := TileCornerMercator(float64(x+1), float64(y), z)
	return EncloseFixedRect(c0, c1)
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
