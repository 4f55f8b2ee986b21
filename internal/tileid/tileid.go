// Package tileid parses and formats the tile identifier string form
// `/<stylesheet_path>/<z>/<x>/<y>.<ext>` and derives the mercator rect a
// render job queries the geodata store with.
package tileid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tobilg/maptile-engine/internal/geo"
)

// ErrMalformedURL is returned when the tile identifier string doesn't match
// the expected shape, or its z/x/y components are missing, non-numeric, or
// out of range.
var ErrMalformedURL = errors.New("tileid: malformed url")

// ErrUnknownImageFormat is returned when the identifier parses structurally
// but its extension is neither "png" nor "svg".
var ErrUnknownImageFormat = errors.New("tileid: unknown image format")

// MaxZoom is the canonical upper bound on zoom level, inclusive.
const MaxZoom = 18

// noneDataCoord is the sentinel z/x/y value used for a "blank tile for this
// stylesheet" identifier.
const noneDataCoord = -2

// TileID identifies one tile render request: a stylesheet, a zoom/x/y
// address (or the none-data sentinel), and a requested image format.
type TileID struct {
	StylesheetPath string
	Z, X, Y        int
	Ext            string
}

// Parse parses a tile identifier string of the form
// `/<stylesheet_path>/<z>/<x>/<y>.<ext>`. The stylesheet path may itself
// contain slashes; it is everything between the leading slash and the
// trailing `/<z>/<x>/<y>.<ext>` suffix.
func Parse(raw string) (TileID, error) {
	if !strings.HasPrefix(raw, "/") {
		return TileID{}, fmt.Errorf("tileid: %q: %w", raw, ErrMalformedURL)
	}

	segments := strings.Split(strings.TrimPrefix(raw, "/"), "/")
	if len(segments) < 4 {
		return TileID{}, fmt.Errorf("tileid: %q has too few path segments: %w", raw, ErrMalformedURL)
	}

	n := len(segments)
	yExt := segments[n-1]
	xStr := segments[n-2]
	zStr := segments[n-3]
	styleSegs := segments[:n-3]

	stylesheetPath := "/" + strings.Join(styleSegs, "/")
	if len(styleSegs) == 0 || styleSegs[0] == "" {
		return TileID{}, fmt.Errorf("tileid: %q has an empty stylesheet path: %w", raw, ErrMalformedURL)
	}

	dot := strings.LastIndexByte(yExt, '.')
	if dot < 0 {
		return TileID{}, fmt.Errorf("tileid: %q missing an extension: %w", raw, ErrMalformedURL)
	}
	yStr, ext := yExt[:dot], yExt[dot+1:]

	z, zErr := parseNonNegative(zStr)
	x, xErr := parseNonNegative(xStr)
	y, yErr := parseNonNegative(yStr)
	if zErr != nil || xErr != nil || yErr != nil {
		return TileID{}, fmt.Errorf("tileid: %q has non-numeric z/x/y: %w", raw, ErrMalformedURL)
	}

	if z < 0 || z > MaxZoom {
		return TileID{}, fmt.Errorf("tileid: zoom %d out of [0,%d]: %w", z, MaxZoom, ErrMalformedURL)
	}
	span := int64(1) << uint(z)
	if int64(x) < 0 || int64(x) >= span || int64(y) < 0 || int64(y) >= span {
		return TileID{}, fmt.Errorf("tileid: (%d,%d) out of [0,%d) at zoom %d: %w", x, y, span, z, ErrMalformedURL)
	}

	if ext != "png" && ext != "svg" {
		return TileID{}, fmt.Errorf("tileid: extension %q: %w", ext, ErrUnknownImageFormat)
	}

	return TileID{StylesheetPath: stylesheetPath, Z: z, X: x, Y: y, Ext: ext}, nil
}

func parseNonNegative(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, ErrMalformedURL
	}
	return v, nil
}

// IsNoneData reports whether t is the "blank tile for this stylesheet"
// sentinel.
func (t TileID) IsNoneData() bool {
	return t.Z == noneDataCoord && t.X == noneDataCoord && t.Y == noneDataCoord
}

// NoneData derives the none-data sentinel for t's stylesheet: coordinates
// (-2,-2,-2), format png, same stylesheet path.
func (t TileID) NoneData() TileID {
	return TileID{StylesheetPath: t.StylesheetPath, Z: noneDataCoord, X: noneDataCoord, Y: noneDataCoord, Ext: "png"}
}

// Rect derives the mercator query rect for t. ok is false for a none-data
// identifier, which carries no geometry.
func (t TileID) Rect() (rect geo.FixedRect, ok bool) {
	if t.IsNoneData() {
		return geo.FixedRect{}, false
	}
	return geo.TileRect(t.Z, t.X, t.Y), true
}

// String formats t back into its canonical identifier form.
func (t TileID) String() string {
	return fmt.Sprintf("%s/%d/%d/%d.%s", t.StylesheetPath, t.Z, t.X, t.Y, t.Ext)
}
