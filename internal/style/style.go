// Package style implements the MapCSS-like styling entities: the sparse,
// lazily-evaluated StyleTemplate, its overmerge into a concrete Style, and
// the finishing pass that resolves tag-derived text, asset paths, and
// z-index layering.
package style

import (
	"path/filepath"
	"strconv"

	"github.com/tobilg/maptile-engine/internal/cache"
)

// Color is an RGBA color in [0,1] per channel, matching the source engine's
// Color type used for stroke/fill/text/shield colors.
type Color struct {
	R, G, B, A float64
}

// TextPosition controls where a way's text label is placed relative to its
// geometry.
type TextPosition int

const (
	PositionLine TextPosition = iota
	PositionCenter
	PositionNull
)

// LineCap is the stroke cap style for lines and casings.
type LineCap int

const (
	CapNone LineCap = iota
	CapRound
	CapSquare
)

// LineJoin is the stroke join style for lines and casings.
type LineJoin int

const (
	JoinMiter LineJoin = iota
	JoinBevel
	JoinRound
)

// ShieldShape is the background shape drawn behind shield text.
type ShieldShape int

const (
	ShieldRounded ShieldShape = iota
	ShieldRectangular
)

// FontWeight is the weight of rendered text.
type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

// FontStyle is the slant of rendered text.
type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleItalic
)

// Style is the fully-populated, concrete counterpart of a StyleTemplate.
// It is initialized to documented defaults, then mutated only by Overmerge
// and Finish.
type Style struct {
	Color     Color
	FillColor Color

	Image     string
	FillImage string

	Width        float64
	CasingWidth  float64
	CasingColor  Color

	Text         string
	TextPosition TextPosition
	TextColor    Color
	TextOffset   float64
	FontSize     float64
	FontFamily   string
	FontWeight   FontWeight
	FontStyle    FontStyle

	TextHaloColor  Color
	TextHaloRadius float64

	LineCap         LineCap
	LineJoin        LineJoin
	CasingLineCap   LineCap
	CasingLineJoin  LineJoin

	IconImage   string
	IconWidth   float64
	IconHeight  float64
	IconOpacity float64

	ShieldColor        Color
	ShieldOpacity      float64
	ShieldFrameColor   Color
	ShieldFrameWidth   float64
	ShieldCasingColor  Color
	ShieldCasingWidth  float64
	ShieldText         string
	ShieldImage        string
	ShieldShape        ShieldShape

	Dashes       []float64
	CasingDashes []float64

	ZIndex int
}

const defaultFontFamily = "DejaVu Sans"

// New returns a Style initialized to the documented defaults: black
// stroke, transparent fill, miter joins, no dashes, z-index 0.
func New() *Style {
	return &Style{
		Color:     Color{0, 0, 0, 1},
		FillColor: Color{1, 1, 1, 0},

		CasingColor: Color{1, 1, 1, 1},

		TextPosition: PositionCenter,
		TextColor:    Color{0, 0, 0, 1},
		FontFamily:   defaultFontFamily,
		FontWeight:   WeightNormal,
		FontStyle:    StyleNormal,

		TextHaloColor: Color{1, 1, 1, 0},

		LineCap:        CapNone,
		LineJoin:       JoinMiter,
		CasingLineCap:  CapNone,
		CasingLineJoin: JoinMiter,

		IconWidth:   -1,
		IconHeight:  -1,
		IconOpacity: 1,

		ShieldColor:      Color{1, 1, 1, 0},
		ShieldFrameColor: Color{1, 1, 1, 0},
		ShieldCasingColor: Color{1, 1, 1, 0},
		ShieldShape:      ShieldRounded,

		ZIndex: 0,
	}
}

const layerTagKey = "layer"

// Finish performs the final fix-up pass: resolves asset paths relative to
// stylesheetDir and clears any that don't exist (checked via assets, a
// process-wide get-or-insert cache so the filesystem stat happens at most
// once per path), sanitizes dash lists, and — only when hasFeature is true
// — resolves text/shield_text as tag-name lookups and bumps z-index by the
// feature's "layer" tag, if any.
//
// None of this is fallible from the caller's perspective: a missing asset
// or tag is silently absorbed, per the source engine's "keep rendering
// robust against messy OSM input" rule.
func (s *Style) Finish(tags map[string]string, hasFeature bool, stylesheetDir string, assets *cache.AssetCache) {
	s.Image = resolveAsset(s.Image, stylesheetDir, assets)
	s.FillImage = resolveAsset(s.FillImage, stylesheetDir, assets)
	s.IconImage = resolveAsset(s.IconImage, stylesheetDir, assets)
	s.ShieldImage = resolveAsset(s.ShieldImage, stylesheetDir, assets)

	s.Dashes = sanitizeDashes(s.Dashes)
	s.CasingDashes = sanitizeDashes(s.CasingDashes)

	if !hasFeature {
		return
	}

	s.Text = resolveTagText(s.Text, tags)
	s.ShieldText = resolveTagText(s.ShieldText, tags)

	if layerStr, ok := tags[layerTagKey]; ok {
		if layer, err := strconv.Atoi(layerStr); err == nil {
			s.ZIndex += layer * 100
		}
	}
}

// resolveAsset joins a non-empty relative path onto stylesheetDir and
// clears it to "" if the result doesn't exist. An already-empty path is
// left alone.
func resolveAsset(relPath, stylesheetDir string, assets *cache.AssetCache) string {
	if relPath == "" {
		return ""
	}
	full := filepath.Join(stylesheetDir, relPath)
	if assets.Exists(full) {
		return full
	}
	return ""
}

// sanitizeDashes clears a dash list that is either empty-of-any-positive
// entry or contains a negative entry, mirroring the source engine's
// "all-zero-or-negative dash lists are meaningless" rule.
func sanitizeDashes(dashes []float64) []float64 {
	if len(dashes) == 0 {
		return dashes
	}
	sawPositive := false
	for _, d := range dashes {
		if d > 0 {
			sawPositive = true
		} else if d < 0 {
			return nil
		}
	}
	if !sawPositive {
		return nil
	}
	return dashes
}

// resolveTagText treats a non-empty field value as a tag name and replaces
// it with that tag's value, or "" if the tag is absent.
func resolveTagText(field string, tags map[string]string) string {
	if field == "" {
		return ""
	}
	if v, ok := tags[field]; ok {
		return v
	}
	return ""
}
