package rule

import "github.com/tobilg/maptile-engine/internal/style"

// NewDemoStylesheet builds a small, hand-written stylesheet exercising a
// handful of common MapCSS-like rules, the way the teacher's mock catalog
// seeds a runnable instance without a real database. There is no MapCSS
// text-format parser in this engine (stylesheets are built programmatically
// against the Rule/Selector/StyleTemplate API) — this is the one
// illustrative example spec.md §8 gives: "a way with tags =
// {highway: primary} and a rule way[highway=primary] { width: 3 } at zoom
// 12 produces attrs.ways[id].width == 3.0".
func NewDemoStylesheet(dir string) *Stylesheet {
	highwayRule := &Rule{
		ZoomBottom: 10, ZoomTop: 18,
		Kinds:    AcceptsWay,
		Template: &style.StyleTemplate{Width: style.Const(3.0), Color: style.Const(style.Color{R: 0.8, G: 0.2, B: 0.2, A: 1})},
	}
	highwayApply := NewApplySelector(highwayRule)
	highwayRule.Head = NewTagEqualsSelector("highway", "primary", NewLineSelector(highwayApply))

	buildingRule := &Rule{
		ZoomBottom: 14, ZoomTop: 18,
		Kinds:    AcceptsWay,
		Template: &style.StyleTemplate{FillColor: style.Const(style.Color{R: 0.6, G: 0.6, B: 0.6, A: 1})},
	}
	buildingApply := NewApplySelector(buildingRule)
	buildingRule.Head = NewHasTagSelector("building", NewAreaSelector(buildingApply))

	poiRule := &Rule{
		ZoomBottom: 15, ZoomTop: 18,
		Kinds:    AcceptsNode,
		Template: &style.StyleTemplate{IconImage: style.Const("poi.svg"), Text: style.Const("name")},
	}
	poiApply := NewApplySelector(poiRule)
	poiRule.Head = NewHasTagSelector("amenity", poiApply)

	return &Stylesheet{
		Rules: []*Rule{highwayRule, buildingRule, poiRule},
		Dir:   dir,
	}
}
