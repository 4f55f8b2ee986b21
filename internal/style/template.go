package style

// Expr is a lazily-evaluated style attribute: a function of a feature's
// tags producing a concrete value of type T. A nil Expr means "absent" —
// overmerge leaves the corresponding Style field untouched.
type Expr[T any] func(tags map[string]string) T

// Const returns an Expr that ignores its tags argument and always yields
// v — the common case of a MapCSS rule that sets a literal value.
func Const[T any](v T) Expr[T] {
	return func(map[string]string) T { return v }
}

// StyleTemplate is a sparse collection of lazily-evaluated expressions,
// one per style attribute. Any field may be nil; "present" means
// "overwrite when merging" (Overmerge).
type StyleTemplate struct {
	Color     Expr[Color]
	FillColor Expr[Color]

	Image     Expr[string]
	FillImage Expr[string]

	Width       Expr[float64]
	CasingWidth Expr[float64]
	CasingColor Expr[Color]

	Text         Expr[string]
	TextPosition Expr[TextPosition]
	TextColor    Expr[Color]
	TextOffset   Expr[float64]
	FontSize     Expr[float64]
	FontFamily   Expr[string]
	FontWeight   Expr[FontWeight]
	FontStyle    Expr[FontStyle]

	TextHaloColor  Expr[Color]
	TextHaloRadius Expr[float64]

	LineCap        Expr[LineCap]
	LineJoin       Expr[LineJoin]
	CasingLineCap  Expr[LineCap]
	CasingLineJoin Expr[LineJoin]

	IconImage   Expr[string]
	IconWidth   Expr[float64]
	IconHeight  Expr[float64]
	IconOpacity Expr[float64]

	ShieldColor       Expr[Color]
	ShieldOpacity     Expr[float64]
	ShieldFrameColor  Expr[Color]
	ShieldFrameWidth  Expr[float64]
	ShieldCasingColor Expr[Color]
	ShieldCasingWidth Expr[float64]
	ShieldText        Expr[string]
	ShieldImage       Expr[string]
	ShieldShape       Expr[ShieldShape]

	Dashes       Expr[[]float64]
	CasingDashes Expr[[]float64]

	ZIndex Expr[int]
}

// Overmerge takes every non-nil attribute from t, evaluates it against
// tags, and writes the result into s. Absent template entries leave s
// untouched. Rule order determines overmerge precedence: a later
// Overmerge call overwrites only the attributes its template explicitly
// sets.
func (s *Style) Overmerge(t *StyleTemplate, tags map[string]string) {
	if t == nil {
		return
	}

	if t.Color != nil {
		s.Color = t.Color(tags)
	}
	if t.FillColor != nil {
		s.FillColor = t.FillColor(tags)
	}
	if t.Image != nil {
		s.Image = t.Image(tags)
	}
	if t.FillImage != nil {
		s.FillImage = t.FillImage(tags)
	}
	if t.Width != nil {
		s.Width = t.Width(tags)
	}
	if t.CasingWidth != nil {
		s.CasingWidth = t.CasingWidth(tags)
	}
	if t.CasingColor != nil {
		s.CasingColor = t.CasingColor(tags)
	}
	if t.Text != nil {
		s.Text = t.Text(tags)
	}
	if t.TextPosition != nil {
		s.TextPosition = t.TextPosition(tags)
	}
	if t.TextColor != nil {
		s.TextColor = t.TextColor(tags)
	}
	if t.TextOffset != nil {
		s.TextOffset = t.TextOffset(tags)
	}
	if t.FontSize != nil {
		s.FontSize = t.FontSize(tags)
	}
	if t.FontFamily != nil {
		s.FontFamily = t.FontFamily(tags)
	}
	if t.FontWeight != nil {
		s.FontWeight = t.FontWeight(tags)
	}
	if t.FontStyle != nil {
		s.FontStyle = t.FontStyle(tags)
	}
	if t.TextHaloColor != nil {
		s.TextHaloColor = t.TextHaloColor(tags)
	}
	if t.TextHaloRadius != nil {
		s.TextHaloRadius = t.TextHaloRadius(tags)
	}
	if t.LineCap != nil {
		s.LineCap = t.LineCap(tags)
	}
	if t.LineJoin != nil {
		s.LineJoin = t.LineJoin(tags)
	}
	if t.CasingLineCap != nil {
		s.CasingLineCap = t.CasingLineCap(tags)
	}
	if t.CasingLineJoin != nil {
		s.CasingLineJoin = t.CasingLineJoin(tags)
	}
	if t.IconImage != nil {
		s.IconImage = t.IconImage(tags)
	}
	if t.IconWidth != nil {
		s.IconWidth = t.IconWidth(tags)
	}
	if t.IconHeight != nil {
		s.IconHeight = t.IconHeight(tags)
	}
	if t.IconOpacity != nil {
		s.IconOpacity = t.IconOpacity(tags)
	}
	if t.ShieldColor != nil {
		s.ShieldColor = t.ShieldColor(tags)
	}
	if t.ShieldOpacity != nil {
		s.ShieldOpacity = t.ShieldOpacity(tags)
	}
	if t.ShieldFrameColor != nil {
		s.ShieldFrameColor = t.ShieldFrameColor(tags)
	}
	if t.ShieldFrameWidth != nil {
		s.ShieldFrameWidth = t.ShieldFrameWidth(tags)
	}
	if t.ShieldCasingColor != nil {
		s.ShieldCasingColor = t.ShieldCasingColor(tags)
	}
	if t.ShieldCasingWidth != nil {
		s.ShieldCasingWidth = t.ShieldCasingWidth(tags)
	}
	if t.ShieldText != nil {
		s.ShieldText = t.ShieldText(tags)
	}
	if t.ShieldImage != nil {
		s.ShieldImage = t.ShieldImage(tags)
	}
	if t.ShieldShape != nil {
		s.ShieldShape = t.ShieldShape(tags)
	}
	if t.Dashes != nil {
		s.Dashes = t.Dashes(tags)
	}
	if t.CasingDashes != nil {
		s.CasingDashes = t.CasingDashes(tags)
	}
	if t.ZIndex != nil {
		s.ZIndex = t.ZIndex(tags)
	}
}
