package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tobilg/maptile-engine/internal/cache"
)

func newTestCache(t *testing.T) *cache.AssetCache {
	t.Helper()
	ac, err := cache.NewAssetCache(16)
	if err != nil {
		t.Fatal(err)
	}
	return ac
}

func TestFinishClearsMissingAsset(t *testing.T) {
	dir := t.TempDir()
	s := New()
	s.IconImage = "no-such-icon.svg"

	s.Finish(nil, false, dir, newTestCache(t))

	if s.IconImage != "" {
		t.Errorf("IconImage = %q, want empty after finish clears a missing asset", s.IconImage)
	}
}

func TestFinishKeepsExistingAssetAsResolvedPath(t *testing.T) {
	dir := t.TempDir()
	iconPath := filepath.Join(dir, "icon.svg")
	if err := os.WriteFile(iconPath, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New()
	s.IconImage = "icon.svg"
	s.Finish(nil, false, dir, newTestCache(t))

	if s.IconImage != iconPath {
		t.Errorf("IconImage = %q, want %q", s.IconImage, iconPath)
	}
}

func TestFinishSanitizesDashes(t *testing.T) {
	cases := []struct {
		name   string
		dashes []float64
		want   []float64
	}{
		{"all zero cleared", []float64{0, 0}, nil},
		{"negative present cleared", []float64{4, -1}, nil},
		{"valid dashes kept", []float64{4, 2}, []float64{4, 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := New()
			s.Dashes = c.dashes
			s.Finish(nil, false, t.TempDir(), newTestCache(t))
			if len(s.Dashes) != len(c.want) {
				t.Errorf("Dashes = %v, want %v", s.Dashes, c.want)
			}
		})
	}
}

func TestFinishResolvesTextAsTagLookup(t *testing.T) {
	s := New()
	s.Text = "name"
	tags := map[string]string{"name": "Main Street"}

	s.Finish(tags, true, t.TempDir(), newTestCache(t))

	if s.Text != "Main Street" {
		t.Errorf("Text = %q, want %q", s.Text, "Main Street")
	}
}

func TestFinishClearsTextWhenTagAbsent(t *testing.T) {
	s := New()
	s.Text = "name"
	s.Finish(map[string]string{}, true, t.TempDir(), newTestCache(t))

	if s.Text != "" {
		t.Errorf("Text = %q, want empty when the tag is absent", s.Text)
	}
}

func TestFinishSkipsTagLookupWithoutFeature(t *testing.T) {
	s := New()
	s.Text = "name"
	// hasFeature=false: a canvas style has no associated tags at all, so
	// text must be left exactly as the template set it.
	s.Finish(nil, false, t.TempDir(), newTestCache(t))

	if s.Text != "name" {
		t.Errorf("Text = %q, want unchanged %q for a canvas style", s.Text, "name")
	}
}

func TestFinishBumpsZIndexByLayerTag(t *testing.T) {
	s := New()
	s.ZIndex = 5
	tags := map[string]string{"layer": "2"}
	s.Finish(tags, true, t.TempDir(), newTestCache(t))

	if s.ZIndex != 205 {
		t.Errorf("ZIndex = %d, want 205 (5 + 2*100)", s.ZIndex)
	}
}

func TestFinishIgnoresUnparseableLayerTag(t *testing.T) {
	s := New()
	s.ZIndex = 5
	tags := map[string]string{"layer": "not-a-number"}
	s.Finish(tags, true, t.TempDir(), newTestCache(t))

	if s.ZIndex != 5 {
		t.Errorf("ZIndex = %d, want unchanged 5 for an unparseable layer tag", s.ZIndex)
	}
}

func TestOvermergeOnlyWritesPresentAttributes(t *testing.T) {
	s := New()
	originalFill := s.FillColor

	tmpl := &StyleTemplate{
		Width: Const(3.5),
	}
	s.Overmerge(tmpl, nil)

	if s.Width != 3.5 {
		t.Errorf("Width = %v, want 3.5", s.Width)
	}
	if s.FillColor != originalFill {
		t.Errorf("FillColor changed despite template not setting it")
	}
}

func TestOvermergeLaterRuleOverwritesEarlier(t *testing.T) {
	s := New()
	s.Overmerge(&StyleTemplate{Width: Const(1.0)}, nil)
	s.Overmerge(&StyleTemplate{Width: Const(2.0)}, nil)

	if s.Width != 2.0 {
		t.Errorf("Width = %v, want 2.0 (later overmerge wins)", s.Width)
	}
}

func TestOvermergeExprSeesTags(t *testing.T) {
	s := New()
	tmpl := &StyleTemplate{
		Width: func(tags map[string]string) float64 {
			if tags["highway"] == "motorway" {
				return 5.0
			}
			return 1.0
		},
	}
	s.Overmerge(tmpl, map[string]string{"highway": "motorway"})
	if s.Width != 5.0 {
		t.Errorf("Width = %v, want 5.0 for a motorway tag", s.Width)
	}
}
