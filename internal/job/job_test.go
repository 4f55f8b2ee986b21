package job

import (
	"errors"
	"testing"

	"github.com/tobilg/maptile-engine/internal/cache"
	"github.com/tobilg/maptile-engine/internal/geo"
	"github.com/tobilg/maptile-engine/internal/rule"
	"github.com/tobilg/maptile-engine/internal/store"
	"github.com/tobilg/maptile-engine/internal/style"
	"github.com/tobilg/maptile-engine/internal/tileid"
)

func testAssets(t *testing.T) *cache.AssetCache {
	t.Helper()
	ac, err := cache.NewAssetCache(16)
	if err != nil {
		t.Fatal(err)
	}
	return ac
}

func TestRenderResolvesTileAndAppliesStylesheet(t *testing.T) {
	corner := geo.TileCornerMercator(0, 0, 0)
	nodes := []store.Node{
		{Location: corner, Tags: map[string]string{"amenity": "cafe"}},
	}
	g, err := store.NewGeodata(nodes, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	r := &rule.Rule{ZoomBottom: 0, ZoomTop: 18, Kinds: rule.AcceptsNode, Template: &style.StyleTemplate{Width: style.Const(2.0)}}
	r.Head = rule.NewApplySelector(r)
	sheet := &rule.Stylesheet{Rules: []*rule.Rule{r}, Dir: t.TempDir()}

	attrs, err := Render(g, sheet, testAssets(t), "/default/0/0/0.png")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(attrs.Nodes) != 1 {
		t.Fatalf("got %d node styles, want 1", len(attrs.Nodes))
	}
}

func TestRenderRejectsMalformedTileID(t *testing.T) {
	g, err := store.NewGeodata(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	sheet := &rule.Stylesheet{Dir: t.TempDir()}

	_, err = Render(g, sheet, testAssets(t), "not-a-tile-id")
	if !errors.Is(err, tileid.ErrMalformedURL) {
		t.Fatalf("expected ErrMalformedURL, got %v", err)
	}
}

func TestRenderReturnsNoneDataErrorForSentinelTile(t *testing.T) {
	g, err := store.NewGeodata(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	sheet := &rule.Stylesheet{Dir: t.TempDir()}

	id, err := tileid.Parse("/default/5/3/3.png")
	if err != nil {
		t.Fatal(err)
	}
	none := id.NoneData()

	_, err = RenderTile(g, sheet, testAssets(t), none)
	if !errors.Is(err, ErrNoneData) {
		t.Fatalf("expected ErrNoneData, got %v", err)
	}
}
