// Package job ties the pieces together: a tile identifier resolves to a
// mercator rectangle, three range queries against the geodata store collect
// candidate feature ids, and the rule cascade turns those into a
// RenderAttributes ready for an external renderer. This is the one entry
// point a tile-image-serving front end (explicitly out of scope here) would
// call per request.
package job

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/tobilg/maptile-engine/internal/cache"
	"github.com/tobilg/maptile-engine/internal/rule"
	"github.com/tobilg/maptile-engine/internal/store"
	"github.com/tobilg/maptile-engine/internal/style"
	"github.com/tobilg/maptile-engine/internal/tileid"
)

// ErrNoneData is returned by RenderTile when the identifier is a none-data
// sentinel (z=x=y=-2): there is no rectangle to query, so callers should
// render a blank tile for the requested stylesheet instead.
var ErrNoneData = errors.New("job: none-data tile identifier")

// Render parses a tile identifier string and renders it against g using
// sheet. A raw string can never parse to the none-data sentinel (Parse
// rejects negative coordinates); callers that already hold a TileID — e.g.
// one derived via TileID.NoneData() by a caching layer — should call
// RenderTile directly instead.
func Render(g *store.Geodata, sheet *rule.Stylesheet, assets *cache.AssetCache, rawTileID string) (*style.RenderAttributes, error) {
	id, err := tileid.Parse(rawTileID)
	if err != nil {
		return nil, fmt.Errorf("job: parsing tile id %q: %w", rawTileID, err)
	}
	return RenderTile(g, sheet, assets, id)
}

// RenderTile resolves an already-parsed tile identifier against g using
// sheet, returning the per-feature styles a renderer needs to paint the
// tile. It returns ErrNoneData for the none-data sentinel, since that
// identifier carries no rectangle to query.
func RenderTile(g *store.Geodata, sheet *rule.Stylesheet, assets *cache.AssetCache, id tileid.TileID) (*style.RenderAttributes, error) {
	rect, ok := id.Rect()
	if !ok {
		return nil, fmt.Errorf("job: %q: %w", id.String(), ErrNoneData)
	}

	nodeIDs := g.NodeIDsInRect(rect)
	wayIDs := g.WayIDsInRect(rect)
	relIDs := g.RelationIDsInRect(rect)

	log.WithFields(log.Fields{
		"tile":      id.String(),
		"nodes":     len(nodeIDs),
		"ways":      len(wayIDs),
		"relations": len(relIDs),
	}).Debug("job: resolved candidate features")

	attrs := sheet.Apply(g, nodeIDs, wayIDs, relIDs, id, assets)
	return attrs, nil
}
