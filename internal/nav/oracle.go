// Package nav provides the hex-grid path service: a search graph over
// walkable tiles, A* shortest-path queries, a bounded LRU result cache,
// and per-tick request throttling.
package nav

import "github.com/talgya/hexpath/internal/hexgrid"

// Tile describes one grid cell as reported by the walkability oracle.
type Tile struct {
	Coord    hexgrid.HexCoord `json:"coord"`
	Walkable bool             `json:"walkable"`
}

// Oracle is the source of truth for which tiles exist and which are
// traversable. It is queried at graph build time and at single-hex update
// time only, never polled every tick.
type Oracle interface {
	AllTiles() []Tile
	HasTile(hexgrid.HexCoord) bool
	IsWalkable(hexgrid.HexCoord) bool
}
