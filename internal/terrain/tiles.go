// Package terrain provides the concrete walkability oracle: a sparse hex
// tile map with noise-based generation.
package terrain

import (
	"fmt"

	"github.com/talgya/hexpath/internal/hexgrid"
	"github.com/talgya/hexpath/internal/nav"
)

// Map holds the tile grid. It implements nav.Oracle.
type Map struct {
	tiles  map[hexgrid.HexCoord]bool // coord -> walkable
	radius int
}

var _ nav.Oracle = (*Map)(nil)

// NewMap creates an empty tile map with the given nominal radius.
func NewMap(radius int) *Map {
	return &Map{
		tiles:  make(map[hexgrid.HexCoord]bool),
		radius: radius,
	}
}

// Radius returns the nominal grid radius.
func (m *Map) Radius() int {
	return m.radius
}

// SetTile adds or replaces a tile.
func (m *Map) SetTile(c hexgrid.HexCoord, walkable bool) {
	m.tiles[c] = walkable
}

// SetWalkable changes an existing tile's passability. Returns false if the
// tile does not exist.
func (m *Map) SetWalkable(c hexgrid.HexCoord, walkable bool) bool {
	if _, ok := m.tiles[c]; !ok {
		return false
	}
	m.tiles[c] = walkable
	return true
}

// AllTiles returns every tile in the map.
func (m *Map) AllTiles() []nav.Tile {
	tiles := make([]nav.Tile, 0, len(m.tiles))
	for c, w := range m.tiles {
		tiles = append(tiles, nav.Tile{Coord: c, Walkable: w})
	}
	return tiles
}

// HasTile reports whether a tile exists at the coordinate.
func (m *Map) HasTile(c hexgrid.HexCoord) bool {
	_, ok := m.tiles[c]
	return ok
}

// IsWalkable reports whether the tile exists and is traversable.
func (m *Map) IsWalkable(c hexgrid.HexCoord) bool {
	return m.tiles[c]
}

// TileCount returns the total number of tiles.
func (m *Map) TileCount() int {
	return len(m.tiles)
}

// WalkableCount returns the number of traversable tiles.
func (m *Map) WalkableCount() int {
	n := 0
	for _, w := range m.tiles {
		if w {
			n++
		}
	}
	return n
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, tiles=%d, walkable=%d)", m.radius, m.TileCount(), m.WalkableCount())
}
