// Package hexgrid provides axial hex coordinates and the projection between
// grid space and continuous world space.
// Uses axial coordinates (q, r) with a derived third cube component.
package hexgrid

import "fmt"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
// HexCoord is comparable and is used directly as a map key throughout.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Directions defines the six neighbor offsets in axial coordinates,
// numbered 0-5 starting east.
var Directions = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Add returns the component-wise sum of two coordinates.
func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R}
}

// Neighbors returns the six adjacent hex coordinates in direction order.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range Directions {
		result[i] = h.Add(dir)
	}
	return result
}

// Neighbor returns the adjacent coordinate in the given direction.
// Directions wrap modulo 6, including for negative inputs.
func (h HexCoord) Neighbor(direction int) HexCoord {
	d := ((direction % 6) + 6) % 6
	return h.Add(Directions[d])
}

// Distance returns the hex distance between two coordinates: the maximum
// of the three absolute cube-component differences. Symmetric, and zero
// exactly when the coordinates are equal.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// String formats the coordinate as (q, r).
func (h HexCoord) String() string {
	return fmt.Sprintf("(%d, %d)", h.Q, h.R)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
