// Projection between axial hex coordinates and continuous world positions,
// plus range, ring, and line enumeration over the grid.
package hexgrid

import "math"

const sqrt3 = 1.7320508075688772

// Point is a position in continuous world space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout projects hex coordinates to world positions and back for a
// pointy-top grid with a fixed hex size.
type Layout struct {
	Size float64 // Distance from hex center to any corner.
}

// NewLayout creates a layout with the given hex size.
func NewLayout(size float64) Layout {
	return Layout{Size: size}
}

// ToWorld returns the world position of the hex center. Exact, no rounding.
func (l Layout) ToWorld(h HexCoord) Point {
	q := float64(h.Q)
	r := float64(h.R)
	return Point{
		X: l.Size * (sqrt3*q + sqrt3/2*r),
		Y: l.Size * (1.5 * r),
	}
}

// ToHex returns the hex containing the given world position. Applies the
// inverse transform followed by cube rounding, so ToHex(ToWorld(h)) == h
// for every integer coordinate h.
func (l Layout) ToHex(p Point) HexCoord {
	q := (sqrt3/3*p.X - p.Y/3) / l.Size
	r := (2.0 / 3 * p.Y) / l.Size
	return roundCube(q, r)
}

// roundCube snaps a fractional axial coordinate to the nearest valid hex.
// Each cube component is rounded independently; the component with the
// largest rounding error is recomputed from the other two so that
// q + r + s = 0 holds after rounding.
func roundCube(fq, fr float64) HexCoord {
	fs := -fq - fr

	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	// s is implicit in HexCoord, no need to recompute it here.

	return HexCoord{Q: int(q), R: int(r)}
}

// InRange returns all coordinates within the given cube distance of center,
// including center itself. Enumerates column bounds per q, O(radius²) total.
func InRange(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	result := make([]HexCoord, 0, 3*radius*(radius+1)+1)
	for q := -radius; q <= radius; q++ {
		lo := max(-radius, -q-radius)
		hi := min(radius, -q+radius)
		for r := lo; r <= hi; r++ {
			result = append(result, HexCoord{Q: center.Q + q, R: center.R + r})
		}
	}
	return result
}

// Ring returns the coordinates at exactly the given cube distance from
// center, walking the boundary from a fixed starting corner. Radius 0
// returns the center itself.
func Ring(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	if radius == 0 {
		return []HexCoord{center}
	}
	result := make([]HexCoord, 0, 6*radius)
	h := center.Add(HexCoord{Q: Directions[4].Q * radius, R: Directions[4].R * radius})
	for d := 0; d < 6; d++ {
		for i := 0; i < radius; i++ {
			result = append(result, h)
			h = h.Neighbor(d)
		}
	}
	return result
}

// Line returns the hexes on the straight line from a to b inclusive,
// Distance(a, b)+1 points via cube interpolation and rounding. Returns a
// single point when a equals b.
func Line(a, b HexCoord) []HexCoord {
	n := Distance(a, b)
	if n == 0 {
		return []HexCoord{a}
	}
	result := make([]HexCoord, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		fq := lerp(float64(a.Q), float64(b.Q), t)
		fr := lerp(float64(a.R), float64(b.R), t)
		result = append(result, roundCube(fq, fr))
	}
	return result
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
