// Tile generation using layered simplex noise. Elevation classifies each
// hex as walkable land, impassable water, or impassable peaks.
package terrain

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexpath/internal/hexgrid"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Radius   int     // Hex grid radius.
	Seed     int64   // Random seed (0 = random).
	WaterLvl float64 // Elevation below this is impassable water (0.0-1.0).
	PeakLvl  float64 // Elevation above this is impassable peaks (0.0-1.0).
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:   22,
		Seed:     0,
		WaterLvl: 0.25,
		PeakLvl:  0.78,
	}
}

// SmallTestConfig returns a tiny grid for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:   5,
		Seed:     42,
		WaterLvl: 0.20,
		PeakLvl:  0.85,
	}
}

// Generate creates a complete tile map. Deterministic for a fixed non-zero
// seed.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	noise := opensimplex.NewNormalized(seed)
	m := NewMap(cfg.Radius)

	for _, coord := range hexgrid.InRange(hexgrid.HexCoord{}, cfg.Radius) {
		// Hex axial -> cartesian for noise sampling: x = q + r/2, y = r*sqrt(3)/2.
		x := float64(coord.Q) + float64(coord.R)*0.5
		y := float64(coord.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(noise, x, y, 4, 0.08, 0.5)

		walkable := elev >= cfg.WaterLvl && elev <= cfg.PeakLvl
		m.SetTile(coord, walkable)
	}

	return m
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
