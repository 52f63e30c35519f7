package grid

import (
	"fmt"
	"math"
	"math/rand"
)

// Source is the randomness used by the generators.
// *rand.Rand satisfies it; tests pass a seeded one for reproducible boards.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// defaultSource draws from the math/rand package-level generator.
type defaultSource struct{}

func (defaultSource) Float64() float64 { return rand.Float64() }
func (defaultSource) Intn(n int) int   { return rand.Intn(n) }

func sourceOrDefault(src Source) Source {
	if src == nil {
		return defaultSource{}
	}
	return src
}

// GenerateRandom creates a width x height grid where every cell is
// independently an obstacle with probability p. Cells are drawn row by row.
// A nil src uses the package default generator.
func GenerateRandom(width, height int, p float64, src Source) (*Grid, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProbability, p)
	}

	g, err := New(width, height)
	if err != nil {
		return nil, err
	}

	src = sourceOrDefault(src)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[y][x] = src.Float64() < p
		}
	}

	return g, nil
}
