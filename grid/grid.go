/*
Package grid provides the occupancy map used by the path finder.

A Grid is a rectangular board of cells, each either passable or an obstacle.
Cells are addressed by Coordinate{X, Y} with X growing to the east and Y to
the south; storage is row-major ([y][x]).

The package includes random obstacle generation with an injectable source,
a maze generator based on Wilson's algorithm and ASCII visualization.
*/
package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxDimension is the largest width or height accepted by New.
	MaxDimension = 1024

	obstacleGlyph = '#'
	freeGlyph     = '.'
)

var (
	ErrInvalidDimension   = errors.New("invalid grid dimension")
	ErrInvalidProbability = errors.New("obstacle probability must be within [0, 1]")
	ErrOutOfBounds        = errors.New("coordinate is out of bounds")
)

// Coordinate is the position of a single cell.
type Coordinate struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// String returns the coordinate as "(x,y)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c offset by d.
func (c Coordinate) Add(d Coordinate) Coordinate {
	return Coordinate{X: c.X + d.X, Y: c.Y + d.Y}
}

// InBounds reports whether c lies on a width x height board.
func InBounds(c Coordinate, width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// Grid is a width x height occupancy map.
type Grid struct {
	width  int
	height int
	cells  [][]bool // cells[y][x] is true when the cell is an obstacle
}

// New creates a grid with every cell passable.
func New(width, height int) (*Grid, error) {
	if err := validateDimensions(width, height); err != nil {
		return nil, err
	}

	cells := make([][]bool, height)
	for y := range cells {
		cells[y] = make([]bool, width)
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}, nil
}

// FromRows builds a grid from obstacle rows indexed [y][x].
// The rows are copied.
func FromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDimension)
	}

	width := len(rows[0])
	g, err := New(width, len(rows))
	if err != nil {
		return nil, err
	}

	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimension, y, len(row), width)
		}
		copy(g.cells[y], row)
	}

	return g, nil
}

func validateDimensions(width, height int) error {
	if min(width, height) <= 0 || max(width, height) > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether c addresses a cell of g.
func (g *Grid) InBounds(c Coordinate) bool {
	return InBounds(c, g.width, g.height)
}

// IsObstacle reports whether the cell at c is blocked.
// c must be in bounds; callers check with InBounds first.
func (g *Grid) IsObstacle(c Coordinate) bool {
	return g.cells[c.Y][c.X]
}

// SetObstacle marks or clears the obstacle flag of the cell at c.
// Out of bounds coordinates leave the grid untouched and return ErrOutOfBounds.
func (g *Grid) SetObstacle(c Coordinate, obstacle bool) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: %s on %dx%d grid", ErrOutOfBounds, c, g.width, g.height)
	}
	g.cells[c.Y][c.X] = obstacle
	return nil
}

// ObstacleCount returns the number of blocked cells.
func (g *Grid) ObstacleCount() int {
	count := 0
	for _, row := range g.cells {
		for _, blocked := range row {
			if blocked {
				count++
			}
		}
	}
	return count
}

// Rows returns a copy of the cells indexed [y][x].
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.height)
	for y := range g.cells {
		rows[y] = append([]bool(nil), g.cells[y]...)
	}
	return rows
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		cells:  g.Rows(),
	}
}

// String provides a textual representation of the grid, one line per row
// starting at y = 0.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)

	for _, row := range g.cells {
		for _, blocked := range row {
			if blocked {
				sb.WriteRune(obstacleGlyph)
			} else {
				sb.WriteRune(freeGlyph)
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
