package grid

import "fmt"

// Steps lists the four unit moves in the order used by the search:
// east, west, south, north.
var Steps = [4]Coordinate{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// mazeCarver lays a perfect maze over a grid that starts fully blocked.
// Maze cell (cx, cy) is the grid cell (2cx+1, 2cy+1); the grid cell between
// two adjacent maze cells is the wall separating them.
type mazeCarver struct {
	cellsW int
	cellsH int
	grid   *Grid
	src    Source
}

// GenerateMaze creates a (2*cellsW+1) x (2*cellsH+1) grid holding a perfect
// maze built with Wilson's algorithm: every open cell is reachable from every
// other open cell through exactly one corridor.
func GenerateMaze(cellsW, cellsH int, src Source) (*Grid, error) {
	if min(cellsW, cellsH) <= 0 {
		return nil, fmt.Errorf("%w: maze of %dx%d cells", ErrInvalidDimension, cellsW, cellsH)
	}

	g, err := New(2*cellsW+1, 2*cellsH+1)
	if err != nil {
		return nil, err
	}
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = true
		}
	}

	m := &mazeCarver{cellsW: cellsW, cellsH: cellsH, grid: g, src: sourceOrDefault(src)}
	m.carve()
	return g, nil
}

func (m *mazeCarver) randomCell() Coordinate {
	return Coordinate{X: m.src.Intn(m.cellsW), Y: m.src.Intn(m.cellsH)}
}

func (m *mazeCarver) randomUnvisitedCell(visited map[Coordinate]struct{}) Coordinate {
	for {
		c := m.randomCell()
		if _, ok := visited[c]; !ok {
			return c
		}
	}
}

func (m *mazeCarver) neighbors(c Coordinate) []Coordinate {
	result := make([]Coordinate, 0, len(Steps))
	for _, step := range Steps {
		n := c.Add(step)
		if InBounds(n, m.cellsW, m.cellsH) {
			result = append(result, n)
		}
	}
	return result
}

func (m *mazeCarver) open(c Coordinate) {
	m.grid.cells[2*c.Y+1][2*c.X+1] = false
}

// openWall clears the cell between two adjacent maze cells.
func (m *mazeCarver) openWall(from, to Coordinate) {
	m.grid.cells[from.Y+to.Y+1][from.X+to.X+1] = false
}

// randomWalk wanders from an unvisited cell until it hits the visited set.
// Revisiting a cell overwrites its exit, which erases the loop.
func (m *mazeCarver) randomWalk(visited map[Coordinate]struct{}) (Coordinate, map[Coordinate]Coordinate) {
	start := m.randomUnvisitedCell(visited)
	exits := make(map[Coordinate]Coordinate)
	cell := start

	for {
		neighbors := m.neighbors(cell)
		next := neighbors[m.src.Intn(len(neighbors))]
		exits[cell] = next
		if _, ok := visited[next]; ok {
			break
		}
		cell = next
	}

	return start, exits
}

func (m *mazeCarver) carve() {
	visited := make(map[Coordinate]struct{})
	root := m.randomCell()
	visited[root] = struct{}{}
	m.open(root)

	for len(visited) < m.cellsW*m.cellsH {
		cell, exits := m.randomWalk(visited)
		for {
			if _, ok := visited[cell]; ok {
				break
			}
			next := exits[cell]
			m.open(cell)
			m.openWall(cell, next)
			visited[cell] = struct{}{}
			cell = next
		}
	}
}
