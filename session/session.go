// Package session keeps a grid, a start and a goal together with the
// shortest path between them. Every mutator recomputes the path before it
// returns, so the path always reflects the current grid, start and goal.
//
// A Session is not safe for concurrent use; hosts serialize access.
package session

import (
	"strings"

	"github.com/beka-birhanu/gridpath/grid"
	"github.com/beka-birhanu/gridpath/pathfinding"
)

const (
	DefaultWidth               = 5
	DefaultHeight              = 5
	DefaultObstacleProbability = 0.2

	pathGlyph  = '*'
	startGlyph = 'S'
	goalGlyph  = 'G'
)

// Config holds the explicit initial state of a session.
// When Grid is set it is used as is (and owned by the session from then on);
// otherwise a random grid of Width x Height is generated with
// ObstacleProbability.
type Config struct {
	Grid                *grid.Grid
	Width               int
	Height              int
	ObstacleProbability float64
	Start               grid.Coordinate
	Goal                grid.Coordinate
	Source              grid.Source // randomness for generators; nil uses the default
}

// DefaultConfig returns a 5x5 board with 20% obstacles, start (0,1) and goal (4,4).
func DefaultConfig() Config {
	return Config{
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		ObstacleProbability: DefaultObstacleProbability,
		Start:               grid.Coordinate{X: 0, Y: 1},
		Goal:                grid.Coordinate{X: 4, Y: 4},
	}
}

// Session orchestrates grid generation, mutation and path search.
type Session struct {
	grid     *grid.Grid
	start    grid.Coordinate
	goal     grid.Coordinate
	source   grid.Source
	result   pathfinding.Result
	searched bool
}

// New creates a session from c and computes the initial path.
func New(c Config) (*Session, error) {
	g := c.Grid
	if g == nil {
		var err error
		g, err = grid.GenerateRandom(c.Width, c.Height, c.ObstacleProbability, c.Source)
		if err != nil {
			return nil, err
		}
	}

	s := &Session{
		grid:   g,
		start:  c.Start,
		goal:   c.Goal,
		source: c.Source,
	}
	s.recompute()
	return s, nil
}

func (s *Session) recompute() {
	s.result = pathfinding.FindPath(s.grid, s.start, s.goal)
	s.searched = true
}

// SetStart moves the start and recomputes the path.
func (s *Session) SetStart(c grid.Coordinate) {
	s.start = c
	s.recompute()
}

// SetGoal moves the goal and recomputes the path.
func (s *Session) SetGoal(c grid.Coordinate) {
	s.goal = c
	s.recompute()
}

// RegenerateGrid replaces the grid with a random one and recomputes the path.
// On error the session is left unchanged.
func (s *Session) RegenerateGrid(width, height int, p float64) error {
	g, err := grid.GenerateRandom(width, height, p, s.source)
	if err != nil {
		return err
	}
	s.grid = g
	s.recompute()
	return nil
}

// RegenerateMaze replaces the grid with a maze of cellsW x cellsH corridors
// and recomputes the path. On error the session is left unchanged.
func (s *Session) RegenerateMaze(cellsW, cellsH int) error {
	g, err := grid.GenerateMaze(cellsW, cellsH, s.source)
	if err != nil {
		return err
	}
	s.grid = g
	s.recompute()
	return nil
}

// AddObstacle blocks the cell at c and recomputes the path.
// Out of bounds coordinates are ignored and false is returned.
func (s *Session) AddObstacle(c grid.Coordinate) bool {
	return s.setObstacle(c, true)
}

// ClearObstacle frees the cell at c and recomputes the path.
// Out of bounds coordinates are ignored and false is returned.
func (s *Session) ClearObstacle(c grid.Coordinate) bool {
	return s.setObstacle(c, false)
}

func (s *Session) setObstacle(c grid.Coordinate, obstacle bool) bool {
	if err := s.grid.SetObstacle(c, obstacle); err != nil {
		return false
	}
	s.recompute()
	return true
}

func (s *Session) Width() int             { return s.grid.Width() }
func (s *Session) Height() int            { return s.grid.Height() }
func (s *Session) Start() grid.Coordinate { return s.start }
func (s *Session) Goal() grid.Coordinate  { return s.goal }
func (s *Session) Found() bool            { return s.result.Found }
func (s *Session) Searched() bool         { return s.searched }
func (s *Session) Expanded() int          { return s.result.Expanded }

// InBounds reports whether c addresses a cell of the current grid.
func (s *Session) InBounds(c grid.Coordinate) bool {
	return s.grid.InBounds(c)
}

// IsObstacle reports whether the cell at c is blocked. c must be in bounds.
func (s *Session) IsObstacle(c grid.Coordinate) bool {
	return s.grid.IsObstacle(c)
}

// Path returns a copy of the current path. It is empty when the goal is
// unreachable.
func (s *Session) Path() []grid.Coordinate {
	if len(s.result.Path) == 0 {
		return nil
	}
	return append([]grid.Coordinate(nil), s.result.Path...)
}

// Grid returns a copy of the current grid.
func (s *Session) Grid() *grid.Grid {
	return s.grid.Clone()
}

// String renders the grid with the path, start and goal drawn over it.
func (s *Session) String() string {
	rows := strings.Split(strings.TrimSuffix(s.grid.String(), "\n"), "\n")
	canvas := make([][]rune, len(rows))
	for y, row := range rows {
		canvas[y] = []rune(row)
	}

	mark := func(c grid.Coordinate, r rune) {
		if s.grid.InBounds(c) {
			canvas[c.Y][c.X] = r
		}
	}
	for _, c := range s.result.Path {
		mark(c, pathGlyph)
	}
	mark(s.start, startGlyph)
	mark(s.goal, goalGlyph)

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
