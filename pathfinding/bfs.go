// Package pathfinding finds shortest paths on a grid.Grid.
//
// The search is an unweighted breadth-first search over the 4-connected
// neighbor graph of passable cells. Neighbors are expanded in the fixed
// order of grid.Steps (east, west, south, north), which makes results
// deterministic for a given grid, start and goal.
package pathfinding

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/gridpath/grid"
)

var (
	ErrEmptyPath      = errors.New("path is empty")
	ErrPathEndpoints  = errors.New("path does not connect start and goal")
	ErrPathStep       = errors.New("path contains a non unit step")
	ErrPathRevisit    = errors.New("path visits a cell twice")
	ErrPathOutOfGrid  = errors.New("path leaves the grid")
	ErrPathOnObstacle = errors.New("path crosses an obstacle")
)

// Result contains the outcome of a search.
type Result struct {
	Path     []grid.Coordinate // start to goal inclusive; nil when not found
	Found    bool
	Expanded int // number of cells popped from the frontier
}

// FindPath returns a shortest path from start to goal on g.
//
// Start or goal out of bounds yields a not found result without searching.
// When start equals goal the path is [start], whatever the cell holds.
// The obstacle flag of start is never consulted otherwise: the frontier is
// seeded with it and only cells being entered must be passable.
func FindPath(g *grid.Grid, start, goal grid.Coordinate) Result {
	if !g.InBounds(start) || !g.InBounds(goal) {
		return Result{}
	}

	if start == goal {
		return Result{Path: []grid.Coordinate{start}, Found: true}
	}

	frontier := newQueue(start)
	// cameFrom doubles as the visited set; start points at itself.
	cameFrom := map[grid.Coordinate]grid.Coordinate{start: start}
	expanded := 0

	for frontier.Len() > 0 {
		current := frontier.Pop()
		expanded++
		if current == goal {
			break
		}

		for _, step := range grid.Steps {
			next := current.Add(step)
			if !g.InBounds(next) || g.IsObstacle(next) {
				continue
			}
			if _, seen := cameFrom[next]; seen {
				continue
			}
			cameFrom[next] = current
			frontier.Push(next)
		}
	}

	if _, reached := cameFrom[goal]; !reached {
		return Result{Expanded: expanded}
	}

	return Result{
		Path:     reconstructPath(cameFrom, start, goal),
		Found:    true,
		Expanded: expanded,
	}
}

// reconstructPath walks predecessors back from goal and reverses the walk.
func reconstructPath(cameFrom map[grid.Coordinate]grid.Coordinate, start, goal grid.Coordinate) []grid.Coordinate {
	path := []grid.Coordinate{goal}
	for current := goal; current != start; {
		current = cameFrom[current]
		path = append(path, current)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Validate checks that path is a legal walk on g from start to goal: unit
// 4-connected steps, no repeated cell, every cell after start in bounds and
// passable.
func Validate(g *grid.Grid, path []grid.Coordinate, start, goal grid.Coordinate) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	if path[0] != start || path[len(path)-1] != goal {
		return fmt.Errorf("%w: got %s..%s, want %s..%s", ErrPathEndpoints, path[0], path[len(path)-1], start, goal)
	}

	seen := make(map[grid.Coordinate]struct{}, len(path))
	for i, c := range path {
		if !g.InBounds(c) {
			return fmt.Errorf("%w: %s", ErrPathOutOfGrid, c)
		}
		if i > 0 && g.IsObstacle(c) {
			return fmt.Errorf("%w: %s", ErrPathOnObstacle, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s", ErrPathRevisit, c)
		}
		seen[c] = struct{}{}

		if i > 0 && manhattan(path[i-1], c) != 1 {
			return fmt.Errorf("%w: %s -> %s", ErrPathStep, path[i-1], c)
		}
	}
	return nil
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b grid.Coordinate) int {
	return manhattan(a, b)
}

func manhattan(a, b grid.Coordinate) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
