package session

import (
	"math/rand"
	"testing"

	"github.com/beka-birhanu/gridpath/grid"
	"github.com/beka-birhanu/gridpath/pathfinding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(x, y int) grid.Coordinate {
	return grid.Coordinate{X: x, Y: y}
}

func openSession(t *testing.T, width, height int, start, goal grid.Coordinate) *Session {
	t.Helper()
	g, err := grid.New(width, height)
	require.NoError(t, err)
	s, err := New(Config{Grid: g, Start: start, Goal: goal})
	require.NoError(t, err)
	return s
}

// assertFresh checks that the held path is exactly what a new search returns.
func assertFresh(t *testing.T, s *Session) {
	t.Helper()
	want := pathfinding.FindPath(s.grid, s.start, s.goal)
	assert.Equal(t, want.Path, s.result.Path)
	assert.Equal(t, want.Found, s.Found())
	assert.True(t, s.Searched())
}

func TestNewComputesInitialPath(t *testing.T) {
	s := openSession(t, 5, 5, c(0, 1), c(4, 4))

	path := s.Path()
	require.Len(t, path, 8)
	assert.Equal(t, c(0, 1), path[0])
	assert.Equal(t, c(4, 4), path[7])
	assert.True(t, s.Found())
	assert.True(t, s.Searched())
	assertFresh(t, s)
}

func TestNewFromDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = rand.New(rand.NewSource(3))

	s, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Width())
	assert.Equal(t, 5, s.Height())
	assert.Equal(t, c(0, 1), s.Start())
	assert.Equal(t, c(4, 4), s.Goal())
	assertFresh(t, s)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Width: 0, Height: 3})
	assert.ErrorIs(t, err, grid.ErrInvalidDimension)

	_, err = New(Config{Width: 3, Height: 3, ObstacleProbability: 2})
	assert.ErrorIs(t, err, grid.ErrInvalidProbability)
}

func TestSetStartAndGoal(t *testing.T) {
	s := openSession(t, 4, 4, c(0, 0), c(3, 3))

	s.SetStart(c(3, 0))
	assert.Len(t, s.Path(), 4)
	assertFresh(t, s)

	first := s.Path()
	s.SetStart(c(3, 0))
	assert.Equal(t, first, s.Path(), "setting the same start twice yields the same path")

	s.SetGoal(c(3, 0))
	assert.Equal(t, []grid.Coordinate{c(3, 0)}, s.Path())

	s.SetGoal(c(9, 9))
	assert.False(t, s.Found())
	assert.Empty(t, s.Path())
	assert.True(t, s.Searched())
}

func TestAddObstacle(t *testing.T) {
	t.Run("reroutes around the blocked cell", func(t *testing.T) {
		s := openSession(t, 3, 2, c(0, 0), c(2, 0))
		require.Equal(t, []grid.Coordinate{c(0, 0), c(1, 0), c(2, 0)}, s.Path())

		assert.True(t, s.AddObstacle(c(1, 0)))
		assert.True(t, s.IsObstacle(c(1, 0)))
		assert.Equal(t, []grid.Coordinate{c(0, 0), c(0, 1), c(1, 1), c(2, 1), c(2, 0)}, s.Path())
		assertFresh(t, s)
	})

	t.Run("path becomes empty when no alternative exists", func(t *testing.T) {
		s := openSession(t, 3, 1, c(0, 0), c(2, 0))
		assert.True(t, s.AddObstacle(c(1, 0)))
		assert.False(t, s.Found())
		assert.Empty(t, s.Path())
	})

	t.Run("walled goal", func(t *testing.T) {
		s := openSession(t, 3, 3, c(0, 0), c(1, 1))
		for _, o := range []grid.Coordinate{c(1, 0), c(0, 1), c(2, 1), c(1, 2)} {
			s.AddObstacle(o)
		}
		assert.False(t, s.Found())
		assert.Empty(t, s.Path())
	})

	t.Run("out of bounds is ignored", func(t *testing.T) {
		s := openSession(t, 3, 3, c(0, 0), c(2, 2))
		before := s.Snapshot()

		assert.False(t, s.AddObstacle(c(3, 3)))
		assert.False(t, s.AddObstacle(c(-1, 0)))
		assert.Equal(t, before, s.Snapshot())
	})
}

func TestClearObstacle(t *testing.T) {
	s := openSession(t, 3, 1, c(0, 0), c(2, 0))
	s.AddObstacle(c(1, 0))
	require.False(t, s.Found())

	assert.True(t, s.ClearObstacle(c(1, 0)))
	assert.True(t, s.Found())
	assert.Len(t, s.Path(), 3)
	assert.False(t, s.ClearObstacle(c(5, 0)))
}

func TestRegenerate(t *testing.T) {
	s, err := New(Config{Width: 4, Height: 4, Start: c(0, 0), Goal: c(7, 7), Source: rand.New(rand.NewSource(11))})
	require.NoError(t, err)
	assert.False(t, s.Found())

	require.NoError(t, s.RegenerateGrid(8, 8, 0))
	assert.Equal(t, 8, s.Width())
	assert.Len(t, s.Path(), 15)
	assertFresh(t, s)

	before := s.Snapshot()
	assert.ErrorIs(t, s.RegenerateGrid(8, 8, -0.5), grid.ErrInvalidProbability)
	assert.ErrorIs(t, s.RegenerateGrid(0, 8, 0.5), grid.ErrInvalidDimension)
	assert.Equal(t, before, s.Snapshot(), "failed regenerate leaves the session unchanged")

	require.NoError(t, s.RegenerateMaze(4, 4))
	assert.Equal(t, 9, s.Width())
	s.SetStart(c(1, 1))
	assert.True(t, s.Found(), "odd cells of a perfect maze are connected")
	assertFresh(t, s)
	assert.ErrorIs(t, s.RegenerateMaze(0, 1), grid.ErrInvalidDimension)
}

func TestPathIsACopy(t *testing.T) {
	s := openSession(t, 3, 1, c(0, 0), c(2, 0))
	p := s.Path()
	p[1] = c(9, 9)
	assert.Equal(t, c(1, 0), s.Path()[1])

	g := s.Grid()
	require.NoError(t, g.SetObstacle(c(1, 0), true))
	assert.True(t, s.Found())
}

func TestString(t *testing.T) {
	s := openSession(t, 3, 2, c(0, 0), c(2, 0))
	s.AddObstacle(c(1, 0))

	assert.Equal(t, "S#G\n***\n", s.String())
}

func TestSnapshotRestore(t *testing.T) {
	src := rand.New(rand.NewSource(5))
	s, err := New(Config{Width: 12, Height: 9, ObstacleProbability: 0.25, Start: c(0, 0), Goal: c(11, 8), Source: src})
	require.NoError(t, err)

	snap := s.Snapshot()
	restored, err := Restore(snap, nil)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())

	t.Run("rejects mismatched dimensions", func(t *testing.T) {
		bad := s.Snapshot()
		bad.Width++
		_, err := Restore(bad, nil)
		assert.ErrorIs(t, err, grid.ErrInvalidDimension)
	})

	t.Run("rejects a path that disagrees with the grid", func(t *testing.T) {
		r := openSession(t, 3, 1, c(0, 0), c(2, 0))
		bad := r.Snapshot()
		bad.Obstacles[0][1] = true
		_, err := Restore(bad, nil)
		assert.Error(t, err)
	})
}
