package pathfinding

import (
	"math/rand"
	"testing"

	"github.com/beka-birhanu/gridpath/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(x, y int) grid.Coordinate {
	return grid.Coordinate{X: x, Y: y}
}

func mustGrid(t *testing.T, width, height int, obstacles ...grid.Coordinate) *grid.Grid {
	t.Helper()
	g, err := grid.New(width, height)
	require.NoError(t, err)
	for _, o := range obstacles {
		require.NoError(t, g.SetObstacle(o, true))
	}
	return g
}

// reachable floods from start without using FindPath.
func reachable(g *grid.Grid, start grid.Coordinate) map[grid.Coordinate]bool {
	seen := map[grid.Coordinate]bool{start: true}
	stack := []grid.Coordinate{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, step := range grid.Steps {
			n := cur.Add(step)
			if g.InBounds(n) && !g.IsObstacle(n) && !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return seen
}

func TestFindPathOpenGridIsManhattan(t *testing.T) {
	g := mustGrid(t, 7, 5)

	for sy := 0; sy < 5; sy++ {
		for sx := 0; sx < 7; sx++ {
			for _, goal := range []grid.Coordinate{c(0, 0), c(6, 4), c(3, 2), c(6, 0)} {
				start := c(sx, sy)
				res := FindPath(g, start, goal)
				require.True(t, res.Found, "%s -> %s", start, goal)
				assert.Len(t, res.Path, Manhattan(start, goal)+1)
				assert.NoError(t, Validate(g, res.Path, start, goal))
			}
		}
	}
}

func TestFindPathScenario5x5(t *testing.T) {
	g := mustGrid(t, 5, 5)

	res := FindPath(g, c(0, 1), c(4, 4))
	require.True(t, res.Found)
	require.Len(t, res.Path, 8)
	assert.Equal(t, c(0, 1), res.Path[0])
	assert.Equal(t, c(4, 4), res.Path[7])
	assert.NoError(t, Validate(g, res.Path, c(0, 1), c(4, 4)))
}

func TestFindPathTieBreakFollowsNeighborOrder(t *testing.T) {
	g := mustGrid(t, 3, 3)

	res := FindPath(g, c(0, 0), c(1, 1))
	require.True(t, res.Found)
	assert.Equal(t, []grid.Coordinate{c(0, 0), c(1, 0), c(1, 1)}, res.Path)
}

func TestFindPathStartEqualsGoal(t *testing.T) {
	g := mustGrid(t, 3, 3, c(2, 2))

	res := FindPath(g, c(1, 1), c(1, 1))
	assert.True(t, res.Found)
	assert.Equal(t, []grid.Coordinate{c(1, 1)}, res.Path)

	// No movement happens, so the obstacle flag does not matter.
	res = FindPath(g, c(2, 2), c(2, 2))
	assert.True(t, res.Found)
	assert.Equal(t, []grid.Coordinate{c(2, 2)}, res.Path)
}

func TestFindPathStartOnObstacleStillSearches(t *testing.T) {
	g := mustGrid(t, 3, 1, c(0, 0))

	res := FindPath(g, c(0, 0), c(2, 0))
	require.True(t, res.Found)
	assert.Equal(t, []grid.Coordinate{c(0, 0), c(1, 0), c(2, 0)}, res.Path)
}

func TestFindPathNotFound(t *testing.T) {
	t.Run("goal walled in", func(t *testing.T) {
		g := mustGrid(t, 3, 3, c(1, 0), c(0, 1), c(2, 1), c(1, 2))
		res := FindPath(g, c(0, 0), c(1, 1))
		assert.False(t, res.Found)
		assert.Empty(t, res.Path)
		assert.Positive(t, res.Expanded)
	})

	t.Run("goal is an obstacle", func(t *testing.T) {
		g := mustGrid(t, 3, 3, c(2, 2))
		res := FindPath(g, c(0, 0), c(2, 2))
		assert.False(t, res.Found)
		assert.Empty(t, res.Path)
	})

	t.Run("out of bounds endpoints skip the search", func(t *testing.T) {
		g := mustGrid(t, 3, 3)
		for _, pair := range [][2]grid.Coordinate{
			{c(-1, 0), c(2, 2)},
			{c(0, 0), c(3, 0)},
			{c(0, 5), c(0, 5)},
		} {
			res := FindPath(g, pair[0], pair[1])
			assert.False(t, res.Found)
			assert.Empty(t, res.Path)
			assert.Zero(t, res.Expanded)
		}
	})
}

func TestFindPathRoutesAroundObstacle(t *testing.T) {
	g := mustGrid(t, 3, 2)

	res := FindPath(g, c(0, 0), c(2, 0))
	require.Equal(t, []grid.Coordinate{c(0, 0), c(1, 0), c(2, 0)}, res.Path)

	require.NoError(t, g.SetObstacle(c(1, 0), true))
	res = FindPath(g, c(0, 0), c(2, 0))
	require.True(t, res.Found)
	assert.Len(t, res.Path, 5)
	assert.NotContains(t, res.Path, c(1, 0))
	assert.NoError(t, Validate(g, res.Path, c(0, 0), c(2, 0)))

	require.NoError(t, g.SetObstacle(c(1, 1), true))
	res = FindPath(g, c(0, 0), c(2, 0))
	assert.False(t, res.Found)
	assert.Empty(t, res.Path)
}

func TestFindPathRandomGrids(t *testing.T) {
	src := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		w, h := 1+src.Intn(15), 1+src.Intn(15)
		g, err := grid.GenerateRandom(w, h, 0.35, src)
		require.NoError(t, err)

		start := c(src.Intn(w), src.Intn(h))
		goal := c(src.Intn(w), src.Intn(h))
		require.NoError(t, g.SetObstacle(start, false))

		res := FindPath(g, start, goal)
		assert.Equal(t, reachable(g, start)[goal], res.Found, "grid %d\n%s", i, g)

		if res.Found {
			assert.NoError(t, Validate(g, res.Path, start, goal))
			assert.GreaterOrEqual(t, len(res.Path), Manhattan(start, goal)+1)
		}

		again := FindPath(g, start, goal)
		assert.Equal(t, res, again, "search must be deterministic")
	}
}

func TestValidate(t *testing.T) {
	g := mustGrid(t, 3, 3, c(1, 1))

	assert.ErrorIs(t, Validate(g, nil, c(0, 0), c(0, 0)), ErrEmptyPath)
	assert.ErrorIs(t, Validate(g, []grid.Coordinate{c(0, 0), c(1, 0)}, c(0, 0), c(2, 0)), ErrPathEndpoints)
	assert.ErrorIs(t, Validate(g, []grid.Coordinate{c(0, 0), c(2, 0)}, c(0, 0), c(2, 0)), ErrPathStep)
	assert.ErrorIs(t, Validate(g, []grid.Coordinate{c(0, 0), c(1, 0), c(2, 1)}, c(0, 0), c(2, 1)), ErrPathStep)
	assert.ErrorIs(t, Validate(g, []grid.Coordinate{c(1, 0), c(1, 1), c(1, 2)}, c(1, 0), c(1, 2)), ErrPathOnObstacle)
	assert.ErrorIs(t, Validate(g, []grid.Coordinate{c(0, 0), c(1, 0), c(0, 0), c(0, 1)}, c(0, 0), c(0, 1)), ErrPathRevisit)
	assert.ErrorIs(t, Validate(g, []grid.Coordinate{c(2, 0), c(3, 0)}, c(2, 0), c(3, 0)), ErrPathOutOfGrid)
}
