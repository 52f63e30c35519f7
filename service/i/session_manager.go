package i

import (
	"context"

	"github.com/beka-birhanu/gridpath/grid"
	"github.com/google/uuid"
)

// GridSpec describes how to (re)build a session grid.
// Maze grids use Width and Height as corridor counts.
type GridSpec struct {
	Width               int
	Height              int
	ObstacleProbability float64
	Maze                bool
}

// CreateSessionRequest holds the initial state of a new session. A grid
// without dimensions gets the default size. A nil Start or Goal gets the
// default endpoint for the generated grid.
type CreateSessionRequest struct {
	Grid  GridSpec
	Start *grid.Coordinate
	Goal  *grid.Coordinate
	Seed  *int64 // reproducible generation when set
}

// SessionManager owns path finding sessions on behalf of operators.
type SessionManager interface {
	Create(ctx context.Context, owner uuid.UUID, req CreateSessionRequest) (*SessionRecord, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*SessionRecord, error)
	List(ctx context.Context, owner uuid.UUID) ([]*SessionRecord, error)
	Render(ctx context.Context, owner, id uuid.UUID) (string, error)
	SetStart(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*SessionRecord, error)
	SetGoal(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*SessionRecord, error)
	Regenerate(ctx context.Context, owner, id uuid.UUID, spec GridSpec) (*SessionRecord, error)
	AddObstacle(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*SessionRecord, bool, error)
	ClearObstacle(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*SessionRecord, bool, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}
