// Package sessionapi exposes path finding sessions over HTTP.
package sessionapi

import (
	"time"

	"github.com/beka-birhanu/gridpath/grid"
	"github.com/beka-birhanu/gridpath/service/i"
)

// GridRequest describes a grid to generate. Width and Height count corridors
// when Maze is set. A nil ObstacleProbability uses the controller default.
type GridRequest struct {
	Width               int      `json:"width" binding:"gte=0"`
	Height              int      `json:"height" binding:"gte=0"`
	ObstacleProbability *float64 `json:"obstacle_probability"`
	Maze                bool     `json:"maze"`
}

func (r GridRequest) spec(defaultProbability float64) i.GridSpec {
	p := defaultProbability
	if r.ObstacleProbability != nil {
		p = *r.ObstacleProbability
	}
	return i.GridSpec{
		Width:               r.Width,
		Height:              r.Height,
		ObstacleProbability: p,
		Maze:                r.Maze,
	}
}

// CreateSessionRequest is the body of POST /sessions. Leaving width and
// height out generates a board of the default size. Leaving start or goal
// out uses the default endpoint for that board.
type CreateSessionRequest struct {
	GridRequest
	Start *grid.Coordinate `json:"start"`
	Goal  *grid.Coordinate `json:"goal"`
	Seed  *int64           `json:"seed"`
}

// SessionResponse is the public view of a stored session.
type SessionResponse struct {
	ID         string            `json:"id"`
	Version    int64             `json:"version"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Obstacles  [][]bool          `json:"obstacles"`
	Start      grid.Coordinate   `json:"start"`
	Goal       grid.Coordinate   `json:"goal"`
	Path       []grid.Coordinate `json:"path"`
	PathLength int               `json:"path_length"`
	Found      bool              `json:"found"`
	Expanded   int               `json:"expanded"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ObstacleResponse reports whether an obstacle edit touched the grid.
type ObstacleResponse struct {
	Applied bool             `json:"applied"`
	Session *SessionResponse `json:"session"`
}

func newSessionResponse(r *i.SessionRecord) *SessionResponse {
	snap := r.Snapshot
	path := snap.Path
	if path == nil {
		path = []grid.Coordinate{}
	}
	return &SessionResponse{
		ID:         r.ID.String(),
		Version:    r.Version,
		Width:      snap.Width,
		Height:     snap.Height,
		Obstacles:  snap.Obstacles,
		Start:      snap.Start,
		Goal:       snap.Goal,
		Path:       path,
		PathLength: len(path),
		Found:      snap.Found,
		Expanded:   snap.Expanded,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
