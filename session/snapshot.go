package session

import (
	"fmt"

	"github.com/beka-birhanu/gridpath/grid"
	"github.com/beka-birhanu/gridpath/pathfinding"
)

// Snapshot is a read-only copy of a session for rendering and persistence.
type Snapshot struct {
	Width     int               `json:"width" bson:"width"`
	Height    int               `json:"height" bson:"height"`
	Obstacles [][]bool          `json:"obstacles" bson:"obstacles"`
	Start     grid.Coordinate   `json:"start" bson:"start"`
	Goal      grid.Coordinate   `json:"goal" bson:"goal"`
	Path      []grid.Coordinate `json:"path" bson:"path"`
	Found     bool              `json:"found" bson:"found"`
	Searched  bool              `json:"searched" bson:"searched"`
	Expanded  int               `json:"expanded" bson:"expanded"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Width:     s.grid.Width(),
		Height:    s.grid.Height(),
		Obstacles: s.grid.Rows(),
		Start:     s.start,
		Goal:      s.goal,
		Path:      s.Path(),
		Found:     s.result.Found,
		Searched:  s.searched,
		Expanded:  s.result.Expanded,
	}
}

// Restore rebuilds a session from a snapshot. The path is recomputed rather
// than trusted; a stored path that disagrees with the recomputed one is an
// error since it means the record was written by a different search.
func Restore(snap Snapshot, src grid.Source) (*Session, error) {
	g, err := grid.FromRows(snap.Obstacles)
	if err != nil {
		return nil, err
	}
	if g.Width() != snap.Width || g.Height() != snap.Height {
		return nil, fmt.Errorf("%w: snapshot says %dx%d, rows are %dx%d",
			grid.ErrInvalidDimension, snap.Width, snap.Height, g.Width(), g.Height())
	}

	s, err := New(Config{Grid: g, Start: snap.Start, Goal: snap.Goal, Source: src})
	if err != nil {
		return nil, err
	}

	if snap.Found {
		if err := pathfinding.Validate(g, snap.Path, snap.Start, snap.Goal); err != nil {
			return nil, fmt.Errorf("stored path: %w", err)
		}
	}
	if snap.Found != s.Found() || len(snap.Path) != len(s.result.Path) {
		return nil, fmt.Errorf("stored path disagrees with grid: found=%v len=%d, recomputed found=%v len=%d",
			snap.Found, len(snap.Path), s.Found(), len(s.result.Path))
	}

	return s, nil
}
