package pathfinding

import (
	"github.com/beka-birhanu/gridpath/grid"
	"gopkg.in/eapache/queue.v1"
)

// coordQueue is the FIFO of coordinates waiting to be expanded, a typed view
// over a ring buffer.
type coordQueue struct {
	ring *queue.Queue
}

func newQueue(first grid.Coordinate) *coordQueue {
	q := &coordQueue{ring: queue.New()}
	q.Push(first)
	return q
}

func (q *coordQueue) Len() int { return q.ring.Length() }

func (q *coordQueue) Push(c grid.Coordinate) {
	q.ring.Add(c)
}

func (q *coordQueue) Pop() grid.Coordinate {
	return q.ring.Remove().(grid.Coordinate)
}
