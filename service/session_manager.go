package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/gridpath/grid"
	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/beka-birhanu/gridpath/session"
	"github.com/google/uuid"
)

const (
	defaultLockPrefix  = "gridpath"
	sessionLockKeyFmt  = "%s:session:%s:lock"
	operatorLockKeyFmt = "%s:operator:%s:lock"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotSessionOwner      = errors.New("session belongs to another operator")
	ErrSessionQuotaExceeded = errors.New("session quota exceeded")
)

var _ i.SessionManager = &SessionManager{}

// liveSession is a session restored in this process, tagged with the record
// version it was built from. version is guarded by the manager lock, core by
// the embedded mutex.
type liveSession struct {
	core    *session.Session
	version int64
	sync.Mutex
}

// SessionManager stores sessions in the repository and keeps the ones in use
// restored in memory. Every mutation runs under a lock shared by all replicas,
// reloads the record when another replica has written a newer version, applies
// the change and writes the record back.
type SessionManager struct {
	repo       i.SessionRepo
	operators  i.OperatorRepo
	cache      i.SnapshotCache
	locker     i.Locker
	logger        i.Logger
	defaultWidth  int
	defaultHeight int
	lockPrefix    string
	sessions      map[uuid.UUID]*liveSession
	sync.RWMutex
}

// Config holds the dependencies of a SessionManager.
type Config struct {
	Repo       i.SessionRepo
	Operators  i.OperatorRepo
	Cache      i.SnapshotCache
	Locker     i.Locker
	Logger     i.Logger
	LockPrefix string

	// DefaultWidth and DefaultHeight size the grid of a create request that
	// leaves both dimensions out.
	DefaultWidth  int
	DefaultHeight int
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(c *Config) (*SessionManager, error) {
	if c == nil || c.Repo == nil || c.Operators == nil || c.Cache == nil || c.Locker == nil || c.Logger == nil {
		return nil, ErrNilDependency
	}

	width, height := c.DefaultWidth, c.DefaultHeight
	if width == 0 && height == 0 {
		width, height = session.DefaultWidth, session.DefaultHeight
	}

	prefix := c.LockPrefix
	if prefix == "" {
		prefix = defaultLockPrefix
	}

	return &SessionManager{
		repo:          c.Repo,
		operators:     c.Operators,
		cache:         c.Cache,
		locker:        c.Locker,
		logger:        c.Logger,
		defaultWidth:  width,
		defaultHeight: height,
		lockPrefix:    prefix,
		sessions:      make(map[uuid.UUID]*liveSession),
	}, nil
}

// Create builds a new session for owner and stores it. The quota check and
// the save run under the operator lock so concurrent creates cannot overrun it.
func (g *SessionManager) Create(ctx context.Context, owner uuid.UUID, req i.CreateSessionRequest) (*i.SessionRecord, error) {
	operator, err := g.operators.ByID(ctx, owner)
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf(operatorLockKeyFmt, g.lockPrefix, owner)
	unlock, err := g.locker.Lock(ctx, lockKey)
	if err != nil {
		g.logger.Error(fmt.Sprintf("obtaining lock for operator %s: %s", owner, err))
		return nil, err
	}
	defer g.release(ctx, lockKey, unlock)

	owned, err := g.repo.CountByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if owned >= int64(operator.SessionQuota) {
		return nil, fmt.Errorf("%w: %d of %d", ErrSessionQuotaExceeded, owned, operator.SessionQuota)
	}

	spec := req.Grid
	if spec.Width == 0 && spec.Height == 0 {
		spec.Width, spec.Height = g.defaultWidth, g.defaultHeight
	}

	var src grid.Source
	if req.Seed != nil {
		src = rand.New(rand.NewSource(*req.Seed))
	}

	board, err := buildGrid(spec, src)
	if err != nil {
		return nil, err
	}

	start, goal := defaultEndpoints(board, spec.Maze)
	if req.Start != nil {
		start = *req.Start
	}
	if req.Goal != nil {
		goal = *req.Goal
	}

	core, err := session.New(session.Config{Grid: board, Start: start, Goal: goal, Source: src})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &i.SessionRecord{
		ID:        uuid.New(),
		Owner:     owner,
		Version:   1,
		Snapshot:  core.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.repo.Save(ctx, record); err != nil {
		g.logger.Error(fmt.Sprintf("saving new session: %s", err))
		return nil, err
	}

	g.Lock()
	g.sessions[record.ID] = &liveSession{core: core, version: record.Version}
	g.Unlock()

	g.logger.Info(fmt.Sprintf("created session %s for operator %s: %dx%d found=%v", record.ID, owner, core.Width(), core.Height(), core.Found()))
	return record, nil
}

func buildGrid(spec i.GridSpec, src grid.Source) (*grid.Grid, error) {
	if spec.Maze {
		return grid.GenerateMaze(spec.Width, spec.Height, src)
	}
	return grid.GenerateRandom(spec.Width, spec.Height, spec.ObstacleProbability, src)
}

// defaultEndpoints gives the start and goal of a create request that names
// neither: the default start when it fits and the far corner as goal. Maze
// corners are walls, so mazes use the first and last corridor cells.
func defaultEndpoints(board *grid.Grid, maze bool) (grid.Coordinate, grid.Coordinate) {
	w, h := board.Width(), board.Height()
	if maze {
		return grid.Coordinate{X: 1, Y: 1}, grid.Coordinate{X: w - 2, Y: h - 2}
	}

	start := session.DefaultConfig().Start
	if !board.InBounds(start) {
		start = grid.Coordinate{}
	}
	return start, grid.Coordinate{X: w - 1, Y: h - 1}
}

// Get returns the session record, preferring the cache.
func (g *SessionManager) Get(ctx context.Context, owner, id uuid.UUID) (*i.SessionRecord, error) {
	record, hit, err := g.cache.Get(ctx, id)
	if err != nil {
		g.logger.Warning(fmt.Sprintf("reading cached session %s: %s", id, err))
	}

	if !hit {
		record, err = g.fill(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if record.Owner != owner {
		return nil, ErrNotSessionOwner
	}
	return record, nil
}

// List returns the sessions owned by owner.
func (g *SessionManager) List(ctx context.Context, owner uuid.UUID) ([]*i.SessionRecord, error) {
	return g.repo.ByOwner(ctx, owner)
}

// Render draws the session grid with its path.
func (g *SessionManager) Render(ctx context.Context, owner, id uuid.UUID) (string, error) {
	record, err := g.Get(ctx, owner, id)
	if err != nil {
		return "", err
	}

	live, err := g.load(record)
	if err != nil {
		return "", err
	}
	live.Lock()
	defer live.Unlock()
	return live.core.String(), nil
}

// SetStart moves the start of a session.
func (g *SessionManager) SetStart(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*i.SessionRecord, error) {
	record, _, err := g.mutate(ctx, owner, id, func(s *session.Session) (bool, error) {
		s.SetStart(c)
		return true, nil
	})
	return record, err
}

// SetGoal moves the goal of a session.
func (g *SessionManager) SetGoal(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*i.SessionRecord, error) {
	record, _, err := g.mutate(ctx, owner, id, func(s *session.Session) (bool, error) {
		s.SetGoal(c)
		return true, nil
	})
	return record, err
}

// Regenerate replaces the grid of a session.
func (g *SessionManager) Regenerate(ctx context.Context, owner, id uuid.UUID, spec i.GridSpec) (*i.SessionRecord, error) {
	record, _, err := g.mutate(ctx, owner, id, func(s *session.Session) (bool, error) {
		if spec.Maze {
			return true, s.RegenerateMaze(spec.Width, spec.Height)
		}
		return true, s.RegenerateGrid(spec.Width, spec.Height, spec.ObstacleProbability)
	})
	return record, err
}

// AddObstacle blocks a cell. Out of bounds cells are ignored and reported
// with applied == false.
func (g *SessionManager) AddObstacle(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*i.SessionRecord, bool, error) {
	return g.mutate(ctx, owner, id, func(s *session.Session) (bool, error) {
		return s.AddObstacle(c), nil
	})
}

// ClearObstacle frees a cell. Out of bounds cells are ignored and reported
// with applied == false.
func (g *SessionManager) ClearObstacle(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*i.SessionRecord, bool, error) {
	return g.mutate(ctx, owner, id, func(s *session.Session) (bool, error) {
		return s.ClearObstacle(c), nil
	})
}

// Delete removes a session.
func (g *SessionManager) Delete(ctx context.Context, owner, id uuid.UUID) error {
	unlock, err := g.lock(ctx, id)
	if err != nil {
		return err
	}
	defer g.unlock(ctx, id, unlock)

	record, err := g.byID(ctx, id)
	if err != nil {
		return err
	}
	if record.Owner != owner {
		return ErrNotSessionOwner
	}

	if err := g.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, i.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	g.evict(id)
	g.logger.Info(fmt.Sprintf("deleted session %s", id))
	return nil
}

// mutate applies fn to the session under the shared lock and stores the
// result when fn reports a change.
func (g *SessionManager) mutate(ctx context.Context, owner, id uuid.UUID, fn func(*session.Session) (bool, error)) (*i.SessionRecord, bool, error) {
	unlock, err := g.lock(ctx, id)
	if err != nil {
		return nil, false, err
	}
	defer g.unlock(ctx, id, unlock)

	record, err := g.byID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if record.Owner != owner {
		return nil, false, ErrNotSessionOwner
	}

	live, err := g.load(record)
	if err != nil {
		return nil, false, err
	}

	live.Lock()
	defer live.Unlock()

	changed, err := fn(live.core)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		g.logger.Warning(fmt.Sprintf("ignored out of bounds change on session %s", id))
		return record, false, nil
	}

	next := &i.SessionRecord{
		ID:        record.ID,
		Owner:     record.Owner,
		Version:   record.Version + 1,
		Snapshot:  live.core.Snapshot(),
		CreatedAt: record.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := g.repo.Save(ctx, next); err != nil {
		// The live copy is ahead of the store now; drop it so the next
		// call restores from the record.
		g.evict(id)
		g.logger.Error(fmt.Sprintf("saving session %s: %s", id, err))
		return nil, false, err
	}
	g.Lock()
	live.version = next.Version
	g.Unlock()

	if err := g.cache.Invalidate(ctx, id); err != nil {
		g.logger.Warning(fmt.Sprintf("invalidating cached session %s: %s", id, err))
	}
	return next, true, nil
}

// fill reads the record and caches it under the session lock. Mutations
// invalidate the cache under the same lock, so a record read here is never
// written over a newer one.
func (g *SessionManager) fill(ctx context.Context, id uuid.UUID) (*i.SessionRecord, error) {
	unlock, err := g.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer g.unlock(ctx, id, unlock)

	record, err := g.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.cache.Set(ctx, record); err != nil {
		g.logger.Warning(fmt.Sprintf("caching session %s: %s", id, err))
	}
	return record, nil
}

func (g *SessionManager) byID(ctx context.Context, id uuid.UUID) (*i.SessionRecord, error) {
	record, err := g.repo.ByID(ctx, id)
	if errors.Is(err, i.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	return record, err
}

// load returns the live session for record, restoring it when this process
// has none or holds an older version.
func (g *SessionManager) load(record *i.SessionRecord) (*liveSession, error) {
	g.RLock()
	live, ok := g.sessions[record.ID]
	g.RUnlock()
	if ok && live.version == record.Version {
		return live, nil
	}

	core, err := session.Restore(record.Snapshot, nil)
	if err != nil {
		g.logger.Error(fmt.Sprintf("restoring session %s: %s", record.ID, err))
		return nil, err
	}

	restored := &liveSession{core: core, version: record.Version}
	g.Lock()
	defer g.Unlock()
	// A stale read must not replace a newer live copy.
	if current, ok := g.sessions[record.ID]; !ok || current.version < record.Version {
		g.sessions[record.ID] = restored
	}
	return restored, nil
}

func (g *SessionManager) evict(id uuid.UUID) {
	g.Lock()
	delete(g.sessions, id)
	g.Unlock()

	if err := g.cache.Invalidate(context.Background(), id); err != nil {
		g.logger.Warning(fmt.Sprintf("invalidating cached session %s: %s", id, err))
	}
}

func (g *SessionManager) lock(ctx context.Context, id uuid.UUID) (i.UnlockFunc, error) {
	unlock, err := g.locker.Lock(ctx, fmt.Sprintf(sessionLockKeyFmt, g.lockPrefix, id))
	if err != nil {
		g.logger.Error(fmt.Sprintf("obtaining lock for session %s: %s", id, err))
		return nil, err
	}
	return unlock, nil
}

func (g *SessionManager) unlock(ctx context.Context, id uuid.UUID, unlock i.UnlockFunc) {
	g.release(ctx, fmt.Sprintf(sessionLockKeyFmt, g.lockPrefix, id), unlock)
}

func (g *SessionManager) release(ctx context.Context, key string, unlock i.UnlockFunc) {
	if err := unlock(ctx); err != nil {
		g.logger.Warning(fmt.Sprintf("releasing lock %s: %s", key, err))
	}
}
