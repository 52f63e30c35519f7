package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/beka-birhanu/gridpath/identity"
	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/google/uuid"
)

type memOperatorRepo struct {
	mu        sync.Mutex
	operators map[uuid.UUID]identity.Operator
}

func newMemOperatorRepo() *memOperatorRepo {
	return &memOperatorRepo{operators: make(map[uuid.UUID]identity.Operator)}
}

func (r *memOperatorRepo) Save(_ context.Context, op *identity.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.operators {
		if existing.Username == op.Username && id != op.ID {
			return i.ErrUsernameConflict
		}
	}
	r.operators[op.ID] = *op
	return nil
}

func (r *memOperatorRepo) ByID(_ context.Context, id uuid.UUID) (*identity.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.operators[id]
	if !ok {
		return nil, i.ErrOperatorNotFound
	}
	return &op, nil
}

func (r *memOperatorRepo) ByUsername(_ context.Context, username string) (*identity.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range r.operators {
		if op.Username == username {
			op := op
			return &op, nil
		}
	}
	return nil, i.ErrOperatorNotFound
}

type memSessionRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]i.SessionRecord
	failErr error // returned by Save when set
	saves   int
	onByID  func() // runs once, after the next ByID has read its record
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{records: make(map[uuid.UUID]i.SessionRecord)}
}

func (r *memSessionRepo) Save(_ context.Context, record *i.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.saves++
	r.records[record.ID] = *record
	return nil
}

func (r *memSessionRepo) ByID(_ context.Context, id uuid.UUID) (*i.SessionRecord, error) {
	r.mu.Lock()
	record, ok := r.records[id]
	hook := r.onByID
	r.onByID = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, i.ErrRecordNotFound
	}
	return &record, nil
}

func (r *memSessionRepo) ByOwner(_ context.Context, owner uuid.UUID) ([]*i.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*i.SessionRecord
	for _, record := range r.records {
		if record.Owner == owner {
			record := record
			out = append(out, &record)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *memSessionRepo) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	records, err := r.ByOwner(ctx, owner)
	return int64(len(records)), err
}

func (r *memSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return i.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

// put overwrites a record as another replica would.
func (r *memSessionRepo) put(record i.SessionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record
}

type memCache struct {
	mu      sync.Mutex
	records map[uuid.UUID]i.SessionRecord
	hits    int
}

func newMemCache() *memCache {
	return &memCache{records: make(map[uuid.UUID]i.SessionRecord)}
}

func (c *memCache) Get(_ context.Context, id uuid.UUID) (*i.SessionRecord, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.records[id]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return &record, true, nil
}

func (c *memCache) Set(_ context.Context, record *i.SessionRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.ID] = *record
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, id)
	return nil
}

type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	keys  []string
	err   error
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *memLocker) Lock(_ context.Context, key string) (i.UnlockFunc, error) {
	l.mu.Lock()
	if l.err != nil {
		l.mu.Unlock()
		return nil, l.err
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.keys = append(l.keys, key)
	l.mu.Unlock()

	m.Lock()
	return func(context.Context) error {
		m.Unlock()
		return nil
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string)    {}
func (nopLogger) Warning(string) {}
func (nopLogger) Error(string)   {}

type fakeTokenizer struct {
	err error
}

func (f *fakeTokenizer) Generate(claims map[string]interface{}, exp time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("token:%v:%v", claims[ClaimOperatorID], exp), nil
}

func (f *fakeTokenizer) Decode(token string) (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
