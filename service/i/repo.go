package i

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/gridpath/identity"
	"github.com/beka-birhanu/gridpath/session"
	"github.com/google/uuid"
)

var (
	ErrOperatorNotFound = errors.New("operator not found")
	ErrUsernameConflict = errors.New("username conflict")
	ErrRecordNotFound   = errors.New("session record not found")
)

// SessionRecord is the persisted form of a path finding session.
type SessionRecord struct {
	ID        uuid.UUID        `bson:"_id" json:"id"`
	Owner     uuid.UUID        `bson:"owner" json:"owner"`
	Version   int64            `bson:"version" json:"version"`
	Snapshot  session.Snapshot `bson:"snapshot" json:"snapshot"`
	CreatedAt time.Time        `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updated_at"`
}

// OperatorRepo defines the interface for operator persistence operations.
type OperatorRepo interface {
	// Save inserts or updates an operator in the repository.
	// Returns ErrUsernameConflict when another operator holds the username.
	Save(ctx context.Context, operator *identity.Operator) error

	// ByID retrieves an operator by their unique ID.
	// Returns ErrOperatorNotFound if there is no such operator.
	ByID(ctx context.Context, id uuid.UUID) (*identity.Operator, error)

	// ByUsername retrieves an operator by their username.
	// Returns ErrOperatorNotFound if there is no such operator.
	ByUsername(ctx context.Context, username string) (*identity.Operator, error)
}

// SessionRepo defines the interface for session persistence operations.
type SessionRepo interface {
	// Save inserts or replaces a session record.
	Save(ctx context.Context, record *SessionRecord) error

	// ByID retrieves a session record. Returns ErrRecordNotFound if absent.
	ByID(ctx context.Context, id uuid.UUID) (*SessionRecord, error)

	// ByOwner lists the records owned by an operator, oldest first.
	ByOwner(ctx context.Context, owner uuid.UUID) ([]*SessionRecord, error)

	// CountByOwner returns how many sessions an operator owns.
	CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error)

	// Delete removes a session record. Returns ErrRecordNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
