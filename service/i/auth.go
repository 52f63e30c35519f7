package i

import (
	"context"

	"github.com/beka-birhanu/gridpath/identity"
)

// Authenticator registers operators and signs them in.
type Authenticator interface {
	Register(ctx context.Context, username, password string) error
	SignIn(ctx context.Context, username, password string) (*identity.Operator, string, error)
}
