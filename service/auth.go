package service

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/gridpath/identity"
	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/google/uuid"
)

const (
	tokenLifetime = 24 * time.Hour

	// ClaimOperatorID and ClaimUsername are the token claims written on sign in.
	ClaimOperatorID = "operatorID"
	ClaimUsername   = "username"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNilDependency      = errors.New("nil dependency")
)

var _ i.Authenticator = &Auth{}

// Auth registers operators and issues tokens for them.
type Auth struct {
	operatorRepo i.OperatorRepo
	tokenizer    i.Tokenizer
	sessionQuota int
}

// NewAuthService creates an Auth service. New operators get sessionQuota
// sessions; zero uses the identity default.
func NewAuthService(repo i.OperatorRepo, tokenizer i.Tokenizer, sessionQuota int) (*Auth, error) {
	if repo == nil || tokenizer == nil {
		return nil, ErrNilDependency
	}
	return &Auth{
		operatorRepo: repo,
		tokenizer:    tokenizer,
		sessionQuota: sessionQuota,
	}, nil
}

// Register creates a new operator account.
func (a *Auth) Register(ctx context.Context, username, password string) error {
	if _, err := a.operatorRepo.ByUsername(ctx, username); err == nil {
		return i.ErrUsernameConflict
	} else if !errors.Is(err, i.ErrOperatorNotFound) {
		return err
	}

	operator, err := identity.NewOperator(identity.OperatorConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
		SessionQuota:  a.sessionQuota,
	})
	if err != nil {
		return err
	}

	return a.operatorRepo.Save(ctx, operator)
}

// SignIn checks the credentials and returns the operator with a fresh token.
func (a *Auth) SignIn(ctx context.Context, username, password string) (*identity.Operator, string, error) {
	operator, err := a.operatorRepo.ByUsername(ctx, username)
	if errors.Is(err, i.ErrOperatorNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !operator.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		ClaimOperatorID: operator.ID.String(),
		ClaimUsername:   operator.Username,
	}, tokenLifetime)
	if err != nil {
		return nil, "", err
	}

	return operator, token, nil
}
