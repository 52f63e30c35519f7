package identity

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordStrengthScore = 3

	usernamePattern   = `^[a-zA-Z0-9_]+$` // Alphanumeric with underscores
	minUsernameLength = 3
	maxUsernameLength = 20

	defaultSessionQuota = 10
	bcryptCost          = 12
)

var (
	usernameRegex = regexp.MustCompile(usernamePattern)

	ErrUsernameTooShort    = errors.New("username too short")
	ErrUsernameTooLong     = errors.New("username too long")
	ErrInvalidUsername     = errors.New("invalid username format")
	ErrWeakPassword        = errors.New("weak password")
	ErrInvalidSessionQuota = errors.New("session quota must be positive")
)

// Operator is an account allowed to create and drive path finding sessions.
type Operator struct {
	ID           uuid.UUID `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"passwordHash"`
	SessionQuota int       `bson:"sessionQuota"`
}

// OperatorConfig holds parameters for creating an Operator from a plain password.
type OperatorConfig struct {
	ID            uuid.UUID
	Username      string
	PlainPassword string
	SessionQuota  int // zero uses the default quota
}

// NewOperator validates the config and hashes the password.
func NewOperator(config OperatorConfig) (*Operator, error) {
	if err := validateUsername(config.Username); err != nil {
		return nil, err
	}

	if err := validatePassword(config.PlainPassword); err != nil {
		return nil, err
	}

	quota := config.SessionQuota
	if quota == 0 {
		quota = defaultSessionQuota
	}
	if quota < 0 {
		return nil, ErrInvalidSessionQuota
	}

	passwordHash, err := hashPassword(config.PlainPassword)
	if err != nil {
		return nil, err
	}

	return &Operator{
		ID:           config.ID,
		Username:     config.Username,
		PasswordHash: passwordHash,
		SessionQuota: quota,
	}, nil
}

// VerifyPassword verifies if the given password matches the stored hash.
func (o *Operator) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

// validateUsername validates the username.
func validateUsername(username string) error {
	if len(username) < minUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// validatePassword checks the strength of the password.
func validatePassword(password string) error {
	result := zxcvbn.PasswordStrength(password, nil)
	if result.Score < minPasswordStrengthScore {
		return ErrWeakPassword
	}
	return nil
}

// hashPassword generates a bcrypt hash for the given password.
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}
