package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/beka-birhanu/gridpath/service"
	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextOperatorClaims is the key used to store operator claims in the Gin context.
	ContextOperatorClaims = "operatorClaims"
)

var ErrMissingOperator = errors.New("request carries no operator")

// Authoriz rejects requests without a valid bearer token and stores the token
// claims in the context.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if _, err := operatorID(claims); err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextOperatorClaims, claims)
		c.Next()
	}
}

// OperatorID returns the ID of the operator Authoriz admitted.
func OperatorID(c *gin.Context) (uuid.UUID, error) {
	raw, ok := c.Get(ContextOperatorClaims)
	if !ok {
		return uuid.Nil, ErrMissingOperator
	}
	claims, ok := raw.(map[string]interface{})
	if !ok {
		return uuid.Nil, ErrMissingOperator
	}
	return operatorID(claims)
}

func operatorID(claims map[string]interface{}) (uuid.UUID, error) {
	s, ok := claims[service.ClaimOperatorID].(string)
	if !ok {
		return uuid.Nil, ErrMissingOperator
	}
	return uuid.Parse(s)
}
