package identity

import (
	"errors"
	"net/http"

	domain "github.com/beka-birhanu/gridpath/identity"
	"github.com/beka-birhanu/gridpath/service"
	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/gin-gonic/gin"
)

// IdentityServer handles HTTP requests related to authentication.
type IdentityServer struct {
	authService i.Authenticator
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(a i.Authenticator) *IdentityServer {
	return &IdentityServer{
		authService: a,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	auth := route.Group("/auth")
	{
		auth.POST("/register", c.registerOperator)
		auth.POST("/login", c.login)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
}

// registerOperator handles operator registration.
func (c *IdentityServer) registerOperator(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := c.authService.Register(ctx.Request.Context(), request.Username, request.Password)
	switch {
	case err == nil:
	case errors.Is(err, i.ErrUsernameConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case isValidationError(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while registering"})
		return
	}

	response := gin.H{"message": "Operator registered successfully"}
	ctx.JSON(http.StatusCreated, response)
}

// login handles operator login.
func (c *IdentityServer) login(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	operator, token, err := c.authService.SignIn(ctx.Request.Context(), request.Username, request.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while signing in"})
		return
	}

	response := &AuthResponse{
		ID:           operator.ID.String(),
		Username:     operator.Username,
		SessionQuota: operator.SessionQuota,
		Token:        token,
	}
	ctx.JSON(http.StatusOK, response)
}

// isValidationError reports whether err is the operator's fault.
func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrUsernameTooShort) ||
		errors.Is(err, domain.ErrUsernameTooLong) ||
		errors.Is(err, domain.ErrInvalidUsername) ||
		errors.Is(err, domain.ErrWeakPassword)
}
