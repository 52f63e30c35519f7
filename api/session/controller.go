package sessionapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/beka-birhanu/gridpath/api/identity"
	"github.com/beka-birhanu/gridpath/grid"
	"github.com/beka-birhanu/gridpath/service"
	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionController routes session requests of the signed in operator.
type SessionController struct {
	sessionManager      i.SessionManager
	obstacleProbability float64
}

// NewSessionController initializes a SessionController. obstacleProbability
// applies to requests that do not name one.
func NewSessionController(sm i.SessionManager, obstacleProbability float64) *SessionController {
	return &SessionController{
		sessionManager:      sm,
		obstacleProbability: obstacleProbability,
	}
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions")
	{
		sessions.POST("", sc.create)
		sessions.GET("", sc.list)
		sessions.GET("/:ID", sc.get)
		sessions.GET("/:ID/render", sc.render)
		sessions.PUT("/:ID/start", sc.setStart)
		sessions.PUT("/:ID/goal", sc.setGoal)
		sessions.POST("/:ID/regenerate", sc.regenerate)
		sessions.POST("/:ID/obstacles", sc.addObstacle)
		sessions.DELETE("/:ID/obstacles", sc.clearObstacle)
		sessions.DELETE("/:ID", sc.delete)
	}
}

func (sc *SessionController) create(ctx *gin.Context) {
	owner, ok := operator(ctx)
	if !ok {
		return
	}

	var request CreateSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := sc.sessionManager.Create(ctx.Request.Context(), owner, i.CreateSessionRequest{
		Grid:  request.spec(sc.obstacleProbability),
		Start: request.Start,
		Goal:  request.Goal,
		Seed:  request.Seed,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newSessionResponse(record))
}

func (sc *SessionController) list(ctx *gin.Context) {
	owner, ok := operator(ctx)
	if !ok {
		return
	}

	records, err := sc.sessionManager.List(ctx.Request.Context(), owner)
	if err != nil {
		writeError(ctx, err)
		return
	}

	response := make([]*SessionResponse, 0, len(records))
	for _, r := range records {
		response = append(response, newSessionResponse(r))
	}
	ctx.JSON(http.StatusOK, response)
}

func (sc *SessionController) get(ctx *gin.Context) {
	owner, id, ok := target(ctx)
	if !ok {
		return
	}

	record, err := sc.sessionManager.Get(ctx.Request.Context(), owner, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSessionResponse(record))
}

// render answers with the ASCII drawing of the board.
func (sc *SessionController) render(ctx *gin.Context) {
	owner, id, ok := target(ctx)
	if !ok {
		return
	}

	drawing, err := sc.sessionManager.Render(ctx.Request.Context(), owner, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, drawing)
}

func (sc *SessionController) setStart(ctx *gin.Context) {
	sc.move(ctx, sc.sessionManager.SetStart)
}

func (sc *SessionController) setGoal(ctx *gin.Context) {
	sc.move(ctx, sc.sessionManager.SetGoal)
}

type moveFunc func(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*i.SessionRecord, error)

func (sc *SessionController) move(ctx *gin.Context, fn moveFunc) {
	owner, id, ok := target(ctx)
	if !ok {
		return
	}

	var c grid.Coordinate
	if err := ctx.ShouldBindJSON(&c); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := fn(ctx.Request.Context(), owner, id, c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSessionResponse(record))
}

func (sc *SessionController) regenerate(ctx *gin.Context) {
	owner, id, ok := target(ctx)
	if !ok {
		return
	}

	var request GridRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := sc.sessionManager.Regenerate(ctx.Request.Context(), owner, id, request.spec(sc.obstacleProbability))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newSessionResponse(record))
}

func (sc *SessionController) addObstacle(ctx *gin.Context) {
	sc.editObstacle(ctx, sc.sessionManager.AddObstacle)
}

func (sc *SessionController) clearObstacle(ctx *gin.Context) {
	sc.editObstacle(ctx, sc.sessionManager.ClearObstacle)
}

type obstacleFunc func(ctx context.Context, owner, id uuid.UUID, c grid.Coordinate) (*i.SessionRecord, bool, error)

func (sc *SessionController) editObstacle(ctx *gin.Context, fn obstacleFunc) {
	owner, id, ok := target(ctx)
	if !ok {
		return
	}

	var c grid.Coordinate
	if err := ctx.ShouldBindJSON(&c); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, applied, err := fn(ctx.Request.Context(), owner, id, c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &ObstacleResponse{Applied: applied, Session: newSessionResponse(record)})
}

func (sc *SessionController) delete(ctx *gin.Context) {
	owner, id, ok := target(ctx)
	if !ok {
		return
	}

	if err := sc.sessionManager.Delete(ctx.Request.Context(), owner, id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// operator resolves the caller. It writes the response and returns false on failure.
func operator(ctx *gin.Context) (uuid.UUID, bool) {
	owner, err := identity.OperatorID(ctx)
	if err != nil {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return owner, true
}

// target resolves the caller and the session named in the path.
func target(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := operator(ctx)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}

func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotSessionOwner):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionQuotaExceeded):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, i.ErrOperatorNotFound):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, grid.ErrInvalidDimension), errors.Is(err, grid.ErrInvalidProbability):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
