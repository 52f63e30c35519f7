package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/gridpath/api"
	api_i "github.com/beka-birhanu/gridpath/api/i"
	"github.com/beka-birhanu/gridpath/api/identity"
	sessionapi "github.com/beka-birhanu/gridpath/api/session"
	"github.com/beka-birhanu/gridpath/config"
	"github.com/beka-birhanu/gridpath/infrastruture/cache"
	logger "github.com/beka-birhanu/gridpath/infrastruture/log"
	"github.com/beka-birhanu/gridpath/infrastruture/repo"
	"github.com/beka-birhanu/gridpath/infrastruture/token"
	"github.com/beka-birhanu/gridpath/service"
	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient       *mongo.Client
	redisClient       *redis.Client
	operatorRepo      *repo.OperatorRepo
	sessionRepo       *repo.SessionRepo
	snapshotCache     i.SnapshotCache
	sessionLocker     i.Locker
	sessionManager    i.SessionManager
	sessionController api_i.Controller
	jwtTokenizer      i.Tokenizer
	authService       i.Authenticator
	authController    api_i.Controller
	router            *api.Router
	appLogger         *logger.Logger
)

func newLogger(name, color string) *logger.Logger {
	l, err := logger.New(name, color, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s logger: %v\n", name, err)
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initRepos(ctx context.Context) {
	operatorRepo = repo.NewOperatorRepo(mongoClient, config.Envs.DBName, config.Envs.OperatorsCollection)
	if err := operatorRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating operator indexes: %v", err))
		os.Exit(1)
	}

	sessionRepo = repo.NewSessionRepo(mongoClient, config.Envs.DBName, config.Envs.SessionCollection)
	if err := sessionRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating session indexes: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Repositories initialized")
}

func initCache() {
	snapshotCache = cache.NewRedisSnapshotCache(redisClient, config.Envs.LockPrefix, config.Envs.CacheTTLSeconds)
	sessionLocker = cache.NewRedisLocker(redisClient, config.Envs.LockExpirySeconds)
	appLogger.Info("Snapshot cache and session locker initialized")
}

func initSessionManager() {
	var err error
	sessionManager, err = service.NewSessionManager(&service.Config{
		Repo:          sessionRepo,
		Operators:     operatorRepo,
		Cache:         snapshotCache,
		Locker:        sessionLocker,
		Logger:        newLogger("SESSION-MANAGER", config.ColorCyan),
		LockPrefix:    config.Envs.LockPrefix,
		DefaultWidth:  config.Envs.GridWidth,
		DefaultHeight: config.Envs.GridHeight,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session manager initialized")
}

func initSessionController() {
	sessionController = sessionapi.NewSessionController(sessionManager, config.Envs.GridObstacleProb)
	appLogger.Info("Session controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(operatorRepo, jwtTokenizer, config.Envs.SessionQuota)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating auth service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		GinMode:                 config.Envs.GinMode,
		Controllers:             []api_i.Controller{authController, sessionController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

// closeStores releases the database and cache connections.
func closeStores(ctx context.Context) error {
	var result error
	if err := mongoClient.Disconnect(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("disconnecting MongoDB: %w", err))
	}
	if err := redisClient.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing Redis: %w", err))
	}
	return result
}

func main() {
	appLogger = newLogger("APP", config.ColorGreen)

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelSetup()

	initMongo(setupCtx)
	initRedis(setupCtx)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := closeStores(closeCtx); err != nil {
			appLogger.Error(err.Error())
		}
	}()

	initRepos(setupCtx)
	initCache()
	initSessionManager()
	initSessionController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := router.Run(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Running server: %v", err))
		return
	}
	appLogger.Info("Server stopped")
}
