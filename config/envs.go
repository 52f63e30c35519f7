package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP              string  // Host IP for the server
	RESTPort            int     // Port for the REST API
	GinMode             string  // Mode for the Gin framework (e.g., release, debug, test)
	DBHost              string  // Hostname or IP address for the database
	DBPort              int     // Port number for the database
	DBUser              string  // Username for the database
	DBPassword          string  // Password for the database
	DBName              string  // Name of the database
	RedisAddr           string  // host:port of the Redis server
	RedisPassword       string  // Password for Redis, empty when none
	RedisDB             int     // Redis logical database
	CacheTTLSeconds     int     // Lifetime of cached session snapshots
	JWTSecret           string  // Secret key for JWT signing
	JWTIssuer           string  // Issuer claim for JWTs
	GridWidth           int     // Default width of a new session grid
	GridHeight          int     // Default height of a new session grid
	GridObstacleProb    float64 // Default obstacle probability of a new session grid
	SessionQuota        int     // Sessions an operator may own at once
	LockPrefix          string  // Prefix for Redis cache and lock keys
	LockExpirySeconds   int     // Expiry of the distributed session lock
	SessionCollection   string  // Mongo collection for sessions
	OperatorsCollection string  // Mongo collection for operators
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:              getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:            getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:             getEnvWithDefault("GIN_MODE", "release"),
		DBHost:              mustGetEnv("DB_HOST"),
		DBPort:              mustGetEnvAsInt("DB_PORT"),
		DBUser:              mustGetEnv("DB_USER"),
		DBPassword:          mustGetEnv("DB_PASS"),
		DBName:              mustGetEnv("DB_NAME"),
		RedisAddr:           mustGetEnv("REDIS_ADDR"),
		RedisPassword:       getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsIntWithDefault("REDIS_DB", 0),
		CacheTTLSeconds:     getEnvAsIntWithDefault("CACHE_TTL_SECONDS", 300),
		JWTSecret:           mustGetEnv("JWT_SECRET"),
		JWTIssuer:           mustGetEnv("JWT_ISSUER"),
		GridWidth:           getEnvAsIntWithDefault("GRID_WIDTH", 5),
		GridHeight:          getEnvAsIntWithDefault("GRID_HEIGHT", 5),
		GridObstacleProb:    getEnvAsFloatWithDefault("GRID_OBSTACLE_PROB", 0.2),
		SessionQuota:        getEnvAsIntWithDefault("SESSION_QUOTA", 10),
		LockPrefix:          getEnvWithDefault("LOCK_PREFIX", "gridpath"),
		LockExpirySeconds:   getEnvAsIntWithDefault("LOCK_EXPIRY_SECONDS", 8),
		SessionCollection:   getEnvWithDefault("SESSION_COLLECTION", "sessions"),
		OperatorsCollection: getEnvWithDefault("OPERATORS_COLLECTION", "operators"),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault parses an integer environment variable, falling back to defaultValue when unset.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsFloatWithDefault parses a float environment variable, falling back to defaultValue when unset.
func getEnvAsFloatWithDefault(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a number: %v", key, err)
	}
	return value
}
