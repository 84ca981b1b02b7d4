package config

import (
	"fmt"     // DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // Durations

	"github.com/joho/godotenv" // For loading .env files
)

// Supported DB_DRIVER values
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	AppPort        string        // Application port
	DBDriver       string        // mysql, postgres or memory
	DBUser         string        // Database user
	DBPassword     string        // Database password
	DBHost         string        // Database host
	DBPort         string        // Database port
	DBName         string        // Database name
	JWTSecret      string        // JWT secret key
	RedisAddr      string        // Redis server address, empty disables redis
	RedisPass      string        // Redis password
	RedisDB        int           // Redis database number
	IsProd         bool          // Is production environment
	StoreTimeout   time.Duration // Deadline for every store call
	CacheTTL       time.Duration // Lifetime of cached listing lists
	RateWindow     time.Duration // Window for the rate limits below
	ApplyRateLimit int           // Applications per student per window
	LoginRateLimit int           // Login attempts per client IP per window
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),                  // Application port
		DBDriver:       getEnv("DB_DRIVER", DriverMySQL),            // Store backend
		DBUser:         os.Getenv("DB_USER"),                        // Database user
		DBPassword:     os.Getenv("DB_PASSWORD"),                    // Database password
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),              // Database host
		DBPort:         os.Getenv("DB_PORT"),                        // Database port
		DBName:         os.Getenv("DB_NAME"),                        // Database name
		JWTSecret:      os.Getenv("JWT_SECRET"),                     // JWT secret key
		RedisAddr:      os.Getenv("REDIS_ADDR"),                     // Redis server address
		RedisPass:      os.Getenv("REDIS_PASS"),                     // Redis password
		RedisDB:        getInt("REDIS_DB", 0),                       // Redis database number
		IsProd:         os.Getenv("IS_PROD") == "true",              // Is production environment
		StoreTimeout:   getDuration("STORE_TIMEOUT", 5*time.Second), // Store deadline
		CacheTTL:       getDuration("CACHE_TTL", 60*time.Second),    // Listing cache TTL
		RateWindow:     getDuration("RATE_WINDOW", time.Minute),     // Rate limit window
		ApplyRateLimit: getInt("APPLY_RATE_LIMIT", 3),               // Apply attempts per window
		LoginRateLimit: getInt("LOGIN_RATE_LIMIT", 10),              // Login attempts per window
	}
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverMemory:
		return nil
	case DriverMySQL, DriverPostgres:
		if c.DBName == "" {
			return fmt.Errorf("DB_NAME is required for %s", c.DBDriver)
		}
		return nil
	}
	return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	port := c.DBPort
	if port == "" {
		port = "3306"
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

// PostgresDSN builds the connection string for the PostgreSQL driver
func (c *Config) PostgresDSN() string {
	port := c.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
}

// getEnv returns the variable or a fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt parses an integer variable, falling back on absence or bad input
func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration parses a Go duration such as "5s", falling back on absence or bad input
func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
