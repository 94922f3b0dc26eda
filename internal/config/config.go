package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory    = "memory"
	DriverPostgres  = "postgres"
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
)

// Client modes
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeAuto    = "auto"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Blob store selection
	Store StoreConfig

	// Database configuration (postgres driver)
	Database DatabaseConfig

	// MongoDB configuration (mongo driver)
	Mongo MongoConfig

	// Firestore configuration (firestore driver)
	Firestore FirestoreConfig

	// Client repository configuration
	Client ClientConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	PathPrefix      string
}

// StoreConfig selects the blob store backing the post API
type StoreConfig struct {
	Driver string
	Name   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// FirestoreConfig holds Firestore client settings
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	EmulatorHost    string
}

// ClientConfig holds settings for the client post repository
type ClientConfig struct {
	APIURL      string
	Mode        string
	LocalPath   string
	Timeout     time.Duration // 0 keeps the transport default
	SampleFloor bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

var loadDotEnvOnce sync.Once

// LoadDotEnv reads .env into the process environment once, if the file exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	loadDotEnvOnce.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		if err := godotenv.Load(); err != nil {
			log.Printf("dotenv: failed to load .env: %v", err)
		}
	})
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			PathPrefix:      getEnv("SERVER_PATH_PREFIX", "/blog-api"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			Name:   getEnv("STORE_NAME", "blog-posts"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "quickblog"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
			Database: getEnv("MONGODB_DATABASE", "quickblog"),
			Timeout:  getDurationEnv("MONGODB_TIMEOUT", 15*time.Second),
		},
		Firestore: FirestoreConfig{
			ProjectID:       strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")),
			CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
			EmulatorHost:    strings.TrimSpace(os.Getenv("FIRESTORE_EMULATOR_HOST")),
		},
		Client: ClientConfig{
			APIURL:      strings.TrimRight(getEnv("CLIENT_API_URL", "http://localhost:8080/blog-api"), "/"),
			Mode:        strings.ToLower(getEnv("CLIENT_MODE", ModeOnline)),
			LocalPath:   getEnv("CLIENT_LOCAL_PATH", "./quickblog-local.db"),
			Timeout:     getDurationEnv("CLIENT_TIMEOUT", 0),
			SampleFloor: getBoolEnv("CLIENT_SAMPLE_FLOOR", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverMongo:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case DriverFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the firestore driver")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: memory, postgres, mongo, firestore")
	}

	if c.Store.Name == "" {
		return fmt.Errorf("STORE_NAME is required")
	}
	if c.Server.PathPrefix != "" && !strings.HasPrefix(c.Server.PathPrefix, "/") {
		return fmt.Errorf("SERVER_PATH_PREFIX must start with /")
	}

	switch c.Client.Mode {
	case ModeOnline, ModeOffline, ModeAuto:
	default:
		return fmt.Errorf("CLIENT_MODE must be one of: online, offline, auto")
	}

	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
