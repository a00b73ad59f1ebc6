package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Admin    AdminConfig
	Demo     DemoConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Description string
	ReleaseEnv  string
}

type ServerConfig struct {
	Port          string
	HTTPSRedirect bool
	MetricsOn     bool
}

type DatabaseConfig struct {
	Driver       string
	Username     string
	Password     string
	Location     string
	Name         string
	SQLiteMemory bool
}

type LoggingConfig struct {
	Level         string
	Directory     string
	FileName      string
	RotationMB    int
	RetentionDays int
}

// AdminConfig holds the bootstrap credentials for the seed admin account.
type AdminConfig struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type DemoConfig struct {
	CreateDemoData bool
	DemoUserCount  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "userbase"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Description: getEnv("APP_DESCRIPTION", "User management API"),
			ReleaseEnv:  getEnv("RELEASE_ENV", "prd"),
		},
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			HTTPSRedirect: getEnvAsBool("HTTPS_REDIRECT_ON", false),
			MetricsOn:     getEnvAsBool("METRICS_ON", true),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DATABASE_DRIVER", DriverSQLite),
			Username:     getEnv("DB_USERNAME", "test"),
			Password:     getEnv("DB_PASSWORD", ""),
			Location:     getEnv("DB_LOCATION", "localhost"),
			Name:         getEnv("DB_NAME", "api"),
			SQLiteMemory: getEnvAsBool("SQLITE_MEMORY", false),
		},
		Logging: LoggingConfig{
			Level:         getEnv("LOG_LEVEL", "info"),
			Directory:     getEnv("LOG_DIRECTORY", ""),
			FileName:      getEnv("LOG_NAME", "log.json"),
			RotationMB:    getEnvAsInt("LOG_ROTATION_MB", 10),
			RetentionDays: getEnvAsInt("LOG_RETENTION_DAYS", 30),
		},
		Admin: AdminConfig{
			FirstName: getEnv("ADMIN_FIRST_NAME", ""),
			LastName:  getEnv("ADMIN_LAST_NAME", ""),
			Email:     getEnv("ADMIN_EMAIL", ""),
			Password:  getEnv("ADMIN_PASSWORD", ""),
		},
		Demo: DemoConfig{
			CreateDemoData: getEnvAsBool("CREATE_DEMO_DATA", false),
			DemoUserCount:  getEnvAsInt("DEMO_USER_COUNT", 100),
		},
	}

	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (want %q or %q)",
			cfg.Database.Driver, DriverSQLite, DriverPostgres)
	}

	if cfg.Database.Driver == DriverPostgres && cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required for the postgres driver")
	}

	return cfg, nil
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"postgres://%s:%s@%s/%s",
			c.Username, c.Password, c.Location, c.Name,
		)
	default:
		if c.SQLiteMemory {
			// Shared cache keeps all pooled connections on one in-memory database.
			return "file::memory:?cache=shared"
		}
		return fmt.Sprintf("file:%s.db", c.Name)
	}
}

// Dump returns the configuration as key/value pairs for the configuration
// endpoint. Sensitive keys are filtered at the handler, not here.
func (c *Config) Dump() map[string]any {
	return map[string]any{
		"app_name":           c.App.Name,
		"app_version":        c.App.Version,
		"app_description":    c.App.Description,
		"release_env":        c.App.ReleaseEnv,
		"port":               c.Server.Port,
		"https_redirect_on":  c.Server.HTTPSRedirect,
		"metrics_on":         c.Server.MetricsOn,
		"database_driver":    c.Database.Driver,
		"db_username":        c.Database.Username,
		"db_password":        c.Database.Password,
		"db_location":        c.Database.Location,
		"db_name":            c.Database.Name,
		"sqlite_memory":      c.Database.SQLiteMemory,
		"log_level":          c.Logging.Level,
		"log_directory":      c.Logging.Directory,
		"log_name":           c.Logging.FileName,
		"log_rotation_mb":    c.Logging.RotationMB,
		"log_retention_days": c.Logging.RetentionDays,
		"admin_first_name":   c.Admin.FirstName,
		"admin_last_name":    c.Admin.LastName,
		"admin_email":        c.Admin.Email,
		"admin_password":     c.Admin.Password,
		"create_demo_data":   c.Demo.CreateDemoData,
		"demo_user_count":    c.Demo.DemoUserCount,
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
