package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the service reads at startup. It is parsed once
// in main and passed explicitly into constructors; nothing reads the process
// environment after New returns.
type Config struct {
	Env     string `env:"ENV" envDefault:"DEV"`
	AppName string `env:"APP_NAME" envDefault:"Reservd"`
	Port    string `env:"PORT" envDefault:"8080"`

	Auth    AuthConfig
	Cors    CorsConfig
	Storage StorageConfig
	Backup  BackupConfig
}

// AuthConfig carries the two signing secrets, their token lifetimes, and the
// refresh cookie name. The secrets are independent so that compromise of one
// does not expose the other.
type AuthConfig struct {
	AccessSecret      string        `env:"ACCESS_TOKEN_SECRET" envDefault:"dev-access-secret"`
	RefreshSecret     string        `env:"REFRESH_TOKEN_SECRET" envDefault:"dev-refresh-secret"`
	AccessTTL         time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTTL        time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	RefreshCookieName string        `env:"REFRESH_COOKIE_NAME" envDefault:"refresh_token"`
}

// CorsConfig mirrors the browser-facing CORS policy.
type CorsConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods string   `env:"CORS_ALLOWED_METHODS" envDefault:"GET, POST, PUT, PATCH, DELETE"`
	AllowedHeaders string   `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type, Authorization"`
}

// StorageConfig points at the SQLite data files. The backup rotator snapshots
// these same paths.
type StorageConfig struct {
	UsersPath        string `env:"USERS_DB_PATH" envDefault:"./data/users.db"`
	ReservationsPath string `env:"RESERVES_DB_PATH" envDefault:"./data/reserves.db"`
}

// BackupConfig drives the periodic snapshot job.
type BackupConfig struct {
	Enabled   bool          `env:"BACKUP_ENABLED" envDefault:"true"`
	Dir       string        `env:"BACKUP_DIR" envDefault:"./backups"`
	Interval  time.Duration `env:"BACKUP_INTERVAL" envDefault:"24h"`
	Retention int           `env:"BACKUP_RETENTION" envDefault:"3"`
}

// New loads configuration from environment variables, falling back to
// development defaults.
func New() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return Config{}, fmt.Errorf("token TTLs must be positive")
	}
	if c.Backup.Retention < 1 {
		return Config{}, fmt.Errorf("backup retention must be at least 1")
	}
	return c, nil
}

// ListenAddr returns the address for http.Server, normalising a bare port.
func (c Config) ListenAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// IsDev reports whether the service runs in the development environment.
// The refresh cookie drops its Secure flag only in this mode.
func (c Config) IsDev() bool {
	return c.Env == "DEV"
}

// IsAllowedOrigin checks an Origin header value against the allowlist.
func (c CorsConfig) IsAllowedOrigin(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// IsWildcard reports whether any origin is allowed.
func (c CorsConfig) IsWildcard() bool {
	return c.IsAllowedOrigin("*")
}
