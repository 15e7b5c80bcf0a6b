package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/beat-sheets/pkg/services/ratelimit"
	"github.com/de-tools/beat-sheets/pkg/store/sqldb"
	"github.com/spf13/viper"
)

const EnvPrefix = "BEATS"

type Config struct {
	Server    ServerConfig       `mapstructure:"server"`
	Database  sqldb.Settings     `mapstructure:"database"`
	Auth      AuthConfig         `mapstructure:"auth"`
	RateLimit ratelimit.Settings `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AuthConfig holds the two accepted credentials. Either may be empty.
type AuthConfig struct {
	APIKey        string `mapstructure:"api_key"`
	JWTSigningKey string `mapstructure:"jwt_signing_key"`
	JWTAudience   string `mapstructure:"jwt_audience"`
}

var defaults = map[string]any{
	"server.host":             "127.0.0.1",
	"server.port":             8080,
	"server.shutdown_timeout": 10 * time.Second,
	"database.driver":         sqldb.DriverSQLite,
	"database.dsn":            "beat-sheets.db",
	"database.bootstrap":      false,
	"auth.api_key":            "",
	"auth.jwt_signing_key":    "",
	"auth.jwt_audience":       "",
	"rate_limit.enabled":      true,
	"rate_limit.limit":        60,
	"rate_limit.window":       time.Minute,
	"rate_limit.redis_addr":   "",
}

// LoadConfig reads the optional YAML file at path and overlays BEATS_*
// environment variables, e.g. BEATS_DATABASE_DSN for database.dsn.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse beat sheets config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case sqldb.DriverSQLite, sqldb.DriverMySQL:
	default:
		return fmt.Errorf("invalid database.driver %q, expected %s or %s",
			c.Database.Driver, sqldb.DriverSQLite, sqldb.DriverMySQL)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.RateLimit.Enabled && c.RateLimit.Limit < 1 {
		return fmt.Errorf("invalid rate_limit.limit %d", c.RateLimit.Limit)
	}
	return nil
}
