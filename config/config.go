package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	BaseURL        string        `mapstructure:"base_url"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	MaxFormBytes   int64         `mapstructure:"max_form_bytes"`
}

// Storage drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// DatabaseConfig storage configuration. Driver picks between the MongoDB
// document store and the Postgres alternative.
type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver"`
	MongoURI       string        `mapstructure:"mongo_uri"`
	MongoDatabase  string        `mapstructure:"mongo_database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // minutes
}

// DSN builds the Postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis configuration. An empty Addr disables rate limiting.
type RedisConfig struct {
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	LoginRateLimit  int           `mapstructure:"login_rate_limit"`
	LoginRateWindow time.Duration `mapstructure:"login_rate_window"`
}

// AuthConfig session and bootstrap account configuration
type AuthConfig struct {
	Cookie           CookieConfig           `mapstructure:"cookie"`
	DefaultPrincipal DefaultPrincipalConfig `mapstructure:"default_principal"`
}

// CookieConfig session cookie settings
type CookieConfig struct {
	Name     string        `mapstructure:"name"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	Secure   bool          `mapstructure:"secure"`
	SameSite string        `mapstructure:"same_site"`
	HashKey  string        `mapstructure:"hash_key"`
}

// DefaultPrincipalConfig the administrative account seeded on first boot
type DefaultPrincipalConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional .env file, a config file and
// the environment. Precedence: environment > config file > defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CLASSROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// plain names used by existing deployments
	_ = v.BindEnv("db.mongo_uri", "CLASSROOM_DB_MONGO_URI", "MONGODB_URI")
	_ = v.BindEnv("server.port", "CLASSROOM_SERVER_PORT", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.max_upload_bytes", 8<<20)
	v.SetDefault("server.max_form_bytes", 1<<20)

	v.SetDefault("db.driver", DriverMongo)
	v.SetDefault("db.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("db.mongo_database", "classroom")
	v.SetDefault("db.connect_timeout", "10s")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "classroom")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.login_rate_limit", 10)
	v.SetDefault("redis.login_rate_window", "1m")

	v.SetDefault("auth.cookie.name", "SESSION_ID")
	v.SetDefault("auth.cookie.max_age", "15m")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")
	v.SetDefault("auth.cookie.hash_key", "")
	v.SetDefault("auth.default_principal.email", "principal@classroom.com")
	v.SetDefault("auth.default_principal.password", "Admin")
	v.SetDefault("auth.default_principal.name", "Principal")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks the settings the process cannot start without
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1-65535, got %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return errors.New("config: db.mongo_uri must not be empty")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("config: unknown db.driver %q", c.Database.Driver)
	}
	if c.Auth.Cookie.Name == "" {
		return errors.New("config: auth.cookie.name must not be empty")
	}
	if c.Auth.Cookie.MaxAge <= 0 {
		return errors.New("config: auth.cookie.max_age must be positive")
	}
	if c.Auth.DefaultPrincipal.Email == "" {
		return errors.New("config: auth.default_principal.email must not be empty")
	}
	return nil
}
