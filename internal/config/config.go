// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Directory DirectoryConfig `koanf:"directory"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Profile   ProfileConfig   `koanf:"profile"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects the durable key/value backend that holds each
// profile's saved session and favorites.
type StorageConfig struct {
	Driver    string `koanf:"driver"`
	KeyPrefix string `koanf:"key_prefix"`
}

// DirectoryConfig selects where known users live: the seeded in-memory
// list or the users table. AdminEmail, when set, seeds one ADMIN account
// at startup.
type DirectoryConfig struct {
	Driver        string `koanf:"driver"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
	AdminName     string `koanf:"admin_name"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type ProfileConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	TokenExpire    time.Duration `koanf:"token_expire"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
	CookieName     string        `koanf:"cookie_name"`
	CookieSecure   bool          `koanf:"cookie_secure"`
	MaxOpen        int           `koanf:"max_open"`
	IdleTTL        time.Duration `koanf:"idle_ttl"`
}

type AuthConfig struct {
	SimulatedLatency time.Duration `koanf:"simulated_latency"`
}

type RateLimitConfig struct {
	Requests      int           `koanf:"requests"`
	Window        time.Duration `koanf:"window"`
	Burst         int           `koanf:"burst"`
	LoginRequests int           `koanf:"login_requests"`
	LoginBurst    int           `koanf:"login_burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	ExposedHeaders   []string `koanf:"exposed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
}

var (
	cfg     *Config
	once    sync.Once
	loadErr error
)

func Load(configPath string) (*Config, error) {
	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "SilverShift",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"storage.driver":     StorageMemory,
		"storage.key_prefix": "silvershift:",

		"directory.driver":     StorageMemory,
		"directory.admin_name": "Administrator",

		"database.driver":             "pgx",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"profile.private_key_path": "keys/private.pem",
		"profile.public_key_path":  "keys/public.pem",
		"profile.token_expire":     "8760h",
		"profile.issuer":           "silvershift",
		"profile.audience":         "silvershift-web",
		"profile.cookie_name":      "silvershift_profile",
		"profile.cookie_secure":    false,
		"profile.max_open":         10000,
		"profile.idle_ttl":         "30m",

		"auth.simulated_latency": "1s",

		"rate_limit.requests":       100,
		"rate_limit.window":         "1m",
		"rate_limit.burst":          20,
		"rate_limit.login_requests": 10,
		"rate_limit.login_burst":    5,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Profile-Token",
			"X-Request-ID",
		},
		"cors.exposed_headers": []string{
			"X-Profile-Token",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "silvershift",

		"metrics.enabled":   true,
		"metrics.path":      "/metrics",
		"metrics.namespace": "silvershift",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"STORAGE_DRIVER":              "storage.driver",
	"STORAGE_KEY_PREFIX":          "storage.key_prefix",
	"DIRECTORY_DRIVER":            "directory.driver",
	"DIRECTORY_ADMIN_EMAIL":       "directory.admin_email",
	"DIRECTORY_ADMIN_PASSWORD":    "directory.admin_password",
	"DIRECTORY_ADMIN_NAME":        "directory.admin_name",
	"DATABASE_DRIVER":             "database.driver",
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"PROFILE_PRIVATE_KEY_PATH":    "profile.private_key_path",
	"PROFILE_PUBLIC_KEY_PATH":     "profile.public_key_path",
	"PROFILE_TOKEN_EXPIRE":        "profile.token_expire",
	"PROFILE_COOKIE_SECURE":       "profile.cookie_secure",
	"PROFILE_MAX_OPEN":            "profile.max_open",
	"PROFILE_IDLE_TTL":            "profile.idle_ttl",
	"AUTH_SIMULATED_LATENCY":      "auth.simulated_latency",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"METRICS_ENABLED":             "metrics.enabled",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	switch c.Storage.Driver {
	case StorageMemory, StorageSQL:
	case StorageRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for redis storage")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Directory.Driver {
	case StorageMemory, StorageSQL:
	default:
		return fmt.Errorf("unknown directory driver %q", c.Directory.Driver)
	}

	if (c.Directory.AdminEmail == "") != (c.Directory.AdminPassword == "") {
		return fmt.Errorf(
			"DIRECTORY_ADMIN_EMAIL and DIRECTORY_ADMIN_PASSWORD must be set together",
		)
	}

	if c.Directory.AdminPassword != "" && len(c.Directory.AdminPassword) < 12 {
		return fmt.Errorf("DIRECTORY_ADMIN_PASSWORD must be at least 12 characters")
	}

	if c.UsesDatabase() {
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for sql storage")
		}
		if c.Database.Driver != "pgx" && c.Database.Driver != "sqlite" {
			return fmt.Errorf("unknown database driver %q", c.Database.Driver)
		}
	}

	if c.Profile.PrivateKeyPath == "" {
		return fmt.Errorf("PROFILE_PRIVATE_KEY_PATH is required")
	}

	if c.Profile.PublicKeyPath == "" {
		return fmt.Errorf("PROFILE_PUBLIC_KEY_PATH is required")
	}

	if c.Profile.MaxOpen < 0 {
		return fmt.Errorf("profile.max_open must not be negative")
	}

	if c.Profile.IdleTTL < 0 {
		return fmt.Errorf("profile.idle_ttl must not be negative")
	}

	if c.Auth.SimulatedLatency < 0 {
		return fmt.Errorf("auth.simulated_latency must not be negative")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if !c.Profile.CookieSecure {
			return fmt.Errorf("PROFILE_COOKIE_SECURE must be true in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// UsesDatabase reports whether any component is backed by SQL.
func (c *Config) UsesDatabase() bool {
	return c.Storage.Driver == StorageSQL || c.Directory.Driver == StorageSQL
}

// UsesRedis reports whether a Redis client should be opened. Rate limiting
// uses Redis opportunistically whenever a URL is configured.
func (c *Config) UsesRedis() bool {
	return c.Storage.Driver == StorageRedis || c.Redis.URL != ""
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
