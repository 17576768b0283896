package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bundasehat/screening-backend/internal/clients/redis"
	"github.com/bundasehat/screening-backend/internal/data/db"
	"github.com/bundasehat/screening-backend/internal/http/middleware"
	"github.com/bundasehat/screening-backend/internal/platform/envutil"
	"github.com/bundasehat/screening-backend/internal/platform/gemini"
	"github.com/bundasehat/screening-backend/internal/services"
)

// Config is read from the optional CONFIG_FILE and then overridden by env.
type Config struct {
	LogMode string `yaml:"log_mode"`
	Port    string `yaml:"port"`

	JWTSecretKey   string        `yaml:"jwt_secret_key"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`

	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Admin    AdminConfig    `yaml:"admin"`
}

type DatabaseConfig struct {
	Driver        string        `yaml:"driver"`
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name"`
	SSLMode       string        `yaml:"sslmode"`
	SQLitePath    string        `yaml:"sqlite_path"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type GeminiConfig struct {
	APIKey           string        `yaml:"api_key"`
	BaseURL          string        `yaml:"base_url"`
	Model            string        `yaml:"model"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxRetries       int           `yaml:"max_retries"`
	RateLimitBackoff time.Duration `yaml:"rate_limit_backoff"`
}

// AdminConfig seeds the first admin account when Email is set.
type AdminConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func defaultConfig() Config {
	return Config{
		LogMode:         "development",
		Port:            "8080",
		AccessTokenTTL:  services.DefaultAccessTTL,
		ShutdownTimeout: 15 * time.Second,
		Database: DatabaseConfig{
			Driver:        db.DriverPostgres,
			Host:          "localhost",
			Port:          "5432",
			SSLMode:       "disable",
			SQLitePath:    "screening.db",
			SlowThreshold: time.Second,
		},
		Redis: RedisConfig{KeyPrefix: "bundasehat:"},
		Gemini: GeminiConfig{
			BaseURL:          gemini.DefaultBaseURL,
			Model:            gemini.DefaultModel,
			Timeout:          gemini.DefaultTimeout,
			MaxRetries:       gemini.DefaultMaxRetries,
			RateLimitBackoff: gemini.DefaultRateLimitBackoff,
		},
	}
}

func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.Port = envutil.String("PORT", c.Port)
	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	// ACCESS_TOKEN_TTL is in seconds.
	if secs := envutil.Int("ACCESS_TOKEN_TTL", 0); secs > 0 {
		c.AccessTokenTTL = time.Duration(secs) * time.Second
	}
	if raw := envutil.String("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		c.CORSOrigins = middleware.ParseOrigins(raw)
	}
	c.ShutdownTimeout = envutil.Millis("SHUTDOWN_TIMEOUT_MS", c.ShutdownTimeout)

	d := &c.Database
	d.Driver = envutil.String("DB_DRIVER", d.Driver)
	d.Host = envutil.String("POSTGRES_HOST", d.Host)
	d.Port = envutil.String("POSTGRES_PORT", d.Port)
	d.User = envutil.String("POSTGRES_USER", d.User)
	d.Password = envutil.String("POSTGRES_PASSWORD", d.Password)
	d.Name = envutil.String("POSTGRES_NAME", d.Name)
	d.SSLMode = envutil.String("POSTGRES_SSLMODE", d.SSLMode)
	d.SQLitePath = envutil.String("SQLITE_PATH", d.SQLitePath)
	d.SlowThreshold = envutil.Millis("DB_SLOW_THRESHOLD_MS", d.SlowThreshold)

	r := &c.Redis
	r.Addr = envutil.String("REDIS_ADDR", r.Addr)
	r.Password = envutil.String("REDIS_PASSWORD", r.Password)
	r.DB = envutil.Int("REDIS_DB", r.DB)
	r.KeyPrefix = envutil.String("REDIS_KEY_PREFIX", r.KeyPrefix)

	g := &c.Gemini
	g.APIKey = envutil.String("GEMINI_API_KEY", g.APIKey)
	g.BaseURL = envutil.String("GEMINI_BASE_URL", g.BaseURL)
	g.Model = envutil.String("GEMINI_MODEL", g.Model)
	g.Timeout = envutil.Millis("GEMINI_TIMEOUT_MS", g.Timeout)
	g.MaxRetries = envutil.Int("GEMINI_MAX_RETRIES", g.MaxRetries)
	g.RateLimitBackoff = envutil.Millis("GEMINI_RATE_LIMIT_BACKOFF_MS", g.RateLimitBackoff)

	a := &c.Admin
	a.Name = envutil.String("ADMIN_NAME", a.Name)
	a.Email = envutil.String("ADMIN_EMAIL", a.Email)
	a.Password = envutil.String("ADMIN_PASSWORD", a.Password)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("missing JWT_SECRET_KEY")
	}
	switch c.Database.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.Admin.Email != "" && c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_EMAIL is set without ADMIN_PASSWORD")
	}
	return nil
}

func (c Config) Addr() string {
	p := strings.TrimSpace(c.Port)
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func (c Config) dbConfig() db.Config {
	d := c.Database
	return db.Config{
		Driver:           d.Driver,
		PostgresHost:     d.Host,
		PostgresPort:     d.Port,
		PostgresUser:     d.User,
		PostgresPassword: d.Password,
		PostgresName:     d.Name,
		PostgresSSLMode:  d.SSLMode,
		SQLitePath:       d.SQLitePath,
		SlowThreshold:    d.SlowThreshold,
	}
}

func (c Config) geminiConfig() gemini.Config {
	g := c.Gemini
	return gemini.Config{
		APIKey:           g.APIKey,
		BaseURL:          g.BaseURL,
		Model:            g.Model,
		Timeout:          g.Timeout,
		MaxRetries:       g.MaxRetries,
		RateLimitBackoff: g.RateLimitBackoff,
	}
}

func (c Config) redisConfig() redis.Config {
	return redis.Config{Addr: c.Redis.Addr, Password: c.Redis.Password, DB: c.Redis.DB, KeyPrefix: c.Redis.KeyPrefix}
}

// evaluationLockTTL outlives the longest model call the evaluator can make:
// every attempt timing out plus every rate-limit wait, with slack for the DB write.
func (c Config) evaluationLockTTL() time.Duration {
	g := c.Gemini
	retries := time.Duration(max(g.MaxRetries, 0))
	return g.Timeout*(retries+1) + g.RateLimitBackoff*retries + 30*time.Second
}
