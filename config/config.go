package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"clearmoney/service"
)

// Config holds application configuration. It is read from an optional YAML
// file and then overridden by environment variables.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Cache      CacheConfig      `yaml:"cache"`
	Redis      RedisConfig      `yaml:"redis"`
	Database   DatabaseConfig   `yaml:"database"`
	Simulation SimulationConfig `yaml:"simulation"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Retention  RetentionConfig  `yaml:"retention"`
	AI         AIConfig         `yaml:"ai"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// CacheConfig applies to whichever result cache is active. MaxEntries only
// bounds the in-process cache; Redis relies on its own eviction policy.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// RedisConfig enables the Redis result cache when Addr is set; otherwise
// results are cached in process.
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig enables PostgreSQL plan history when DSN is set.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type SimulationConfig struct {
	MaxMonths int `yaml:"max_months"`
	MaxDebts  int `yaml:"max_debts"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Window   time.Duration `yaml:"window"`
}

type RetentionConfig struct {
	Schedule string        `yaml:"schedule"`
	MaxAge   time.Duration `yaml:"max_age"`
}

type AIConfig struct {
	APIKey string `yaml:"api_key"`
	APIURL string `yaml:"api_url"`
	Model  string `yaml:"model"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			TTL:        time.Hour,
			MaxEntries: 1000,
		},
		Simulation: SimulationConfig{
			MaxMonths: service.DefaultMaxMonths,
			MaxDebts:  service.MaxDebtsPerRequest,
		},
		RateLimit: RateLimitConfig{
			Capacity: 30,
			Window:   time.Minute,
		},
		Retention: RetentionConfig{
			Schedule: "@daily",
			MaxAge:   30 * 24 * time.Hour,
		},
		AI: AIConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the environment, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Database.DSN = getEnv("DB_CONN", c.Database.DSN)
	c.Retention.Schedule = getEnv("RETENTION_SCHEDULE", c.Retention.Schedule)
	c.AI.APIKey = getEnv("OPENAI_API_KEY", c.AI.APIKey)
	c.AI.Model = getEnv("OPENAI_MODEL", c.AI.Model)

	var err error
	if c.Cache.TTL, err = getDuration("CACHE_TTL", c.Cache.TTL); err != nil {
		return err
	}
	if c.Cache.MaxEntries, err = getInt("CACHE_MAX_ENTRIES", c.Cache.MaxEntries); err != nil {
		return err
	}
	if c.RateLimit.Window, err = getDuration("RATE_LIMIT_WINDOW", c.RateLimit.Window); err != nil {
		return err
	}
	if c.Retention.MaxAge, err = getDuration("RETENTION_MAX_AGE", c.Retention.MaxAge); err != nil {
		return err
	}
	if c.Simulation.MaxMonths, err = getInt("SIMULATION_MAX_MONTHS", c.Simulation.MaxMonths); err != nil {
		return err
	}
	if c.RateLimit.Capacity, err = getInt("RATE_LIMIT_CAPACITY", c.RateLimit.Capacity); err != nil {
		return err
	}
	return nil
}

// Validate checks ranges and the retention schedule syntax.
func (c Config) Validate() error {
	var errs []error
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Server.Port))
	}
	if err := service.ValidateMaxMonths(c.Simulation.MaxMonths); err != nil {
		errs = append(errs, fmt.Errorf("simulation.max_months: %w", err))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.Cache.MaxEntries < 1 {
		errs = append(errs, fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries))
	}
	if c.Simulation.MaxDebts < 1 {
		errs = append(errs, fmt.Errorf("simulation.max_debts must be positive, got %d", c.Simulation.MaxDebts))
	}
	if c.RateLimit.Capacity < 1 {
		errs = append(errs, fmt.Errorf("rate_limit.capacity must be positive, got %d", c.RateLimit.Capacity))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit.window must be positive"))
	}
	if c.Retention.MaxAge <= 0 {
		errs = append(errs, errors.New("retention.max_age must be positive"))
	}
	if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid retention.schedule %q: %w", c.Retention.Schedule, err))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return d, nil
}
