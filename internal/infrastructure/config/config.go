package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Broker     BrokerConfig
	Resilience ResilienceConfig
	Peer       PeerConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Telemetry  TelemetryConfig
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. The same instance backs
// both the cache and the event stream.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds cache-aside settings.
type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	KeyPrefix string // service segment of cache keys; empty means the binary's service name
}

// BrokerConfig holds event stream settings.
type BrokerConfig struct {
	Stream        string // Redis stream name for enrollment events
	ConsumerGroup string
	ConsumerName  string
	BlockTimeout  time.Duration // how long a read blocks waiting for entries
	ClaimMinIdle  time.Duration // min idle before pending entries are reclaimed
	MaxStreamLen  int64         // approximate stream trim length, 0 = unbounded
}

// ResilienceConfig holds timeout, retry and circuit breaker settings for
// outbound calls. These are deployment knobs, not compile-time constants.
type ResilienceConfig struct {
	CallTimeout      time.Duration // per-attempt deadline
	RetryCount       int           // retries after the initial attempt
	RetryBaseDelay   time.Duration // backoff base, doubled per retry
	FailureThreshold int           // consecutive failures before the breaker opens
	OpenDuration     time.Duration // how long an open breaker rejects calls
}

// PeerConfig holds the location of the sibling service.
type PeerConfig struct {
	CourseServiceURL string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// TelemetryConfig holds OpenTelemetry configuration.
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CAMPUS_ prefix (e.g., CAMPUS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	v.SetEnvPrefix("CAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Enabled:   v.GetBool("cache.enabled"),
			TTL:       v.GetDuration("cache.ttl"),
			KeyPrefix: v.GetString("cache.key_prefix"),
		},
		Broker: BrokerConfig{
			Stream:        v.GetString("broker.stream"),
			ConsumerGroup: v.GetString("broker.consumer_group"),
			ConsumerName:  v.GetString("broker.consumer_name"),
			BlockTimeout:  v.GetDuration("broker.block_timeout"),
			ClaimMinIdle:  v.GetDuration("broker.claim_min_idle"),
			MaxStreamLen:  v.GetInt64("broker.max_stream_len"),
		},
		Resilience: ResilienceConfig{
			CallTimeout:      v.GetDuration("resilience.call_timeout"),
			RetryCount:       v.GetInt("resilience.retry_count"),
			RetryBaseDelay:   v.GetDuration("resilience.retry_base_delay"),
			FailureThreshold: v.GetInt("resilience.failure_threshold"),
			OpenDuration:     v.GetDuration("resilience.open_duration"),
		},
		Peer: PeerConfig{
			CourseServiceURL: v.GetString("peer.course_service_url"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "campus-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "campus"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Broker.Stream == "" {
		cfg.Broker.Stream = "enrollment_queue"
	}
	if cfg.Broker.ConsumerGroup == "" {
		cfg.Broker.ConsumerGroup = "course-service"
	}
	if cfg.Broker.ConsumerName == "" {
		cfg.Broker.ConsumerName = cfg.App.Name
	}
	if cfg.Broker.BlockTimeout == 0 {
		cfg.Broker.BlockTimeout = 5 * time.Second
	}
	if cfg.Broker.ClaimMinIdle == 0 {
		cfg.Broker.ClaimMinIdle = time.Minute
	}
	if cfg.Resilience.CallTimeout == 0 {
		cfg.Resilience.CallTimeout = 2 * time.Second
	}
	if cfg.Resilience.RetryCount == 0 {
		cfg.Resilience.RetryCount = 3
	}
	if cfg.Resilience.RetryBaseDelay == 0 {
		cfg.Resilience.RetryBaseDelay = 2 * time.Second
	}
	if cfg.Resilience.FailureThreshold == 0 {
		cfg.Resilience.FailureThreshold = 5
	}
	if cfg.Resilience.OpenDuration == 0 {
		cfg.Resilience.OpenDuration = 30 * time.Second
	}
	if cfg.Peer.CourseServiceURL == "" {
		cfg.Peer.CourseServiceURL = "http://localhost:8081"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
}

// validate performs validation on the configuration.
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Resilience.RetryCount < 0 {
		return fmt.Errorf("resilience.retry_count cannot be negative")
	}
	if c.Resilience.FailureThreshold < 1 {
		return fmt.Errorf("resilience.failure_threshold must be at least 1")
	}
	if c.Resilience.CallTimeout <= 0 {
		return fmt.Errorf("resilience.call_timeout must be positive")
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the Redis host:port address.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
