package config

import (
	"fmt"
	"time"
)

// Config represents the global configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// QueueConfig represents the notification channel configuration
type QueueConfig struct {
	Driver        string        `mapstructure:"driver"` // memory, amqp
	URL           string        `mapstructure:"url"`
	Exchange      string        `mapstructure:"exchange"`
	RoutingKey    string        `mapstructure:"routing_key"`
	Topic         string        `mapstructure:"topic"`
	SessionPrefix string        `mapstructure:"session_prefix"`
	MaxBatchBytes int           `mapstructure:"max_batch_bytes"`
	// SyncDispatch blocks the checkout response on notification dispatch.
	// Off by default: dispatch runs in the background.
	SyncDispatch bool          `mapstructure:"sync_dispatch"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// PaymentConfig represents payment adapter configuration
type PaymentConfig struct {
	Driver           string        `mapstructure:"driver"` // simulated
	ReceiptTTL       time.Duration `mapstructure:"receipt_ttl"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
}

// CheckoutConfig represents checkout policy configuration
type CheckoutConfig struct {
	// AllowCrossStore permits carts spanning multiple stores. Off by
	// default: one order is fulfilled by exactly one store.
	AllowCrossStore bool `mapstructure:"allow_cross_store"`
	MaxCartLines    int  `mapstructure:"max_cart_lines"`
}

// CacheConfig represents local cache configuration
type CacheConfig struct {
	RegionTTL     time.Duration `mapstructure:"region_ttl"`
	RegionShards  int           `mapstructure:"region_shards"`
	RegionMaxSize int           `mapstructure:"region_max_size_mb"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TracingConfig represents tracing configuration
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	JWT struct {
		Secret string        `mapstructure:"secret"`
		Expire time.Duration `mapstructure:"expire"`
		Issuer string        `mapstructure:"issuer"`
	} `mapstructure:"jwt"`
}

// GetAddr returns the server address
func (s *ServerConfig) GetAddr() string {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GetDSN returns the database DSN
func (d *DatabaseConfig) GetDSN() string {
	if d.Charset == "" {
		d.Charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.DBName, d.Charset)
}

// GetAddr returns the Redis address
func (r *RedisConfig) GetAddr() string {
	if r.Host == "" {
		r.Host = "localhost"
	}
	if r.Port == 0 {
		r.Port = 6379
	}
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Username == "" {
		return fmt.Errorf("database username is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}

	if c.Queue.Driver != "memory" && c.Queue.Driver != "amqp" {
		return fmt.Errorf("unknown queue driver: %s", c.Queue.Driver)
	}

	if c.Queue.Driver == "amqp" && c.Queue.URL == "" {
		return fmt.Errorf("queue url is required for the amqp driver")
	}

	if c.Security.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	return nil
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 100
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 100
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 10
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.ConnMaxIdleTime == 0 {
		c.Redis.ConnMaxIdleTime = 5 * time.Minute
	}

	if c.Queue.Driver == "" {
		c.Queue.Driver = "memory"
	}
	if c.Queue.Exchange == "" {
		c.Queue.Exchange = "fooddelivery-orders"
	}
	if c.Queue.RoutingKey == "" {
		c.Queue.RoutingKey = "orders.created"
	}
	if c.Queue.Topic == "" {
		c.Queue.Topic = "order-notifications"
	}
	if c.Queue.SessionPrefix == "" {
		c.Queue.SessionPrefix = "Foodelivery-"
	}
	if c.Queue.MaxBatchBytes == 0 {
		c.Queue.MaxBatchBytes = 256 * 1024
	}
	if c.Queue.Timeout == 0 {
		c.Queue.Timeout = 10 * time.Second
	}

	if c.Payment.Driver == "" {
		c.Payment.Driver = "simulated"
	}
	if c.Payment.ReceiptTTL == 0 {
		c.Payment.ReceiptTTL = 24 * time.Hour
	}
	if c.Payment.FailureThreshold == 0 {
		c.Payment.FailureThreshold = 5
	}
	if c.Payment.BreakerCooldown == 0 {
		c.Payment.BreakerCooldown = 30 * time.Second
	}

	if c.Checkout.MaxCartLines == 0 {
		c.Checkout.MaxCartLines = 50
	}

	if c.Cache.RegionTTL == 0 {
		c.Cache.RegionTTL = 5 * time.Minute
	}
	if c.Cache.RegionShards == 0 {
		c.Cache.RegionShards = 64
	}
	if c.Cache.RegionMaxSize == 0 {
		c.Cache.RegionMaxSize = 8
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "fooddelivery-api"
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "http://localhost:14268/api/traces"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = 100
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 200
	}

	if c.Security.JWT.Expire == 0 {
		c.Security.JWT.Expire = 2 * time.Hour
	}
	if c.Security.JWT.Issuer == "" {
		c.Security.JWT.Issuer = "fooddelivery-api"
	}
}
