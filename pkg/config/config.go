package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	SQLite     SQLiteConfig
	Redis      RedisConfig
	Chat       ChatConfig
	Voice      VoiceConfig
	RateLimit  RateLimitConfig
	Resilience ResilienceConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    int
	WriteTimeout   int
	BodyLimit      int
	AllowedOrigins []string
	Development    bool
}

type StorageConfig struct {
	// Driver is one of memory, sqlite or redis.
	Driver string
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ChatConfig struct {
	ResponseDelayMs  int
	MaxMessageLength int
}

func (c ChatConfig) ResponseDelay() time.Duration {
	return time.Duration(c.ResponseDelayMs) * time.Millisecond
}

type VoiceConfig struct {
	DefaultLanguage string
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type ResilienceConfig struct {
	RetryAttempts         int
	RetryInitialDelayMs   int
	BreakerFailures       uint32
	BreakerOpenTimeoutSec int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/scheme-assist")

	v.SetEnvPrefix("SCHEME_ASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Chat.ResponseDelayMs < 0 {
		return fmt.Errorf("chat.responseDelayMs must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.bodyLimit", 1048576)
	v.SetDefault("server.allowedOrigins", []string{"*"})
	v.SetDefault("server.development", false)

	v.SetDefault("storage.driver", "sqlite")

	v.SetDefault("sqlite.path", "./data/scheme-assist.db")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("chat.responseDelayMs", 1500)
	v.SetDefault("chat.maxMessageLength", 1000)

	v.SetDefault("voice.defaultLanguage", "english")

	v.SetDefault("rateLimit.requestsPerMinute", 60)

	v.SetDefault("resilience.retryAttempts", 3)
	v.SetDefault("resilience.retryInitialDelayMs", 50)
	v.SetDefault("resilience.breakerFailures", 5)
	v.SetDefault("resilience.breakerOpenTimeoutSec", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")

	v.SetDefault("metrics.enabled", true)
}
