// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  It is built once at startup and passed by value
// to the components that need it; nothing reads the environment afterwards.
type Config struct {
	Env             string        // application environment (local, dev, prod)
	Port            string        // HTTP port to listen on
	DBDriver        string        // sqlite or mysql
	DBDSN           string        // database location: file path or MySQL DSN
	JWTSecret       string        // secret used to sign session tokens
	AccessTTLMin    int           // session token time-to-live in minutes
	BcryptCost      int           // bcrypt cost for password hashing
	HTTPTimeout     time.Duration // read/write timeout of the HTTP server
	HTTPIdleTimeout time.Duration // keep-alive idle timeout
	Redis           RedisConfig   // optional cache backend
	Cache           CacheConfig   // message listing cache
	RabbitMQ        RabbitMQConfig
}

// RabbitMQConfig configures contact notifications.  An empty URL disables them.
type RabbitMQConfig struct {
	URL          string
	ContactQueue string
	DialTimeout  time.Duration
}

// Enabled reports whether a broker URL is configured.
func (r RabbitMQConfig) Enabled() bool { return r.URL != "" }

// AccessTTL returns the token lifetime as a duration.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// Addr is the listen address built from Port.
func (c Config) Addr() string { return ":" + c.Port }

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads an optional .env file and then the process environment.  Values
// already present in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg := Config{
		Env:             getenv("APP_ENV", "local"),
		Port:            getenv("APP_PORT", "8000"),
		DBDriver:        getenv("DB_DRIVER", DriverSQLite),
		DBDSN:           getenv("DB_DSN", "contact_desk.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTTLMin:    envInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:      envInt("BCRYPT_COST", 10),
		HTTPTimeout:     envDur("HTTP_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout: envDur("HTTP_IDLE_TIMEOUT", 60*time.Second),
		Redis:           LoadRedisConfig(),
		Cache:           LoadCacheConfig(),
		RabbitMQ:        loadRabbitMQConfig(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadRabbitMQConfig() RabbitMQConfig {
	return RabbitMQConfig{
		URL:          os.Getenv("RABBITMQ_URL"),
		ContactQueue: getenv("CONTACT_QUEUE", "contact.submitted"),
		DialTimeout:  envDur("RABBITMQ_DIAL_TIMEOUT", 500*time.Millisecond),
	}
}

// NotifierConfig is the subset cmd/notifier reads.  It does not need a
// database or a token secret.
type NotifierConfig struct {
	Env      string
	RabbitMQ RabbitMQConfig
	LogFile  string
}

var ErrMissingBroker = errors.New("RABBITMQ_URL is required")

func LoadNotifier() (NotifierConfig, error) {
	_ = godotenv.Load()

	cfg := NotifierConfig{
		Env:      getenv("APP_ENV", "local"),
		RabbitMQ: loadRabbitMQConfig(),
		LogFile:  getenv("CONTACT_LOG_FILE", "logs/contact.log"),
	}
	if !cfg.RabbitMQ.Enabled() {
		return cfg, ErrMissingBroker
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverMySQL {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.AccessTTLMin <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive, got %d", c.AccessTTLMin)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be within 4..31, got %d", c.BcryptCost)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
