package config

import (
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port      int    `env:"PORT"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_BACKEND"`
	DB        DB
	Kafka     Kafka
	Dispatch  Dispatch
	RateLimit RateLimit
	Notify    Notify
}

// DB stores Postgres connection settings.
type DB struct {
	Host string `env:"POSTGRES_HOST"`
	Port string `env:"POSTGRES_PORT"`
	User string `env:"POSTGRES_USER"`
	Pass string `env:"POSTGRES_PASSWORD"`
	Name string `env:"POSTGRES_DB"`
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		d.User, d.Pass, net.JoinHostPort(d.Host, d.Port), d.Name)
}

// Kafka stores broker settings. Empty Brokers disables both consumer and producer.
type Kafka struct {
	Brokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	GroupID     string   `env:"KAFKA_GROUP_ID"`
	OrdersTopic string   `env:"KAFKA_ORDERS_TOPIC"`
	StatusTopic string   `env:"KAFKA_STATUS_TOPIC"`
}

// Dispatch stores dispatcher settings.
type Dispatch struct {
	OperationTimeout time.Duration `env:"DISPATCH_OPERATION_TIMEOUT"`
	StaleAfter       time.Duration `env:"DISPATCH_STALE_AFTER"`
	SweepSchedule    string        `env:"DISPATCH_SWEEP_SCHEDULE"`
	PassSchedule     string        `env:"DISPATCH_PASS_SCHEDULE"`
	Policy           string        `env:"DISPATCH_POLICY"`
}

// RateLimit stores per-courier rate limit settings.
type RateLimit struct {
	Enabled    bool          `env:"RATE_LIMIT_ENABLED"`
	Rate       float64       `env:"RATE_LIMIT_RATE"`
	Burst      int           `env:"RATE_LIMIT_BURST"`
	TTL        time.Duration `env:"RATE_LIMIT_TTL"`
	MaxBuckets int           `env:"RATE_LIMIT_MAX_BUCKETS"`
}

// Notify stores status notifier retry settings.
type Notify struct {
	MaxAttempts int           `env:"NOTIFY_MAX_ATTEMPTS"`
	BaseDelay   time.Duration `env:"NOTIFY_BASE_DELAY"`
	MaxDelay    time.Duration `env:"NOTIFY_MAX_DELAY"`
}

// Load reads configuration in order: defaults → .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		LogLevel:  "info",
		LogFormat: "slog",
		DB:        defaultDB,
		Kafka:     defaultKafka,
		Dispatch:  defaultDispatch,
		RateLimit: defaultRateLimit,
		Notify:    defaultNotify,
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.Dispatch.Policy, "policy", cfg.Dispatch.Policy, "matching policy: first_available|least_loaded")
	if err := pflag.CommandLine.Parse(osArgs()); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := strconv.Atoi(c.DB.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", c.DB.Port, err)
	}
	if c.Dispatch.OperationTimeout <= 0 {
		return fmt.Errorf("invalid DISPATCH_OPERATION_TIMEOUT: %s", c.Dispatch.OperationTimeout)
	}
	if c.Dispatch.StaleAfter <= 0 {
		return fmt.Errorf("invalid DISPATCH_STALE_AFTER: %s", c.Dispatch.StaleAfter)
	}
	return nil
}
