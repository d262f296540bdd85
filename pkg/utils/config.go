package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Booking   BookingConfig
	RateLimit RateLimitConfig
	Payment   PaymentConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	ExpiryHours int
}

type BookingConfig struct {
	HoldTTLMinutes     int
	ReclaimIntervalSec int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type PaymentConfig struct {
	MockLatencyMs int
}

// HoldTTL is the reservation time-to-live.
func (c BookingConfig) HoldTTL() time.Duration {
	return time.Duration(c.HoldTTLMinutes) * time.Minute
}

// ReclaimInterval is how often the expiry reclaimer runs.
func (c BookingConfig) ReclaimInterval() time.Duration {
	return time.Duration(c.ReclaimIntervalSec) * time.Second
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("HOLD_TTL_MINUTES", 10)
	viper.SetDefault("RECLAIM_INTERVAL_SEC", 60)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("PAYMENT_MOCK_LATENCY_MS", 1000)
	viper.SetDefault("LOG_PATH", "logs/")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Booking: BookingConfig{
			HoldTTLMinutes:     viper.GetInt("HOLD_TTL_MINUTES"),
			ReclaimIntervalSec: viper.GetInt("RECLAIM_INTERVAL_SEC"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Payment: PaymentConfig{
			MockLatencyMs: viper.GetInt("PAYMENT_MOCK_LATENCY_MS"),
		},
	}

	return config, nil
}
