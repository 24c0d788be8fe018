package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Customer CustomerConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	Environment string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	MaxConns     int32
	QueryTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	ExpiryDays int
	Issuer     string
}

// SecurityConfig holds deployment-time knobs for hashing and lockout.
type SecurityConfig struct {
	BcryptCost       int
	HashConcurrency  int
	LockoutThreshold int
	LockoutDuration  time.Duration
}

type CustomerConfig struct {
	MaxCustomers int64
}

// TokenExpiry returns the configured token lifetime.
func (c JWTConfig) TokenExpiry() time.Duration {
	return time.Duration(c.ExpiryDays) * 24 * time.Hour
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "puremilk")
	viper.SetDefault("PORT", "8001")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_QUERY_TIMEOUT_SECONDS", 5)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_EXPIRY_DAYS", 7)
	viper.SetDefault("JWT_ISSUER", "puremilk")
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("HASH_CONCURRENCY", runtime.NumCPU())
	viper.SetDefault("LOCKOUT_THRESHOLD", 5)
	viper.SetDefault("LOCKOUT_MINUTES", 30)
	viper.SetDefault("MAX_CUSTOMER_LIMIT", 10000)

	viper.AutomaticEnv()

	// .env is optional; plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASS"),
			MaxConns:     viper.GetInt32("DB_MAX_CONNS"),
			QueryTimeout: time.Duration(viper.GetInt("DB_QUERY_TIMEOUT_SECONDS")) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			ExpiryDays: viper.GetInt("JWT_EXPIRY_DAYS"),
			Issuer:     viper.GetString("JWT_ISSUER"),
		},
		Security: SecurityConfig{
			BcryptCost:       viper.GetInt("BCRYPT_COST"),
			HashConcurrency:  viper.GetInt("HASH_CONCURRENCY"),
			LockoutThreshold: viper.GetInt("LOCKOUT_THRESHOLD"),
			LockoutDuration:  time.Duration(viper.GetInt("LOCKOUT_MINUTES")) * time.Minute,
		},
		Customer: CustomerConfig{
			MaxCustomers: viper.GetInt64("MAX_CUSTOMER_LIMIT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the auth core cannot run safely with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.ExpiryDays < 1 {
		return fmt.Errorf("JWT_EXPIRY_DAYS must be positive, got %d", c.JWT.ExpiryDays)
	}
	if c.Security.LockoutThreshold < 1 {
		return fmt.Errorf("LOCKOUT_THRESHOLD must be positive, got %d", c.Security.LockoutThreshold)
	}
	if c.Security.LockoutDuration <= 0 {
		return errors.New("LOCKOUT_MINUTES must be positive")
	}
	return nil
}
