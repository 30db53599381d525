package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Persistence.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	StoreDriver  string `mapstructure:"STORE_DRIVER"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Auth.
	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	GuestSessionSecret   string        `mapstructure:"GUEST_SESSION_SECRET"`
	GuestSessionTTL      time.Duration `mapstructure:"GUEST_SESSION_TTL"`
	GuestValidateTimeout time.Duration `mapstructure:"GUEST_VALIDATE_TIMEOUT"`

	// Business rules.
	BusinessTimezone        string `mapstructure:"BUSINESS_TIMEZONE"`
	ReferralDiscountPercent int64  `mapstructure:"REFERRAL_DISCOUNT_PERCENT"`

	// Notifications.
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	NotificationsEnabled    bool   `mapstructure:"NOTIFICATIONS_ENABLED"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "carwash")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("GUEST_SESSION_SECRET", "")
	viper.SetDefault("GUEST_SESSION_TTL", "24h")
	viper.SetDefault("GUEST_VALIDATE_TIMEOUT", "5s")
	viper.SetDefault("BUSINESS_TIMEZONE", "Africa/Cairo")
	viper.SetDefault("REFERRAL_DISCOUNT_PERCENT", 10)
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	viper.SetDefault("NOTIFICATIONS_ENABLED", false)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UseMemoryStore reports whether repositories should run in-process.
func UseMemoryStore() bool {
	return AppConfig.StoreDriver == "memory"
}

// BusinessLocation resolves the configured business timezone, falling back to UTC.
func BusinessLocation() *time.Location {
	loc, err := time.LoadLocation(AppConfig.BusinessTimezone)
	if err != nil {
		log.Printf("Unknown BUSINESS_TIMEZONE %q, using UTC", AppConfig.BusinessTimezone)
		return time.UTC
	}
	return loc
}
