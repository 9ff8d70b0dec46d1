package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"GO_ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis backs the badge ledger cache; empty address disables it
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	LedgerTTL     time.Duration `mapstructure:"LEDGER_CACHE_TTL"`

	NotificationQueueSize int `mapstructure:"NOTIFICATION_QUEUE_SIZE"`

	// Resend (temporary password emails)
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`

	// R2 / S3 (prototype files)
	R2AccountID       string `mapstructure:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"` // Custom domain
}

var AppConfig *Config

var keys = []string{
	"PORT", "GO_ENV", "DATABASE_URL", "JWT_SECRET", "FRONTEND_URL", "LOG_LEVEL",
	"REDIS_ADDR", "REDIS_PASSWORD", "LEDGER_CACHE_TTL", "NOTIFICATION_QUEUE_SIZE",
	"RESEND_API_KEY", "EMAIL_FROM",
	"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_URL",
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GO_ENV", "development")
	viper.SetDefault("FRONTEND_URL", "http://localhost:5173")
	viper.SetDefault("LEDGER_CACHE_TTL", 10*time.Minute)
	viper.SetDefault("NOTIFICATION_QUEUE_SIZE", 16)
	viper.SetDefault("EMAIL_FROM", "ActiveLearn Hub <onboarding@resend.dev>")
}

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	// Bind explicitly so Unmarshal sees env vars without a .env file
	for _, k := range keys {
		_ = viper.BindEnv(k)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}
