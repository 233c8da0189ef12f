package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisContextDB    int    `mapstructure:"REDIS_CONTEXT_DB"`
	RedisQueueDB      int    `mapstructure:"REDIS_QUEUE_DB"`
	ContextTTLMinutes int    `mapstructure:"CONTEXT_TTL_MINUTES"`

	// Assistant identity, used in salutations and draft bodies.
	AssistantName  string `mapstructure:"ASSISTANT_NAME"`
	AssistantEmail string `mapstructure:"ASSISTANT_EMAIL"`
	CompanyName    string `mapstructure:"COMPANY_NAME"`

	// Default IANA timezone for appointments and "today" boundaries.
	DefaultTimeZone string `mapstructure:"DEFAULT_TIMEZONE"`

	// Gemini API key for prose generation. Optional: drafts fall back to a
	// fixed skeleton when empty.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONTEXT_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("CONTEXT_TTL_MINUTES", 30)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("ASSISTANT_NAME", "Marta Maria Mendez")
	viper.SetDefault("ASSISTANT_EMAIL", "mmendez@datanalisis.io")
	viper.SetDefault("COMPANY_NAME", "datanalisis.io")
	viper.SetDefault("DEFAULT_TIMEZONE", "America/Mexico_City")
	viper.SetDefault("GEMINI_API_KEY", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
