package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Language model configuration.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// MongoDB, used only for best-effort transcript analytics.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Scheduling provider.
	CalBaseURL string `mapstructure:"CAL_BASE_URL"`

	// Telephony provider. Voice calling is disabled when these are empty.
	TelephonyBaseURL    string `mapstructure:"TELEPHONY_BASE_URL"`
	TelephonyAccountSID string `mapstructure:"TELEPHONY_ACCOUNT_SID"`
	TelephonyAuthToken  string `mapstructure:"TELEPHONY_AUTH_TOKEN"`
	TelephonyFromNumber string `mapstructure:"TELEPHONY_FROM_NUMBER"`
	WebhookBaseURL      string `mapstructure:"WEBHOOK_BASE_URL"`

	// Default agent identity used when a session does not override it.
	AgentName    string `mapstructure:"AGENT_NAME"`
	AgentPersona string `mapstructure:"AGENT_PERSONA"`

	SessionTTLMinutes int `mapstructure:"SESSION_TTL_MINUTES"`

	// Google service account used for speech-to-text.
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
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
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("CAL_BASE_URL", "https://api.cal.com/v1")
	viper.SetDefault("TELEPHONY_BASE_URL", "")
	viper.SetDefault("WEBHOOK_BASE_URL", "http://localhost:8080")
	viper.SetDefault("AGENT_NAME", "Ava")
	viper.SetDefault("AGENT_PERSONA", "a friendly scheduling assistant who helps customers book appointments")
	viper.SetDefault("SESSION_TTL_MINUTES", 30)

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
