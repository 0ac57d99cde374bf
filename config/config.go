package config

import (
	"rentdesk/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	AuthTokenSecret      string `mapstructure:"AUTH_TOKEN_SECRET"`
	AuthTokenExpiryHours int    `mapstructure:"AUTH_TOKEN_EXPIRY_HOURS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

var configKeys = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
	"CORS_ALLOW_ORIGINS",
	"AUTH_TOKEN_SECRET", "AUTH_TOKEN_EXPIRY_HOURS",
	"SCHEDULER_ENABLED",
}

// InitConfig loads configuration from the environment, falling back to .env
// and .env.local files when the expected variables are not set. Deployments
// provide real env vars; the files exist for local development.
func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	viper.AutomaticEnv()
	for _, key := range configKeys {
		if err := viper.BindEnv(key); err != nil {
			log.Warn("Failed to bind environment variable", "key", key, "error", err)
		}
	}

	if viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST") {
		log.Info("Using configuration from environment")
	} else {
		loadEnvFiles(log)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, log.Err("failed to unmarshal config", err)
	}

	if cfg.AuthTokenExpiryHours <= 0 {
		cfg.AuthTokenExpiryHours = 24
	}

	if cfg.ServerPort <= 0 {
		return Config{}, log.Error("invalid server port", "port", cfg.ServerPort)
	}
	if cfg.AuthTokenSecret == "" {
		return Config{}, log.Error("AUTH_TOKEN_SECRET is required")
	}

	log.Info("Configuration loaded", "environment", cfg.Environment)
	return cfg, nil
}

func loadEnvFiles(log logger.Logger) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	if err := viper.ReadInConfig(); err != nil {
		log.Warn("No .env file found", "error", err)
	}

	// .env.local overrides .env for per-developer settings
	viper.SetConfigFile(".env.local")
	if err := viper.MergeInConfig(); err != nil {
		log.Debug("No .env.local file found")
	}
}
