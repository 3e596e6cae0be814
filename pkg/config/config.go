package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database (optional; prediction audit log is disabled when empty)
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (optional; prediction cache is disabled when empty)
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Data files
	GamesCSVPath     string `mapstructure:"GAMES_CSV_PATH"`
	TeamStatsCSVPath string `mapstructure:"TEAM_STATS_CSV_PATH"`
	FeaturesCSVPath  string `mapstructure:"FEATURES_CSV_PATH"`

	// Model artifacts
	ModelDir      string `mapstructure:"MODEL_DIR"`
	ModelBaseName string `mapstructure:"MODEL_BASE_NAME"`

	// Training
	RollingWindow     int   `mapstructure:"ROLLING_WINDOW"`
	TrainSeed         int64 `mapstructure:"TRAIN_SEED"`
	TrainShuffleSplit bool  `mapstructure:"TRAIN_SHUFFLE_SPLIT"`

	// Serving
	ModelReloadInterval string `mapstructure:"MODEL_RELOAD_INTERVAL"`
	CacheTTLSeconds     int    `mapstructure:"CACHE_TTL_SECONDS"`
	RateLimitPerMinute  int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8085")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("GAMES_CSV_PATH", "data/processed/historical_games.csv")
	viper.SetDefault("TEAM_STATS_CSV_PATH", "data/processed/team_stats.csv")
	viper.SetDefault("FEATURES_CSV_PATH", "data/processed/game_features.csv")
	viper.SetDefault("MODEL_DIR", "models")
	viper.SetDefault("MODEL_BASE_NAME", "game_predictor")
	viper.SetDefault("ROLLING_WINDOW", 10)
	viper.SetDefault("TRAIN_SEED", 42)
	viper.SetDefault("TRAIN_SHUFFLE_SPLIT", false)
	viper.SetDefault("MODEL_RELOAD_INTERVAL", "@every 1m")
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
