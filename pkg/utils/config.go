package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Hold     HoldConfig
	Travel   TravelConfig
	Admin    AdminConfig
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

// HoldConfig controls slot hold expiry and the reconciliation sweep.
type HoldConfig struct {
	ExpiryMinutes int
	SweepMinutes  int
}

// TravelConfig controls the travel cache tiers and fee pricing.
type TravelConfig struct {
	CacheCapacity  int
	CacheTTLDays   int
	CleanupMinutes int
	FreeMiles      float64
	PerMileRate    float64
	BaseSpeedMph   float64
	RushHourFactor float64
}

type AdminConfig struct {
	APIKey string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("HOLD_EXPIRY_MINUTES", 120)
	viper.SetDefault("HOLD_SWEEP_MINUTES", 15)
	viper.SetDefault("TRAVEL_CACHE_CAPACITY", 1000)
	viper.SetDefault("TRAVEL_CACHE_TTL_DAYS", 7)
	viper.SetDefault("TRAVEL_CACHE_CLEANUP_MINUTES", 60)
	viper.SetDefault("TRAVEL_FREE_MILES", 30.0)
	viper.SetDefault("TRAVEL_PER_MILE_RATE", 2.0)
	viper.SetDefault("TRAVEL_BASE_SPEED_MPH", 30.0)
	viper.SetDefault("TRAVEL_RUSH_HOUR_FACTOR", 1.25)

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
		Hold: HoldConfig{
			ExpiryMinutes: viper.GetInt("HOLD_EXPIRY_MINUTES"),
			SweepMinutes:  viper.GetInt("HOLD_SWEEP_MINUTES"),
		},
		Travel: TravelConfig{
			CacheCapacity:  viper.GetInt("TRAVEL_CACHE_CAPACITY"),
			CacheTTLDays:   viper.GetInt("TRAVEL_CACHE_TTL_DAYS"),
			CleanupMinutes: viper.GetInt("TRAVEL_CACHE_CLEANUP_MINUTES"),
			FreeMiles:      viper.GetFloat64("TRAVEL_FREE_MILES"),
			PerMileRate:    viper.GetFloat64("TRAVEL_PER_MILE_RATE"),
			BaseSpeedMph:   viper.GetFloat64("TRAVEL_BASE_SPEED_MPH"),
			RushHourFactor: viper.GetFloat64("TRAVEL_RUSH_HOUR_FACTOR"),
		},
		Admin: AdminConfig{
			APIKey: viper.GetString("ADMIN_API_KEY"),
		},
	}

	return config, nil
}
