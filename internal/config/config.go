// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Archive    ArchiveConfig
	Thresholds ThresholdConfig
}

type ServerConfig struct {
	Port           string
	OpsPort        string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

// ArchiveConfig holds connection info for the S3-compatible snapshot archive.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ThresholdConfig exposes the alerting and classification constants as
// overridable configuration. The defaults mirror the values the planning
// team has been running with; none of them carry documented business
// justification, so they are kept tunable rather than hard-coded.
type ThresholdConfig struct {
	SpikeRatio          float64  // yesterday vs trailing-7-day average multiple
	SpikeFloorUnits     float64  // minimum base units before a spike can fire
	FreshnessRiskFloor  float64  // minimum at-risk units before freshness fires
	DeadStockCutoffDays int      // zero-velocity stock below this shelf life is risk
	ExcessStockUnits    float64  // per-product stock above this is flagged excess
	CriticalDelayDays   int      // unfulfilled lines delayed this long are critical
	ImminentDays        int      // shelf-life bound for imminent classification
	CriticalDays        int      // shelf-life bound for critical classification
	MinShelfLifeDays    int      // default usable-stock filter for ATP simulation
	NoExpiryPrefixes    []string // product-code prefixes exempt from expiry tracking
	MerchandisePrefixes []string // product-code prefixes sold as merchandise
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_OPS_PORT", "8081")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "snop")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "snop-snapshots")
		viper.SetDefault("ARCHIVE_REGION", "us-east-1")
		viper.SetDefault("ARCHIVE_USE_SSL", true)
		viper.SetDefault("ALERT_SPIKE_RATIO", 2.0)
		viper.SetDefault("ALERT_SPIKE_FLOOR_UNITS", 30.0)
		viper.SetDefault("ALERT_FRESHNESS_RISK_FLOOR", 5.0)
		viper.SetDefault("ALERT_DEAD_STOCK_CUTOFF_DAYS", 180)
		viper.SetDefault("STOCK_EXCESS_UNITS", 20000.0)
		viper.SetDefault("DELIVERY_CRITICAL_DELAY_DAYS", 7)
		viper.SetDefault("SHELF_LIFE_IMMINENT_DAYS", 30)
		viper.SetDefault("SHELF_LIFE_CRITICAL_DAYS", 60)
		viper.SetDefault("SIMULATION_MIN_SHELF_LIFE_DAYS", 30)
		viper.SetDefault("PRODUCT_NO_EXPIRY_PREFIXES", []string{"9"})
		viper.SetDefault("PRODUCT_MERCHANDISE_PREFIXES", []string{"8", "9"})

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				OpsPort:        viper.GetString("SERVER_OPS_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				Region:    viper.GetString("ARCHIVE_REGION"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
			Thresholds: ThresholdConfig{
				SpikeRatio:          viper.GetFloat64("ALERT_SPIKE_RATIO"),
				SpikeFloorUnits:     viper.GetFloat64("ALERT_SPIKE_FLOOR_UNITS"),
				FreshnessRiskFloor:  viper.GetFloat64("ALERT_FRESHNESS_RISK_FLOOR"),
				DeadStockCutoffDays: viper.GetInt("ALERT_DEAD_STOCK_CUTOFF_DAYS"),
				ExcessStockUnits:    viper.GetFloat64("STOCK_EXCESS_UNITS"),
				CriticalDelayDays:   viper.GetInt("DELIVERY_CRITICAL_DELAY_DAYS"),
				ImminentDays:        viper.GetInt("SHELF_LIFE_IMMINENT_DAYS"),
				CriticalDays:        viper.GetInt("SHELF_LIFE_CRITICAL_DAYS"),
				MinShelfLifeDays:    viper.GetInt("SIMULATION_MIN_SHELF_LIFE_DAYS"),
				NoExpiryPrefixes:    viper.GetStringSlice("PRODUCT_NO_EXPIRY_PREFIXES"),
				MerchandisePrefixes: viper.GetStringSlice("PRODUCT_MERCHANDISE_PREFIXES"),
			},
		}
	})

	return instance
}
