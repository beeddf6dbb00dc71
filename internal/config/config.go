package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Engine   EngineConfig
	Policy   PolicyDefaults
	Worker   WorkerConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
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
	Enabled               bool
	RedisURL              string
	RedisHost             string
	RedisPort             string
	RedisPassword         string
	RedisDB               int
	PerformanceTTLSeconds int
}

// EngineConfig holds the fixed policy knobs of the recommendation engine.
type EngineConfig struct {
	VelocityWindowDays      int
	TargetCoverDays         int
	LowStockThreshold       float64
	HighPriorityBelowDays   float64
	MediumPriorityBelowDays float64
}

// PolicyDefaults are the tenant settings applied when a tenant has no
// settings row yet. Enumerated once here so the repository layer never
// invents its own fallbacks.
type PolicyDefaults struct {
	AutoReorderEnabled       bool
	MinimumProfitMargin      float64
	ShippingCost             float64
	LabelCost                float64
	CancellationShippingLoss float64
}

type WorkerConfig struct {
	Port            string
	IntervalMinutes int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	ExportDir string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "sellermetrics")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PERFORMANCE_TTL_SECONDS", 60)
		viper.SetDefault("ENGINE_VELOCITY_WINDOW_DAYS", 30)
		viper.SetDefault("ENGINE_TARGET_COVER_DAYS", 30)
		viper.SetDefault("ENGINE_LOW_STOCK_THRESHOLD", 5)
		viper.SetDefault("ENGINE_HIGH_PRIORITY_BELOW_DAYS", 7)
		viper.SetDefault("ENGINE_MEDIUM_PRIORITY_BELOW_DAYS", 14)
		viper.SetDefault("POLICY_AUTO_REORDER_ENABLED", false)
		viper.SetDefault("POLICY_MINIMUM_PROFIT_MARGIN", 25.0)
		viper.SetDefault("POLICY_SHIPPING_COST", 5.0)
		viper.SetDefault("POLICY_LABEL_COST", 1.0)
		viper.SetDefault("POLICY_CANCELLATION_SHIPPING_LOSS", 5.0)
		viper.SetDefault("WORKER_PORT", "8081")
		viper.SetDefault("WORKER_INTERVAL_MINUTES", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "sellermetrics-exports")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("STORAGE_EXPORT_DIR", "./data/exports")

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
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
				Enabled:               viper.GetBool("CACHE_ENABLED"),
				RedisURL:              viper.GetString("REDIS_URL"),
				RedisHost:             viper.GetString("REDIS_HOST"),
				RedisPort:             viper.GetString("REDIS_PORT"),
				RedisPassword:         viper.GetString("REDIS_PASSWORD"),
				RedisDB:               viper.GetInt("REDIS_DB"),
				PerformanceTTLSeconds: viper.GetInt("CACHE_PERFORMANCE_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				VelocityWindowDays:      viper.GetInt("ENGINE_VELOCITY_WINDOW_DAYS"),
				TargetCoverDays:         viper.GetInt("ENGINE_TARGET_COVER_DAYS"),
				LowStockThreshold:       viper.GetFloat64("ENGINE_LOW_STOCK_THRESHOLD"),
				HighPriorityBelowDays:   viper.GetFloat64("ENGINE_HIGH_PRIORITY_BELOW_DAYS"),
				MediumPriorityBelowDays: viper.GetFloat64("ENGINE_MEDIUM_PRIORITY_BELOW_DAYS"),
			},
			Policy: PolicyDefaults{
				AutoReorderEnabled:       viper.GetBool("POLICY_AUTO_REORDER_ENABLED"),
				MinimumProfitMargin:      viper.GetFloat64("POLICY_MINIMUM_PROFIT_MARGIN"),
				ShippingCost:             viper.GetFloat64("POLICY_SHIPPING_COST"),
				LabelCost:                viper.GetFloat64("POLICY_LABEL_COST"),
				CancellationShippingLoss: viper.GetFloat64("POLICY_CANCELLATION_SHIPPING_LOSS"),
			},
			Worker: WorkerConfig{
				Port:            viper.GetString("WORKER_PORT"),
				IntervalMinutes: viper.GetInt("WORKER_INTERVAL_MINUTES"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
				ExportDir: viper.GetString("STORAGE_EXPORT_DIR"),
			},
		}
	})

	return instance
}
