package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	Port string

	StoreDriver   string
	DBPath        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	SeedPath      string

	RedisAddress      string
	RedisPassword     string
	RedisDatabase     int
	NotifyQueue       string
	DirectoryCacheTTL time.Duration

	LogFormat string
	Debug     bool

	FuelLitersPer100Km         float64
	StrictStopTransitions      bool
	ReestimateOnOptimize       bool
	RefreshStopDetailsOnUpdate bool
}

// LoadDotEnv reads .env into the process environment. A missing file is not an error.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load builds a Config from the environment. Malformed values are reported, not defaulted.
func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		StoreDriver:   strings.ToLower(Get("STORE_DRIVER", StoreSQLite)),
		DBPath:        Get("DB_PATH", "data/app.db"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		MongoURI:      Get("MONGODB_URI", "mongodb://localhost:27017/"),
		MongoDatabase: Get("MONGODB_DATABASE", "fleet"),
		SeedPath:      Get("SEED_PATH", "data/seeds/fleet.json"),
		RedisAddress:  Get("REDIS_ADDRESS", ""),
		RedisPassword: Get("REDIS_PASSWORD", ""),
		NotifyQueue:   Get("NOTIFY_QUEUE", "notify-queue"),
		LogFormat:     Get("LOG_FORMAT", ""),
		Debug:         strings.EqualFold(Get("DEBUG", ""), "YES"),
	}

	switch cfg.StoreDriver {
	case StoreSQLite, StorePostgres, StoreMongo:
	default:
		return Config{}, fmt.Errorf("config: STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == StorePostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required for the postgres store")
	}

	var err error
	if cfg.RedisDatabase, err = getInt("REDIS_DATABASE", 0); err != nil {
		return Config{}, err
	}
	if cfg.DirectoryCacheTTL, err = getDuration("DIRECTORY_CACHE_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.FuelLitersPer100Km, err = getFloat("FUEL_LITERS_PER_100KM", 12); err != nil {
		return Config{}, err
	}
	if cfg.FuelLitersPer100Km <= 0 {
		return Config{}, fmt.Errorf("config: FUEL_LITERS_PER_100KM: must be positive")
	}
	if cfg.ReestimateOnOptimize, err = getBool("REESTIMATE_ON_OPTIMIZE", false); err != nil {
		return Config{}, err
	}
	if cfg.RefreshStopDetailsOnUpdate, err = getBool("REFRESH_STOP_DETAILS_ON_UPDATE", false); err != nil {
		return Config{}, err
	}

	switch policy := strings.ToLower(Get("STOP_STATUS_POLICY", "permissive")); policy {
	case "permissive":
	case "strict":
		cfg.StrictStopTransitions = true
	default:
		return Config{}, fmt.Errorf("config: STOP_STATUS_POLICY: unknown policy %q", policy)
	}

	return cfg, nil
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	switch strings.ToLower(v) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
