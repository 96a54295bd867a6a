package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dosada05/commander-league/budget"
	"github.com/Dosada05/commander-league/models"
	"github.com/Dosada05/commander-league/storage"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	LeagueStart      budget.Month
	MonthlyAllowance models.Money
	LeagueLocation   *time.Location

	CORSAllowedOrigins []string

	R2       storage.CloudflareR2Config
	CacheDir string

	PreconCatalogPath string
	PreconCacheSeed   string
	PreconRefreshCron string

	ScryfallBaseURL     string
	ArchidektBaseURL    string
	ArchidektAltBaseURL string
	MoxfieldAPIURL      string
	MoxfieldUserAgent   string
}

// Load reads the configuration from the environment. A .env file, when
// present, is loaded first.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		DatabaseURL:         get("DATABASE_URL", ""),
		JWTSecretKey:        get("JWT_SECRET_KEY", ""),
		CacheDir:            get("CACHE_DIR", "./data"),
		PreconCatalogPath:   get("PRECON_CATALOG_PATH", ""),
		PreconCacheSeed:     get("PRECON_CACHE_SEED", ""),
		PreconRefreshCron:   get("PRECON_REFRESH_CRON", ""),
		ScryfallBaseURL:     get("SCRYFALL_BASE_URL", ""),
		ArchidektBaseURL:    get("ARCHIDEKT_BASE_URL", ""),
		ArchidektAltBaseURL: get("ARCHIDEKT_ALT_BASE_URL", ""),
		MoxfieldAPIURL:      get("MOXFIELD_API_URL", ""),
		MoxfieldUserAgent:   get("MOXFIELD_USER_AGENT", ""),
		R2: storage.CloudflareR2Config{
			AccountID:       get("R2_ACCOUNT_ID", ""),
			AccessKeyID:     get("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: get("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      get("R2_BUCKET_NAME", ""),
			PublicBaseURL:   get("R2_PUBLIC_BASE_URL", ""),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	cfg.LeagueStart, err = budget.ParseMonth(get("LEAGUE_START", "2025-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAGUE_START: %w", err)
	}

	cfg.MonthlyAllowance, err = models.ParseMoney(get("MONTHLY_ALLOWANCE", "10.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONTHLY_ALLOWANCE: %w", err)
	}
	if cfg.MonthlyAllowance <= 0 {
		return nil, fmt.Errorf("MONTHLY_ALLOWANCE must be positive, got %s", cfg.MonthlyAllowance)
	}

	cfg.LeagueLocation, err = time.LoadLocation(get("LEAGUE_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAGUE_TIMEZONE: %w", err)
	}

	for _, origin := range strings.Split(get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.R2.Enabled() {
		if err := cfg.R2.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// DatabaseURL reads only DATABASE_URL, for commands that need nothing else.
func DatabaseURL() (string, error) {
	_ = godotenv.Load()
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return dsn, nil
}
