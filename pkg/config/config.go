package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"

	MatchingCanonical = "canonical"
	MatchingExact     = "exact"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	FirebaseProject            string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	AdminUserIDs               []string

	StorageDriver string
	SQLitePath    string

	StorageBucket   string
	MaxProofSizeMB  int64
	DefaultPageSize int

	IdentifierMatching string
	DefaultPhoneRegion string

	SendgridAPIKey    string
	NotifyFromEmail   string
	NotifyFromName    string
	AdminNotifyEmails []string

	MetricsPort        string
	RateLimitPerMinute int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		AdminUserIDs:               getEnvAsList("ADMIN_USER_IDS"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageSQLite)),
		SQLitePath:    getEnv("SQLITE_PATH", "scamwatch.db"),

		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		MaxProofSizeMB:  getEnvAsInt64("MAX_PROOF_SIZE_MB", 5),
		DefaultPageSize: int(getEnvAsInt64("DEFAULT_PAGE_SIZE", 20)),

		IdentifierMatching: strings.ToLower(getEnv("IDENTIFIER_MATCHING", MatchingCanonical)),
		DefaultPhoneRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "US")),

		SendgridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		NotifyFromEmail:   getEnv("NOTIFY_FROM_EMAIL", "alerts@scamwatch.local"),
		NotifyFromName:    getEnv("NOTIFY_FROM_NAME", "ScamWatch"),
		AdminNotifyEmails: getEnvAsList("ADMIN_NOTIFY_EMAILS"),

		MetricsPort:        getEnv("METRICS_PORT", "2112"),
		RateLimitPerMinute: int(getEnvAsInt64("RATE_LIMIT_PER_MINUTE", 30)),
	}

	switch config.StorageDriver {
	case StorageSQLite, StorageFirestore:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", config.StorageDriver)
	}

	if config.IdentifierMatching != MatchingExact {
		config.IdentifierMatching = MatchingCanonical
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
