package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "TRACKER_"

// parseEnv overlays TRACKER_* variables onto config. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func parseEnv(config *Config) error {
	_ = godotenv.Load()

	strs := map[string]*string{
		"DATABASE_DSN":         &config.DatabaseDSN,
		"VAULT_KEY":            &config.VaultKey,
		"VAULT_PASSPHRASE":     &config.VaultPassphrase,
		"VAULT_SALT":           &config.VaultSalt,
		"LOG_LEVEL":            &config.LogLevel,
		"LOG_FORMAT":           &config.LogFormat,
		"LOG_FILE":             &config.LogFile,
		"QUOTE_URL":            &config.QuoteURL,
		"GITHUB_BASE_URL":      &config.GitHubBaseURL,
		"GOOGLE_CLIENT_ID":     &config.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": &config.GoogleClientSecret,
		"GOOGLE_REDIRECT_URL":  &config.GoogleRedirectURL,
		"CALENDAR_BASE_URL":    &config.CalendarBaseURL,
		"CALENDAR_ID":          &config.CalendarID,
		"STATE_SECRET":         &config.StateSecret,
		"S3_ROOT_USER":         &config.S3RootUser,
		"S3_ROOT_PASSWORD":     &config.S3RootPassword,
		"S3_BUCKET":            &config.S3Bucket,
		"S3_REGION":            &config.S3Region,
		"S3_BASE_ENDPOINT":     &config.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"LOCK_TTL":         &config.LockTTL,
		"FETCH_TIMEOUT":    &config.FetchTimeout,
		"RETRY_BASE_DELAY": &config.RetryBaseDelay,
		"STATE_VALIDITY":   &config.StateValidity,
	}
	for name, dst := range durations {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"MAX_PAGES":            &config.MaxPages,
		"GITHUB_PAGE_SIZE":     &config.GitHubPageSize,
		"CALENDAR_WINDOW_DAYS": &config.CalendarWindowDays,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}
	return nil
}
