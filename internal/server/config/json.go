package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/prodtracker/internal/metrics"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, which accepts both "1s" strings and integer nanoseconds.
// Only keys present in the file override the current values.
type JsonConfig struct {
	DatabaseDSN        *string          `json:"database_dsn"`
	VaultKey           *string          `json:"vault_key"`
	VaultPassphrase    *string          `json:"vault_passphrase"`
	VaultSalt          *string          `json:"vault_salt"`
	LogLevel           *string          `json:"log_level"`
	LogFormat          *string          `json:"log_format"`
	LogFile            *string          `json:"log_file"`
	LockTTL            *timex.Duration  `json:"lock_ttl"`
	FetchTimeout       *timex.Duration  `json:"fetch_timeout"`
	RetryBaseDelay     *timex.Duration  `json:"retry_base_delay"`
	MaxPages           *int             `json:"max_pages"`
	QuoteURL           *string          `json:"quote_url"`
	GitHubBaseURL      *string          `json:"github_base_url"`
	GitHubPageSize     *int             `json:"github_page_size"`
	GoogleClientID     *string          `json:"google_client_id"`
	GoogleClientSecret *string          `json:"google_client_secret"`
	GoogleRedirectURL  *string          `json:"google_redirect_url"`
	CalendarBaseURL    *string          `json:"calendar_base_url"`
	CalendarID         *string          `json:"calendar_id"`
	CalendarWindowDays *int             `json:"calendar_window_days"`
	StateSecret        *string          `json:"state_secret"`
	StateValidity      *timex.Duration  `json:"state_validity"`
	S3RootUser         *string          `json:"s3_root_user"`
	S3RootPassword     *string          `json:"s3_root_password"`
	S3Bucket           *string          `json:"s3_bucket"`
	S3Region           *string          `json:"s3_region"`
	S3BaseEndpoint     *string          `json:"s3_base_endpoint"`
	ScoreWeights       *metrics.Weights `json:"score_weights"`
}

// parseJson overlays the JSON file at path onto config.
func parseJson(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.VaultKey, c.VaultKey)
	setString(&config.VaultPassphrase, c.VaultPassphrase)
	setString(&config.VaultSalt, c.VaultSalt)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogFile, c.LogFile)
	setString(&config.QuoteURL, c.QuoteURL)
	setString(&config.GitHubBaseURL, c.GitHubBaseURL)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.GoogleRedirectURL, c.GoogleRedirectURL)
	setString(&config.CalendarBaseURL, c.CalendarBaseURL)
	setString(&config.CalendarID, c.CalendarID)
	setString(&config.StateSecret, c.StateSecret)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.LockTTL != nil {
		config.LockTTL = c.LockTTL.Duration
	}
	if c.FetchTimeout != nil {
		config.FetchTimeout = c.FetchTimeout.Duration
	}
	if c.RetryBaseDelay != nil {
		config.RetryBaseDelay = c.RetryBaseDelay.Duration
	}
	if c.StateValidity != nil {
		config.StateValidity = c.StateValidity.Duration
	}
	if c.MaxPages != nil {
		config.MaxPages = *c.MaxPages
	}
	if c.GitHubPageSize != nil {
		config.GitHubPageSize = *c.GitHubPageSize
	}
	if c.CalendarWindowDays != nil {
		config.CalendarWindowDays = *c.CalendarWindowDays
	}
	if c.ScoreWeights != nil {
		config.ScoreWeights = *c.ScoreWeights
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
