// Package server assembles the tracker: configuration, logging, the
// credential vault, storage and the services built on top of them.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/prodtracker/internal/cryptox"
	"github.com/dmitrijs2005/prodtracker/internal/logging"
	"github.com/dmitrijs2005/prodtracker/internal/metrics"
	"github.com/dmitrijs2005/prodtracker/internal/server/config"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/server/services"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
	"golang.org/x/oauth2"
)

// openDB is replaced in tests.
var openDB = repomanager.Open

type App struct {
	Config      *config.Config
	Logger      logging.Logger
	Repos       repomanager.RepositoryManager
	Credentials *services.CredentialService
	Sync        *services.SyncService
	Quotes      *services.QuoteService
	Checkmarks  *services.CheckmarkService
	Settings    *services.SettingsService
	Stats       *services.StatsService
	Reports     *services.ReportService
	Consent     *services.ConsentService

	closers []io.Closer
}

// NewApp connects to PostgreSQL and wires every service.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser, err := logging.New(logging.Options{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSize,
		MaxBackups: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := Assemble(c, repomanager.NewPostgresRepositoryManager(db), logger)
	if err != nil {
		db.Close()
		logCloser.Close()
		return nil, err
	}
	app.closers = append(app.closers, dbCloser{db}, logCloser)
	return app, nil
}

type dbCloser struct{ db *sql.DB }

func (d dbCloser) Close() error { return d.db.Close() }

// Assemble wires the services over an existing repository manager.
func Assemble(c *config.Config, rm repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	key, err := c.VaultKeyBytes()
	if err != nil {
		return nil, err
	}
	vault, err := cryptox.NewVault(key)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: c.FetchTimeout}

	oauthConfig := &oauth2.Config{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.readonly"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.GoogleAuthURL,
			TokenURL: c.GoogleTokenURL,
		},
	}
	refresher := sources.NewOAuthRefresher(oauthConfig, httpClient)

	calendarOpts := []sources.CalendarOption{sources.WithCalendarHTTPClient(httpClient)}
	if c.CalendarBaseURL != "" {
		calendarOpts = append(calendarOpts, sources.WithCalendarEndpoint(c.CalendarBaseURL))
	}

	creds := services.NewCredentialService(rm, vault)
	syncService := services.NewSyncService(rm, creds, services.SyncOptions{
		LockTTL:        c.LockTTL,
		FetchTimeout:   c.FetchTimeout,
		RetryBaseDelay: c.RetryBaseDelay,
		MaxRetries:     c.MaxRetries,
		MaxPages:       c.MaxPages,
	}, logger)

	// commit tokens are personal access tokens with nothing to refresh
	if err := syncService.Register(models.SourceCommits,
		sources.NewCommitsClient(c.GitHubBaseURL, c.GitHubPageSize, c.GitHubMaxPage, httpClient), nil); err != nil {
		return nil, err
	}
	if err := syncService.Register(models.SourceCalendar,
		sources.NewCalendarClient(c.CalendarID, c.CalendarWindowDays, calendarOpts...), refresher); err != nil {
		return nil, err
	}

	settings := services.NewSettingsService(rm)
	stats := services.NewStatsService(rm, settings, metrics.NewAggregator(metrics.StaticWeights(c.ScoreWeights)))

	return &App{
		Config:      c,
		Logger:      logger,
		Repos:       rm,
		Credentials: creds,
		Sync:        syncService,
		Quotes:      services.NewQuoteService(rm, sources.NewQuoteClient(c.QuoteURL, httpClient), c.FetchTimeout, logger),
		Checkmarks:  services.NewCheckmarkService(rm),
		Settings:    settings,
		Stats:       stats,
		Reports:     services.NewReportService(stats, c),
		Consent:     services.NewConsentService(models.SourceCalendar, refresher, creds, c.StateSecret, c.StateValidity),
	}, nil
}

// SignalContext returns a context canceled on SIGINT, SIGTERM or SIGQUIT.
func (app *App) SignalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelFunc := context.WithCancel(ctx)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.Logger.Info(ctx, "signal received, stopping", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
	return ctx, cancelFunc
}

// Close releases the database and the log file, in that order.
func (app *App) Close() error {
	var errs []error
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
