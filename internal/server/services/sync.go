package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/logging"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// SyncOptions bound a single run.
type SyncOptions struct {
	LockTTL        time.Duration
	FetchTimeout   time.Duration
	RetryBaseDelay time.Duration
	MaxRetries     uint64
	MaxPages       int
}

func (o SyncOptions) withDefaults() SyncOptions {
	if o.LockTTL <= 0 {
		o.LockTTL = 10 * time.Minute
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 15 * time.Second
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = 500 * time.Millisecond
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 2
	}
	return o
}

type registeredSource struct {
	client    sources.SourceClient
	refresher sources.Refresher
	store     sink
}

// SyncService pulls one source of one owner into the local store. Runs are
// idempotent: every item lands through a natural-key upsert, so a repeated
// or overlapping run never duplicates data.
type SyncService struct {
	repomanager repomanager.RepositoryManager
	credentials *CredentialService
	sources     map[models.Source]registeredSource
	opts        SyncOptions
	logger      logging.Logger
	now         func() time.Time
}

func NewSyncService(m repomanager.RepositoryManager, creds *CredentialService, opts SyncOptions, logger logging.Logger) *SyncService {
	return &SyncService{
		repomanager: m,
		credentials: creds,
		sources:     make(map[models.Source]registeredSource),
		opts:        opts.withDefaults(),
		logger:      logger.With("module", "sync"),
		now:         time.Now,
	}
}

// Register makes source syncable through client. refresher may be nil for
// sources whose credentials cannot be refreshed.
func (s *SyncService) Register(source models.Source, client sources.SourceClient, refresher sources.Refresher) error {
	store, ok := sinkFor(source)
	if !ok {
		return fmt.Errorf("%w: %s cannot be synced", common.ErrUnknownSource, source)
	}
	s.sources[source] = registeredSource{client: client, refresher: refresher, store: store}
	return nil
}

// run is the mutable state of one Run call.
type run struct {
	ownerID   string
	source    models.Source
	src       registeredSource
	cred      *sources.Credential
	refreshed bool
	result    *models.SyncRunResult
}

// Run synchronizes (ownerID, source). The result is always returned, also
// on error, and reflects every page committed before the run stopped.
//
// A rate-limited run is partial but not failed: the error is nil and
// ErrorKind says why it stopped.
func (s *SyncService) Run(ctx context.Context, ownerID string, source models.Source) (*models.SyncRunResult, error) {
	result := &models.SyncRunResult{Source: source}

	src, ok := s.sources[source]
	if !ok {
		result.ErrorKind = models.ErrorKindProvider
		return result, fmt.Errorf("%w: %s", common.ErrUnknownSource, source)
	}

	log := s.logger.With("owner", ownerID, "source", string(source))

	holder := uuid.NewString()
	locks := s.repomanager.Locks(s.repomanager.Conn())
	acquired, err := locks.Acquire(ctx, ownerID, source, holder, s.now(), s.opts.LockTTL)
	if err != nil {
		result.ErrorKind = models.ErrorKindStorage
		return result, err
	}
	if !acquired {
		result.ErrorKind = models.ErrorKindAlreadyRunning
		return result, common.ErrAlreadyRunning
	}
	defer func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := locks.Release(rctx, ownerID, source, holder); err != nil {
			log.Warn(rctx, "lock release failed", "error", err)
		}
	}()

	r := &run{ownerID: ownerID, source: source, src: src, result: result}
	err = s.execute(ctx, r, log)
	if err != nil {
		log.Warn(ctx, "sync stopped", "kind", string(result.ErrorKind), "pages", result.Pages, "error", err)
	} else {
		log.Info(ctx, "sync finished",
			"pages", result.Pages,
			"inserted", result.Inserted,
			"updated", result.Updated,
			"deleted", result.Deleted,
			"duplicates", result.Duplicates,
			"skipped", result.Skipped,
			"partial", result.Partial,
			"kind", string(result.ErrorKind),
		)
	}
	return result, err
}

func (s *SyncService) execute(ctx context.Context, r *run, log logging.Logger) error {
	cred, err := s.credentials.Load(ctx, r.ownerID, r.source)
	if err != nil {
		if errors.Is(err, common.ErrNoCredential) {
			r.result.ErrorKind = models.ErrorKindNoCredential
			return err
		}
		r.result.ErrorKind = models.ErrorKindStorage
		return err
	}
	r.cred = cred

	if !cred.Expiry.IsZero() && !cred.Expiry.After(s.now()) && r.src.refresher != nil {
		log.Debug(ctx, "credential expired, refreshing before first fetch")
		if err := s.refresh(ctx, r); err != nil {
			return err
		}
	}

	cursors := s.repomanager.Cursors(s.repomanager.Conn())
	cursor, err := cursors.Get(ctx, r.ownerID, r.source)
	if err != nil {
		r.result.ErrorKind = models.ErrorKindStorage
		return err
	}

	cursorReset := false
	for {
		if err := ctx.Err(); err != nil {
			return s.stop(r, models.ErrorKindCanceled, err)
		}
		if s.opts.MaxPages > 0 && r.result.Pages >= s.opts.MaxPages {
			log.Info(ctx, "page cap reached", "max_pages", s.opts.MaxPages)
			r.result.Partial = true
			return nil
		}

		page, err := s.fetch(ctx, r, cursor)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return s.stop(r, models.ErrorKindCanceled, ctx.Err())
		case errors.Is(err, common.ErrAuth):
			if r.refreshed || r.src.refresher == nil {
				return s.stop(r, models.ErrorKindReauthorizationRequired,
					fmt.Errorf("%w: %w", common.ErrReauthorizationRequired, err))
			}
			if err := s.refresh(ctx, r); err != nil {
				return err
			}
			continue
		case errors.Is(err, common.ErrRateLimited):
			log.Info(ctx, "rate limited, keeping stored pages", "pages", r.result.Pages)
			s.stop(r, models.ErrorKindRateLimited, err)
			return nil
		case errors.Is(err, common.ErrCursorExpired):
			if cursorReset || cursor == "" {
				return s.stop(r, models.ErrorKindProvider, err)
			}
			log.Info(ctx, "cursor expired, restarting full listing")
			if err := cursors.Delete(ctx, r.ownerID, r.source); err != nil {
				return s.stop(r, models.ErrorKindStorage, err)
			}
			cursor, cursorReset = "", true
			continue
		case errors.Is(err, common.ErrNetwork):
			return s.stop(r, models.ErrorKindNetwork, err)
		default:
			return s.stop(r, models.ErrorKindProvider, err)
		}

		counts, err := storePage(ctx, s.repomanager, r.src.store, r.ownerID, page.Items)
		if err != nil {
			if ctx.Err() != nil {
				return s.stop(r, models.ErrorKindCanceled, ctx.Err())
			}
			return s.stop(r, models.ErrorKindStorage, err)
		}
		counts.addTo(r.result)
		r.result.Pages++
		log.Debug(ctx, "page stored", "page", r.result.Pages, "items", len(page.Items))

		if page.Exhausted {
			if page.NextCursor != "" {
				if err := cursors.Save(ctx, r.ownerID, r.source, page.NextCursor); err != nil {
					return s.stop(r, models.ErrorKindStorage, err)
				}
			}
			return nil
		}
		cursor = page.NextCursor
	}
}

// stop marks the run as cut short and passes err through.
func (s *SyncService) stop(r *run, kind models.ErrorKind, err error) error {
	r.result.Partial = true
	r.result.ErrorKind = kind
	return err
}

// fetch calls the client with a per-call deadline, retrying network
// failures with exponential backoff.
func (s *SyncService) fetch(ctx context.Context, r *run, cursor string) (*sources.Page, error) {
	backoff := retry.WithMaxRetries(s.opts.MaxRetries, retry.NewExponential(s.opts.RetryBaseDelay))

	var page *sources.Page
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()

		p, err := r.src.client.Fetch(fctx, r.cred, cursor)
		if err != nil {
			if errors.Is(err, common.ErrNetwork) && ctx.Err() == nil {
				return retry.RetryableError(err)
			}
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// refresh exchanges the refresh token once per run and stores the result.
func (s *SyncService) refresh(ctx context.Context, r *run) error {
	if r.refreshed || r.src.refresher == nil {
		return s.stop(r, models.ErrorKindReauthorizationRequired, common.ErrReauthorizationRequired)
	}
	r.refreshed = true

	rctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	next, err := r.src.refresher.Refresh(rctx, r.cred)
	if err != nil {
		if errors.Is(err, common.ErrAuth) {
			return s.stop(r, models.ErrorKindReauthorizationRequired,
				fmt.Errorf("%w: %w", common.ErrReauthorizationRequired, err))
		}
		if ctx.Err() != nil {
			return s.stop(r, models.ErrorKindCanceled, ctx.Err())
		}
		return s.stop(r, models.ErrorKindNetwork, err)
	}
	if next.Account == "" {
		next.Account = r.cred.Account
	}
	if err := s.credentials.Save(ctx, r.ownerID, r.source, next); err != nil {
		return s.stop(r, models.ErrorKindStorage, err)
	}
	r.cred = next
	return nil
}
