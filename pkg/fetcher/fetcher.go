package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/helloamger/discussions-archiver/pkg/checkpoint"
	"github.com/helloamger/discussions-archiver/pkg/gh"
)

// DefaultPageInterval is the fixed pause between pages. Deliberate pacing
// so a full scan stays well clear of the API rate limiter.
const DefaultPageInterval = 25 * time.Second

// Prometheus metrics for the fetch loop.
var (
	fetchPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfetch_pages_total",
		Help: "Total pages processed by outcome",
	}, []string{"outcome"}) // "ok", "stopped", "failed"

	fetchDiscussionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ghfetch_discussions_accumulated",
		Help: "Discussions accumulated by the current fetch run",
	})
)

// Executor sends one GraphQL query and returns the parsed response.
// Satisfied by *gh.Client.
type Executor interface {
	Execute(ctx context.Context, query string) (*gh.Response, error)
}

// Config is the immutable configuration of one fetch run.
type Config struct {
	// Owner and Repo identify the repository.
	Owner string
	Repo  string

	// CategoryID is the discussion category node ID to fetch.
	CategoryID string

	// OutputPath and GzipPath are where the final archive is written
	// (defaults: discussions.json, discussions.json.gz).
	OutputPath string
	GzipPath   string

	// PageSize is the number of items requested per page (default 100).
	PageSize int

	// PageInterval is the pause between pages (default 25s).
	PageInterval time.Duration
}

// Repository returns the "owner/name" identifier.
func (c Config) Repository() string {
	return c.Owner + "/" + c.Repo
}

// Controller owns the fetch loop state: the accumulator, the cursor, and
// the checkpoint writes. A Controller runs one fetch at a time; it is not
// safe for concurrent use.
type Controller struct {
	cfg    Config
	exec   Executor
	store  checkpoint.Store
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a fetch controller, filling in config defaults.
func New(cfg Config, exec Executor, store checkpoint.Store) *Controller {
	if cfg.OutputPath == "" {
		cfg.OutputPath = "discussions.json"
	}
	if cfg.GzipPath == "" {
		cfg.GzipPath = cfg.OutputPath + ".gz"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = gh.DefaultPageSize
	}
	if cfg.PageInterval <= 0 {
		cfg.PageInterval = DefaultPageInterval
	}

	return &Controller{
		cfg:    cfg,
		exec:   exec,
		store:  store,
		logger: log.With().Str("component", "fetcher").Str("repository", cfg.Repository()).Logger(),
		now:    time.Now,
	}
}

// Run walks the discussion category page by page until no pages remain,
// persisting a checkpoint after every page.
//
// On normal completion it writes the final archive and clears the
// checkpoint. On a stop signal (retry exhaustion, missing data section)
// it returns the accumulator with a nil error and leaves the checkpoint in
// place. Any other failure, including cancellation, persists the
// checkpoint and propagates.
func (c *Controller) Run(ctx context.Context) ([]gh.Discussion, error) {
	cp, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Checkpoint unusable, starting fresh")
	}

	discussions := cp.Discussions
	cursor := cp.LastCursor
	hasMore := cp.HasMore

	c.logger.Info().
		Str("category_id", c.cfg.CategoryID).
		Msg("Starting discussions fetch")

	if len(discussions) > 0 {
		c.logger.Info().
			Int("resumed_count", len(discussions)).
			Msg("Resuming from checkpoint")
	}

	pageCount := 0
	for hasMore {
		if err := ctx.Err(); err != nil {
			c.persist(ctx, discussions, cursor, hasMore)
			return discussions, fmt.Errorf("fetch interrupted: %w", err)
		}

		pageCount++
		c.logger.Info().Int("page", pageCount).Msg("Fetching page")

		query := gh.DiscussionsQuery(c.cfg.Owner, c.cfg.Repo, c.cfg.CategoryID, cursor, c.cfg.PageSize)
		result := c.fetchPage(ctx, query)

		switch result.kind {
		case resultStopped:
			fetchPagesTotal.WithLabelValues("stopped").Inc()
			c.logger.Warn().Msg("No data received, saving progress and stopping")
			c.persist(ctx, discussions, cursor, hasMore)
			return discussions, nil

		case resultFailed:
			fetchPagesTotal.WithLabelValues("failed").Inc()
			c.persist(ctx, discussions, cursor, hasMore)
			return discussions, result.err
		}

		page := result.page
		for _, edge := range page.Edges {
			discussions = append(discussions, edge.Node.Record())
		}

		hasMore = page.PageInfo.HasNextPage
		if hasMore {
			cursor = page.PageInfo.EndCursor
		} else {
			cursor = nil
		}

		fetchPagesTotal.WithLabelValues("ok").Inc()
		fetchDiscussionsTotal.Set(float64(len(discussions)))
		c.logger.Info().
			Int("page", pageCount).
			Int("page_count", len(page.Edges)).
			Int("total_count", len(discussions)).
			Msg("Page fetched")

		c.persist(ctx, discussions, cursor, hasMore)

		if hasMore {
			if err := c.pace(ctx); err != nil {
				// Checkpoint for this page is already on disk.
				return discussions, err
			}
		}
	}

	if err := c.Finalize(discussions); err != nil {
		c.persist(ctx, discussions, nil, false)
		return discussions, err
	}

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Checkpoint cleanup failed")
	} else {
		c.logger.Info().Msg("Checkpoint cleared")
	}

	return discussions, nil
}

// fetchPage executes one page query and classifies the outcome.
func (c *Controller) fetchPage(ctx context.Context, query string) pageResult {
	resp, err := c.exec.Execute(ctx, query)
	if err != nil {
		if gh.IsFetchError(err) {
			c.logger.Error().Err(err).Msg("Page fetch gave up")
			return pageResult{kind: resultStopped}
		}
		return pageResult{kind: resultFailed, err: err}
	}

	if resp.Data == nil || resp.Data.Repository == nil {
		c.logger.Error().Err(gh.ErrMissingData).Msg("Page fetch gave up")
		return pageResult{kind: resultStopped}
	}

	page := resp.Data.Repository.Discussions
	return pageResult{kind: resultPage, page: &page}
}

// persist writes a checkpoint snapshot, tolerating failure: the next page
// saves again, and the final artifact is the durable record on success.
// Uses a non-cancellable context so an interrupt cannot skip the save.
func (c *Controller) persist(ctx context.Context, discussions []gh.Discussion, cursor *string, hasMore bool) {
	saveCtx := context.WithoutCancel(ctx)
	if err := c.store.Save(saveCtx, checkpoint.Snapshot(discussions, cursor, hasMore)); err != nil {
		c.logger.Warn().Err(err).Msg("Checkpoint save failed, continuing")
	}
}

// pace waits the configured inter-page interval, honoring cancellation.
func (c *Controller) pace(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch interrupted: %w", ctx.Err())
	case <-time.After(c.cfg.PageInterval):
		return nil
	}
}
