// Package tracker runs one check cycle over the tracking sheet: fetch every
// page, rotate its values, detect changes and notify.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/differ"
	"github.com/aleister1102/seotracker/internal/models"
	"github.com/aleister1102/seotracker/internal/notifier"
	"github.com/aleister1102/seotracker/internal/reporter"
	"github.com/aleister1102/seotracker/internal/sheetstore"

	"github.com/rs/zerolog"
)

// PageExtractor fetches a page and returns its SEO fields.
type PageExtractor interface {
	ExtractFromURL(ctx context.Context, url string) (*models.PageFields, error)
}

// StatusChecker resolves the status of a URL.
type StatusChecker interface {
	CheckStatus(ctx context.Context, url string) models.StatusResult
}

// CycleResult summarises one cycle.
type CycleResult struct {
	CycleID     string
	StartedAt   time.Time
	Duration    time.Duration
	RowsTotal   int
	RowsChecked int
	RowsSkipped int
	Changes     int
	Notified    bool
	Interrupted bool
	Report      models.ReportPayload
}

// Options holds the notification settings of a Tracker.
type Options struct {
	Subject    string
	Recipients []string
}

// Tracker wires the cycle collaborators together.
type Tracker struct {
	store     sheetstore.Store
	extractor PageExtractor
	checker   StatusChecker
	detector  *differ.ChangeDetector
	renderer  *reporter.Renderer
	notifier  notifier.Notifier
	opts      Options
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a Tracker. notifier may be nil, in which case changes are only
// logged.
func New(
	store sheetstore.Store,
	extractor PageExtractor,
	checker StatusChecker,
	detector *differ.ChangeDetector,
	renderer *reporter.Renderer,
	n notifier.Notifier,
	opts Options,
	logger zerolog.Logger,
) *Tracker {
	if opts.Subject == "" {
		opts.Subject = notifier.DefaultSubject
	}
	return &Tracker{
		store:     store,
		extractor: extractor,
		checker:   checker,
		detector:  detector,
		renderer:  renderer,
		notifier:  n,
		opts:      opts,
		logger:    logger.With().Str("component", "Tracker").Logger(),
		now:       time.Now,
	}
}

// RunCycle loads the sheet once, processes rows in order and saves once.
// Cancelling ctx stops before the next row; rows processed so far are still
// saved and reported.
func (t *Tracker) RunCycle(ctx context.Context) (*CycleResult, error) {
	started := t.now()
	result := &CycleResult{
		CycleID:   fmt.Sprintf("cycle-%s", started.Format("20060102-150405")),
		StartedAt: started,
	}
	logger := t.logger.With().Str("cycle_id", result.CycleID).Logger()

	rows, err := t.store.Load(ctx)
	if err != nil {
		return nil, common.WrapError(err, "failed to load tracked rows")
	}
	result.RowsTotal = len(rows)
	logger.Info().Int("rows", len(rows)).Msg("Starting check cycle")

	aggregator := reporter.NewAggregator()
	for i := range rows {
		if ctx.Err() != nil {
			result.Interrupted = true
			logger.Warn().Int("processed", i).Int("total", len(rows)).Msg("Cycle interrupted, saving processed rows")
			break
		}

		if t.processRow(ctx, &rows[i], aggregator, logger) {
			result.RowsChecked++
		} else {
			result.RowsSkipped++
		}
	}
	if ctx.Err() != nil {
		result.Interrupted = true
	}

	// Rows processed before a cancellation are still saved and reported.
	persistCtx := context.WithoutCancel(ctx)

	if err := t.store.Save(persistCtx, rows); err != nil {
		return result, common.WrapError(err, "failed to save tracked rows")
	}

	result.Report = aggregator.Payload()
	result.Changes = result.Report.TotalChanges()

	if err := t.notify(persistCtx, result); err != nil {
		logger.Error().Err(err).Msg("Failed to build notification")
	}

	result.Duration = t.now().Sub(started)
	logger.Info().
		Int("rows_total", result.RowsTotal).
		Int("rows_checked", result.RowsChecked).
		Int("rows_skipped", result.RowsSkipped).
		Int("changes", result.Changes).
		Bool("notified", result.Notified).
		Bool("interrupted", result.Interrupted).
		Dur("duration", result.Duration).
		Msg("Check cycle finished")
	return result, nil
}

// processRow reports whether the row was rotated. Rows without a URL, whose
// page could not be fetched or whose check was cut short by cancellation are
// left untouched.
func (t *Tracker) processRow(ctx context.Context, row *models.TrackedRow, aggregator *reporter.Aggregator, logger zerolog.Logger) bool {
	url := strings.TrimSpace(row.URL)
	if url == "" {
		return false
	}

	fields, fetchErr := t.extractor.ExtractFromURL(ctx, url)
	// The status is resolved even for failed fetches so the cache is warm
	// for the next cycle.
	status := t.checker.CheckStatus(ctx, url)

	if ctx.Err() != nil {
		logger.Warn().Str("url", url).Int("row", row.Index).Msg("Skipping row, cycle cancelled during check")
		return false
	}
	if fetchErr != nil {
		logger.Warn().Err(common.NewRowError(row.Index, url, fetchErr)).Msg("Skipping row, page fetch failed")
		return false
	}

	row.Rotate(models.Observation{Fields: *fields, Status: status})
	aggregator.Add(t.detector.DetectChanges(*row)...)
	return true
}

func (t *Tracker) notify(ctx context.Context, result *CycleResult) error {
	if result.Report.IsEmpty() {
		t.logger.Info().Msg("No changes detected, skipping notification")
		return nil
	}
	if t.notifier == nil || t.renderer == nil {
		t.logger.Info().Int("changes", result.Changes).Msg("Changes detected but no notifier configured")
		return nil
	}

	htmlBody, err := t.renderer.RenderHTML(result.Report)
	if errors.Is(err, reporter.ErrEmptyReport) {
		return nil
	}
	if err != nil {
		return err
	}
	textBody, err := t.renderer.RenderText(result.Report)
	if err != nil {
		return err
	}

	n := models.Notification{
		Recipients: t.opts.Recipients,
		Subject:    t.opts.Subject,
		HTMLBody:   htmlBody,
		TextBody:   textBody,
		Report:     result.Report,
	}
	if err := t.notifier.Send(ctx, n); err != nil {
		t.logger.Error().Err(err).Msg("Notification delivery failed")
		return nil
	}
	result.Notified = true
	return nil
}
