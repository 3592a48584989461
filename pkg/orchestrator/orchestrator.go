// Package orchestrator runs incremental sync passes: read the watermark,
// fetch newer messages, classify and extract, deduplicate within the pass,
// persist, and advance the watermark.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adikhanna/smsledger/pkg/api"
	"github.com/adikhanna/smsledger/pkg/engine"
)

// ErrPassInProgress is returned when Run is invoked while another pass is
// still running. Passes must not run concurrently against the same
// watermark; the second caller should back off and retry later.
var ErrPassInProgress = errors.New("sync pass already in progress")

// SyncLogEntry records the outcome of one completed pass.
type SyncLogEntry struct {
	PassID    uuid.UUID
	StartedAt time.Time
	Fetched   int
	Accepted  int
	Persisted int
	// Duplicates counts records suppressed by the in-pass identity set.
	Duplicates int
	Failed     int
}

// SyncLog receives pass outcomes. Implementations append-only.
type SyncLog interface {
	AppendSyncLog(ctx context.Context, entry SyncLogEntry) error
}

// PassResult summarizes one sync pass.
type PassResult struct {
	PassID    uuid.UUID
	StartedAt time.Time

	// Fetched is the number of messages newer than the watermark.
	Fetched int
	// Skipped counts messages rejected by the gate or lacking an amount.
	Skipped int
	// Accepted counts records produced after in-pass deduplication.
	Accepted int
	// Duplicates counts records suppressed by the in-pass identity set.
	Duplicates int
	// Persisted counts records newly inserted by the expense store.
	Persisted int
	// Suppressed counts records the store ignored as duplicates of history.
	Suppressed int
	// Failed counts records the store could not persist. The corresponding
	// errors are in InsertErrors; they do not fail the pass.
	Failed       int
	InsertErrors []error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSyncLog records pass outcomes to the given log.
func WithSyncLog(log SyncLog) Option {
	return func(o *Orchestrator) { o.syncLog = log }
}

// WithClock overrides the pass-start clock.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator coordinates the engine and its collaborators for sync passes.
// Run is single-flight: a second concurrent invocation fails fast with
// ErrPassInProgress rather than racing on the watermark.
type Orchestrator struct {
	engine     *engine.Engine
	source     api.MessageSource
	watermarks api.WatermarkStore
	expenses   api.ExpenseStore
	syncLog    SyncLog
	logger     *slog.Logger
	now        func() time.Time

	mu sync.Mutex
}

// New creates an orchestrator.
func New(eng *engine.Engine, source api.MessageSource, watermarks api.WatermarkStore,
	expenses api.ExpenseStore, logger *slog.Logger, opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		engine:     eng,
		source:     source,
		watermarks: watermarks,
		expenses:   expenses,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one sync pass.
//
// The watermark advances to the pass start time whenever scanning completed,
// even if nothing was accepted or some inserts failed, so permanently
// unparseable messages are not retried forever. It does not advance when the
// source is unavailable or the context is canceled mid-pass: partial
// progress is discarded rather than silently skipping unscanned messages.
func (o *Orchestrator) Run(ctx context.Context) (*PassResult, error) {
	if !o.mu.TryLock() {
		return nil, ErrPassInProgress
	}
	defer o.mu.Unlock()

	result := &PassResult{
		PassID:    uuid.New(),
		StartedAt: o.now(),
	}
	logger := o.logger.With("pass_id", result.PassID)

	watermark, ok, err := o.watermarks.Watermark(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading watermark: %w", err)
	}
	if !ok {
		watermark = 0
	}

	messages, err := o.source.FetchMessages(ctx, watermark)
	if err != nil {
		return nil, fmt.Errorf("fetching messages after %d: %w", watermark, err)
	}
	result.Fetched = len(messages)

	logger.Debug("scanning messages", "count", len(messages), "watermark", watermark)

	records, err := o.scan(ctx, messages, result)
	if err != nil {
		return nil, err
	}

	if err := o.persist(ctx, records, result, logger); err != nil {
		return nil, err
	}

	if err := o.watermarks.SetWatermark(ctx, result.StartedAt.UnixMilli()); err != nil {
		return result, fmt.Errorf("advancing watermark: %w", err)
	}

	if o.syncLog != nil {
		entry := SyncLogEntry{
			PassID:     result.PassID,
			StartedAt:  result.StartedAt,
			Fetched:    result.Fetched,
			Accepted:   result.Accepted,
			Persisted:  result.Persisted,
			Duplicates: result.Duplicates,
			Failed:     result.Failed,
		}
		if err := o.syncLog.AppendSyncLog(ctx, entry); err != nil {
			logger.Warn("appending sync log", "error", err)
		}
	}

	logger.Info("sync pass complete",
		"fetched", result.Fetched,
		"skipped", result.Skipped,
		"accepted", result.Accepted,
		"duplicates", result.Duplicates,
		"persisted", result.Persisted,
		"suppressed", result.Suppressed,
		"failed", result.Failed,
	)

	return result, nil
}

// scan classifies fetched messages and deduplicates accepted records by
// identity key within the pass.
func (o *Orchestrator) scan(ctx context.Context, messages []api.Message, result *PassResult) ([]*api.ExpenseRecord, error) {
	seen := make(map[string]struct{})
	var records []*api.ExpenseRecord

	for _, message := range messages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, identity, ok := o.engine.Parse(message.Body, message.TimestampMillis)
		if !ok {
			result.Skipped++
			continue
		}

		if _, duplicate := seen[identity]; duplicate {
			result.Duplicates++
			continue
		}
		seen[identity] = struct{}{}
		records = append(records, record)
	}

	result.Accepted = len(records)
	return records, nil
}

// persist hands records to the expense store. Individual insert failures
// are reported on the result and do not block the rest of the batch.
func (o *Orchestrator) persist(ctx context.Context, records []*api.ExpenseRecord, result *PassResult, logger *slog.Logger) error {
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		inserted, err := o.expenses.Insert(ctx, record)
		if err != nil {
			result.Failed++
			result.InsertErrors = append(result.InsertErrors, err)
			logger.Error("persisting record",
				"merchant", record.MerchantName,
				"amount", record.Amount,
				"error", err,
			)
			continue
		}

		if inserted {
			result.Persisted++
		} else {
			result.Suppressed++
		}
	}

	return nil
}
