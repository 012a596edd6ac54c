package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/akave-ai/logingest/internal/metrics"
	"github.com/akave-ai/logingest/internal/model"
)

// Writer inserts normalized rows one statement per row. The number of
// in-flight inserts is capped by an injected permit pool shared by every caller.
type Writer struct {
	exec    Executor
	permits *semaphore.Weighted
	logger  zerolog.Logger
}

// NewInsertPermits returns a permit pool allowing n concurrent inserts.
func NewInsertPermits(n int) *semaphore.Weighted {
	if n < 1 {
		n = 1
	}
	return semaphore.NewWeighted(int64(n))
}

// NewWriter returns a Writer whose inserts each hold one of permits.
// Writers built over the same pool share its bound.
func NewWriter(exec Executor, permits *semaphore.Weighted, logger zerolog.Logger) *Writer {
	return &Writer{
		exec:    exec,
		permits: permits,
		logger:  logger.With().Str("component", "writer").Logger(),
	}
}

// Insert writes rows best-effort. Each row is inserted independently and
// unordered; row failures are logged and counted but never abort other rows
// or fail the call. An error means work could not be scheduled (a permit
// could not be acquired); rows already started are still awaited.
func (w *Writer) Insert(ctx context.Context, rows []model.NormalizedRow) error {
	start := time.Now()
	var (
		wg        sync.WaitGroup
		failed    atomic.Int64
		scheduled int
		schedErr  error
	)

	for _, row := range rows {
		if err := w.permits.Acquire(ctx, 1); err != nil {
			schedErr = fmt.Errorf("acquire insert permit: %w", err)
			break
		}
		scheduled++
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer w.permits.Release(1)
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					w.logger.Error().Str("row_id", row.ID).Interface("panic", r).Msg("row insert panicked")
				}
			}()
			if err := w.exec.Exec(ctx, InsertQuery, row.Values()...); err != nil {
				failed.Add(1)
				w.logger.Error().Err(&InsertError{RowID: row.ID, Err: err}).Msg("row insert failed")
			}
		}()
	}
	wg.Wait()

	errs := int(failed.Load())
	metrics.CounterRowsInserted.Add(float64(scheduled - errs))
	metrics.CounterRowInsertFailures.Add(float64(errs))
	w.logger.Info().
		Int("rows", scheduled).
		Int("errors", errs).
		Dur("took", time.Since(start)).
		Msg("insert tasks completed")
	return schedErr
}
