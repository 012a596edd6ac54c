// Package ingest fans an ingestion request out into one unit of work per file
// and fans the results back in.
//
// Each unit reads its file, transforms the records and hands the rows to the
// writer while holding a fetch permit. The permit pool is injected and shared
// by all requests, so it bounds units process-wide. Logical failures (fetch,
// decode, insert scheduling) are logged and counted but leave the request
// status OK; only an ExecutionError fails the request.
//
// Units have no timeout. A stuck read or insert keeps its permit and lowers
// the concurrency left for every other request.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
	"github.com/akave-ai/logingest/internal/metrics"
	"github.com/akave-ai/logingest/internal/model"
	"github.com/akave-ai/logingest/internal/transform"
)

// RowWriter persists normalized rows. *database.Writer implements it.
type RowWriter interface {
	Insert(ctx context.Context, rows []model.NormalizedRow) error
}

// NewFetchPermits returns a permit pool allowing n concurrent units.
func NewFetchPermits(n int) *semaphore.Weighted {
	if n < 1 {
		n = 1
	}
	return semaphore.NewWeighted(int64(n))
}

// Orchestrator runs ingestion requests.
type Orchestrator struct {
	reader  sources.Reader
	writer  RowWriter
	permits *semaphore.Weighted
	logger  zerolog.Logger
}

// New returns an Orchestrator. permits is shared by every request it runs.
func New(reader sources.Reader, writer RowWriter, permits *semaphore.Weighted, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		reader:  reader,
		writer:  writer,
		permits: permits,
		logger:  logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Ingest processes every file of req and waits for all of them. The returned
// error is the first ExecutionError, if any; the result is filled either way.
func (o *Orchestrator) Ingest(ctx context.Context, req model.IngestionRequest) (model.IngestionResult, error) {
	start := time.Now()
	logger := o.logger.With().Str("ingestion_id", req.IngestionID).Str("bucket", req.Bucket).Logger()
	logger.Info().Int("files", len(req.Files)).Msg("ingestion received")

	var (
		eg          errgroup.Group
		execErrs    atomic.Int64
		fileErrs    atomic.Int64
		rowsWritten atomic.Int64
	)
	for _, key := range req.Files {
		eg.Go(func() error {
			fileLog := logger.With().Str("key", key).Logger()
			n, fileErr, execErr := o.runUnit(ctx, req, key)
			switch {
			case execErr != nil:
				execErrs.Add(1)
				metrics.CounterFiles.WithLabelValues(metrics.FileResultExecError).Inc()
				fileLog.Error().Err(execErr).Bytes("stack", execErr.Stack).Msg("ingest unit failed to execute")
				return execErr
			case fileErr != nil:
				fileErrs.Add(1)
				metrics.CounterFiles.WithLabelValues(fileResult(fileErr)).Inc()
				ev := fileLog.Error().Err(fileErr)
				if code := fetchCode(fileErr); code != "" {
					ev = ev.Str("error_code", code)
				}
				ev.Msg("file ingestion failed")
			default:
				rowsWritten.Add(int64(n))
				metrics.CounterFiles.WithLabelValues(metrics.FileResultOK).Inc()
				fileLog.Debug().Int("rows", n).Msg("file ingested")
			}
			return nil
		})
	}
	err := eg.Wait()

	res := model.IngestionResult{
		Status:            model.IngestionStatusOK,
		FilesAttempted:    len(req.Files),
		ExecutionFailures: int(execErrs.Load()),
		FileErrors:        int(fileErrs.Load()),
		Elapsed:           time.Since(start),
	}
	if res.ExecutionFailures > 0 {
		res.Status = model.IngestionStatusFailed
	}
	metrics.CounterRequests.WithLabelValues(string(res.Status)).Inc()
	metrics.HistogramRequestDuration.Observe(res.Elapsed.Seconds())

	logger.Info().
		Str("status", string(res.Status)).
		Int("files", res.FilesAttempted).
		Int("execution_failures", res.ExecutionFailures).
		Int("file_errors", res.FileErrors).
		Int64("rows", rowsWritten.Load()).
		Dur("took", res.Elapsed).
		Msg("ingestion completed")
	return res, err
}

// runUnit handles one file while holding a fetch permit. It returns the number
// of rows handed to the writer, a logical error, or an execution error.
func (o *Orchestrator) runUnit(ctx context.Context, req model.IngestionRequest, key string) (n int, fileErr error, execErr *ExecutionError) {
	if err := o.permits.Acquire(ctx, 1); err != nil {
		return 0, nil, &ExecutionError{Key: key, Err: fmt.Errorf("acquire fetch permit: %w", err)}
	}
	defer o.permits.Release(1)
	defer func() {
		if r := recover(); r != nil {
			n, fileErr = 0, nil
			execErr = &ExecutionError{Key: key, Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()

	recs, err := o.reader.Read(ctx, req.Bucket, key)
	if err != nil {
		return 0, err, nil
	}
	rows := transform.Records(req.IngestionID, recs)
	if err := o.writer.Insert(ctx, rows); err != nil {
		return 0, fmt.Errorf("insert %s: %w", key, err), nil
	}
	return len(rows), nil, nil
}

func fileResult(err error) string {
	var fe *sources.FetchError
	var de *sources.DecodeError
	switch {
	case errors.As(err, &fe):
		return metrics.FileResultFetchError
	case errors.As(err, &de):
		return metrics.FileResultDecodeError
	default:
		return metrics.FileResultInsertError
	}
}

// fetchCode returns the backend error code of a fetch failure, or "".
func fetchCode(err error) string {
	var fe *sources.FetchError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
