package model

import (
	"time"

	"github.com/google/uuid"
)

// IngestionRequest names the files of one ingestion batch.
type IngestionRequest struct {
	IngestionID string   `json:"ingestion_id" validate:"required"`
	Bucket      string   `json:"bucket" validate:"required"`
	Files       []string `json:"files" validate:"required,min=1,dive,required"`
}

type IngestionStatus string

const (
	IngestionStatusOK     IngestionStatus = "OK"
	IngestionStatusFailed IngestionStatus = "FAILED"
)

// IngestionResult is the aggregate outcome of one request.
// ExecutionFailures decides the status; FileErrors is reported
// through logs, metrics and the run ledger only.
type IngestionResult struct {
	Status            IngestionStatus
	FilesAttempted    int
	ExecutionFailures int
	FileErrors        int
	Elapsed           time.Duration
}

// IngestionRun is a ledger record of a completed request.
type IngestionRun struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	IngestionID       string          `db:"ingestion_id" json:"ingestion_id"`
	Bucket            string          `db:"bucket" json:"bucket"`
	Status            IngestionStatus `db:"status" json:"status"`
	FilesAttempted    int             `db:"files_attempted" json:"files_attempted"`
	ExecutionFailures int             `db:"execution_failures" json:"execution_failures"`
	FileErrors        int             `db:"file_errors" json:"file_errors"`
	DurationMS        int64           `db:"duration_ms" json:"duration_ms"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}

// NewIngestionRun builds a ledger record from a request and its result.
func NewIngestionRun(req IngestionRequest, res IngestionResult) *IngestionRun {
	return &IngestionRun{
		IngestionID:       req.IngestionID,
		Bucket:            req.Bucket,
		Status:            res.Status,
		FilesAttempted:    res.FilesAttempted,
		ExecutionFailures: res.ExecutionFailures,
		FileErrors:        res.FileErrors,
		DurationMS:        res.Elapsed.Milliseconds(),
	}
}
