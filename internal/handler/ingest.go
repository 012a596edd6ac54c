package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logingest/internal/model"
	"github.com/akave-ai/logingest/internal/response"
)

// Ingester runs one ingestion request. *ingest.Orchestrator implements it.
type Ingester interface {
	Ingest(ctx context.Context, req model.IngestionRequest) (model.IngestionResult, error)
}

// RunStore is the ingestion ledger. *repository.IngestionRunRepository implements it.
type RunStore interface {
	Create(ctx context.Context, run *model.IngestionRun) error
	List(ctx context.Context, limit int) ([]model.IngestionRun, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.IngestionRun, error)
}

// IngestHandler handles /health and /ingest.
type IngestHandler struct {
	Ingester Ingester
	Runs     RunStore // optional; nil disables the ledger
	Validate *validator.Validate
	Logger   zerolog.Logger
}

// Health answers liveness probes (GET /health).
func (h *IngestHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Ingest runs an ingestion request to completion (POST /ingest).
// The response is 500 only when a unit failed to execute; per-file errors
// are visible in logs, metrics and the ledger.
func (h *IngestHandler) Ingest(c echo.Context) error {
	var req model.IngestionRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return response.BadRequest(c, "invalid ingestion request: "+err.Error())
	}

	// Units are not cancelled when the client goes away.
	ctx := context.WithoutCancel(c.Request().Context())
	res, err := h.Ingester.Ingest(ctx, req)
	h.record(ctx, req, res)
	if err != nil {
		h.Logger.Error().Err(err).Str("ingestion_id", req.IngestionID).Msg("ingestion failed")
		return response.InternalError(c)
	}
	return response.Ingested(c)
}

func (h *IngestHandler) record(ctx context.Context, req model.IngestionRequest, res model.IngestionResult) {
	if h.Runs == nil {
		return
	}
	run := model.NewIngestionRun(req, res)
	if err := h.Runs.Create(ctx, run); err != nil {
		h.Logger.Warn().Err(err).Str("ingestion_id", req.IngestionID).Msg("record ingestion run")
	}
}
