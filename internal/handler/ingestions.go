package handler

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logingest/internal/model"
	"github.com/akave-ai/logingest/internal/response"
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// LedgerHandler serves the ingestion ledger (GET /ingestions, GET /ingestions/:id).
type LedgerHandler struct {
	Runs   RunStore // nil when no ledger database is configured
	Logger zerolog.Logger
}

// List returns the most recent runs. ?limit= caps the count.
func (h *LedgerHandler) List(c echo.Context) error {
	if h.Runs == nil {
		return response.OK(c, map[string]any{"runs": []model.IngestionRun{}}, "ledger not configured")
	}
	limit := defaultRunLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return response.BadRequest(c, "limit must be a positive integer")
		}
		limit = min(n, maxRunLimit)
	}
	runs, err := h.Runs.List(c.Request().Context(), limit)
	if err != nil {
		h.Logger.Error().Err(err).Msg("list ingestion runs")
		return response.InternalError(c)
	}
	if runs == nil {
		runs = []model.IngestionRun{}
	}
	return response.OK(c, map[string]any{"runs": runs}, "")
}

// Get returns one run by ledger id.
func (h *LedgerHandler) Get(c echo.Context) error {
	if h.Runs == nil {
		return response.NotFound(c, "ledger not configured")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid run id")
	}
	run, err := h.Runs.GetByID(c.Request().Context(), id)
	if err != nil {
		h.Logger.Error().Err(err).Str("run_id", id.String()).Msg("get ingestion run")
		return response.InternalError(c)
	}
	if run == nil {
		return response.NotFound(c, "ingestion run not found")
	}
	return response.OK(c, run, "")
}
