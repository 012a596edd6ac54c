package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/akave-ai/logingest/internal/infrastructure/sources"
	"github.com/akave-ai/logingest/internal/response"
)

// SourceHandler describes the compiled-in source backends (GET /sources).
type SourceHandler struct {
	Registry *sources.Registry
	Active   string
}

func (h *SourceHandler) Info(c echo.Context) error {
	return response.OK(c, map[string]any{
		"active": h.Active,
		"types":  h.Registry.AllTypesInfo(),
	}, "")
}

// TypeInfo describes one source backend (GET /sources/:type).
func (h *SourceHandler) TypeInfo(c echo.Context) error {
	name := c.Param("type")
	if name == "" {
		return response.BadRequest(c, "missing type in path")
	}
	info, ok := h.Registry.GetTypeInfo(name)
	if !ok {
		return response.NotFound(c, "unknown source type: "+name)
	}
	return response.OK(c, map[string]any{
		"active": name == h.Active,
		"type":   info,
	}, "")
}
