package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aarogya/internal/errors"
	"aarogya/internal/service"
)

// CatalogHandler serves the public diagnostic test catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List godoc
// @Summary List offered diagnostic test packages
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Router /catalog [get]
func (h *CatalogHandler) List(c echo.Context) error {
	tests, err := h.catalogService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   tests,
	})
}
