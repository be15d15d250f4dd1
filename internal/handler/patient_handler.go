package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"aarogya/internal/errors"
	"aarogya/internal/middleware"
	"aarogya/internal/model"
	"aarogya/internal/service"
)

// PatientHandler handles patient search, detail and update endpoints.
type PatientHandler struct {
	patientService service.PatientService
}

// NewPatientHandler creates a new patient handler.
func NewPatientHandler(patientService service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// UpdatePatientRequest represents a patient's update of their own details.
type UpdatePatientRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
	Age    *int   `json:"age"`
	Gender string `json:"gender"`
}

// Search godoc
// @Summary Search patients by name, email or phone
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Param query query string true "Search text"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /patients/search [get]
func (h *PatientHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "query parameter is required",
			Code:  "MISSING_QUERY",
		})
	}

	patients, err := h.patientService.Search(c.Request().Context(), query)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   patients,
	})
}

// Details godoc
// @Summary Get a patient's profile with report counts and recent reports
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Param patientId path string true "Patient ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /patients/{patientId} [get]
func (h *PatientHandler) Details(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid patient ID",
			Code:  "INVALID_UUID",
		})
	}

	details, err := h.patientService.Details(c.Request().Context(), patientID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   details,
	})
}

// UpdateDetails godoc
// @Summary Update a patient's own details
// @Description Patient-only and limited to the caller's own record.
// @Tags patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param patientId path string true "Patient ID"
// @Param request body UpdatePatientRequest true "Fields to update"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /patients/{patientId} [patch]
func (h *PatientHandler) UpdateDetails(c echo.Context) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return err
	}

	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid patient ID",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.patientService.UpdateDetails(c.Request().Context(), claims.UserID, patientID, model.PatientUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Age:    req.Age,
		Gender: req.Gender,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Patient details updated successfully",
	})
}
