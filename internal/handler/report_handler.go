package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"aarogya/internal/errors"
	"aarogya/internal/middleware"
	"aarogya/internal/model"
	"aarogya/internal/service"
)

// ReportHandler handles lab report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// UploadReportForm represents the multipart metadata of a report upload.
// The file itself travels in the "report" form field.
type UploadReportForm struct {
	PatientID string `form:"patient_id" validate:"required,uuid"`
	DoctorID  string `form:"doctor_id" validate:"omitempty,uuid"`
	TestName  string `form:"test_name" validate:"required"`
	Priority  string `form:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Notes     string `form:"notes"`
	TestDate  string `form:"test_date" validate:"required,datetime=2006-01-02"`
}

// UpdateReportStatusRequest represents a report status transition.
type UpdateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed"`
}

// Upload godoc
// @Summary Upload a diagnostic report for a patient
// @Description Lab-only. Accepts a PDF, JPEG or PNG up to the configured size limit in the "report" form field.
// @Tags reports
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param report formData file true "Report file"
// @Param patient_id formData string true "Patient ID"
// @Param test_name formData string true "Test name"
// @Param test_date formData string true "Test date (YYYY-MM-DD)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/upload [post]
func (h *ReportHandler) Upload(c echo.Context) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return err
	}

	var form UploadReportForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("report")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "no file uploaded",
			Code:  "MISSING_FILE",
		})
	}

	patientID, _ := uuid.Parse(form.PatientID)
	var doctorID *uuid.UUID
	if form.DoctorID != "" {
		id, _ := uuid.Parse(form.DoctorID)
		doctorID = &id
	}
	testDate, _ := time.Parse("2006-01-02", form.TestDate)

	report, err := h.reportService.Upload(c.Request().Context(), claims.UserID, service.UploadReportInput{
		PatientID: patientID,
		DoctorID:  doctorID,
		TestName:  form.TestName,
		Priority:  model.ReportPriority(form.Priority),
		Notes:     form.Notes,
		TestDate:  testDate,
	}, file)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status": "success",
		"data": echo.Map{
			"report_id": report.ID,
			"file_path": report.FilePath,
		},
	})
}

// ListForPatient godoc
// @Summary List a patient's reports
// @Description Doctors may read any patient's reports; a patient may only read their own.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param patientId path string true "Patient ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/patient/{patientId} [get]
func (h *ReportHandler) ListForPatient(c echo.Context) error {
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

	reports, err := h.reportService.ListForPatient(c.Request().Context(), claims.UserID, claims.Role, patientID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   reports,
	})
}

// UpdateStatus godoc
// @Summary Update the status of a report
// @Description Lab-only; scoped to reports the calling lab uploaded.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reportId path string true "Report ID"
// @Param request body UpdateReportStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/{reportId}/status [patch]
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	claims, err := middleware.CurrentClaims(c)
	if err != nil {
		return err
	}

	reportID, err := uuid.Parse(c.Param("reportId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid report ID",
			Code:  "INVALID_UUID",
		})
	}

	var req UpdateReportStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.reportService.UpdateStatus(c.Request().Context(), claims.UserID, reportID, model.ReportStatus(req.Status)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Report status updated successfully",
	})
}
