package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"aarogya/internal/auth"
	"aarogya/internal/config"
	"aarogya/internal/errors"
	"aarogya/internal/handler"
	"aarogya/internal/middleware"
	"aarogya/internal/model"
)

// Register wires routes and middleware. Every protected route passes the
// JWT middleware (authentication, 401) and, where declared, a role guard
// (authorization, 403).
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	reportHandler *handler.ReportHandler,
	patientHandler *handler.PatientHandler,
	dashboardHandler *handler.DashboardHandler,
	catalogHandler *handler.CatalogHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/admin/login", authHandler.AdminLogin)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.GET("/catalog", catalogHandler.List)

	// Secured routes (require a valid bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid token",
				Code:  "INVALID_TOKEN",
			})
		},
	}))

	secured.GET("/auth/profile", authHandler.GetProfile)
	secured.PUT("/auth/profile", authHandler.UpdateProfile)
	secured.GET("/dashboard/stats", dashboardHandler.Stats)

	// Report routes
	reports := secured.Group("/reports")
	reports.POST("/upload", reportHandler.Upload, middleware.RequireRoles(model.RoleLab))
	reports.PATCH("/:reportId/status", reportHandler.UpdateStatus, middleware.RequireRoles(model.RoleLab))
	reports.GET("/patient/:patientId", reportHandler.ListForPatient, middleware.RequireRoles(model.RoleDoctor, model.RolePatient))

	// Patient routes
	patients := secured.Group("/patients")
	patients.GET("/search", patientHandler.Search, middleware.RequireRoles(model.RoleDoctor))
	patients.GET("/:patientId", patientHandler.Details, middleware.RequireRoles(model.RoleDoctor, model.RolePatient))
	patients.PATCH("/:patientId", patientHandler.UpdateDetails, middleware.RequireRoles(model.RolePatient))

	// Admin routes
	admin := secured.Group("/admin", middleware.RequireRoles(model.RoleAdmin))
	admin.GET("/dashboard/stats", adminHandler.Stats)
	admin.GET("/approvals/pending", adminHandler.ListPending)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/approvals/:userId/approve", adminHandler.Approve)
	admin.PUT("/approvals/:userId/reject", adminHandler.Reject)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
