package main

import (
	"log"
	"net/http"
	"os"

	_ "aarogya/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"aarogya/internal/auth"
	"aarogya/internal/cache"
	"aarogya/internal/config"
	"aarogya/internal/db"
	"aarogya/internal/handler"
	"aarogya/internal/model"
	"aarogya/internal/repository"
	"aarogya/internal/router"
	"aarogya/internal/service"
	"aarogya/internal/upload"
)

// @title Aarogya Diagnostics Portal API
// @version 1.0
// @description Diagnostics lab patient portal with role-scoped dashboards, admin approval workflow and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Report{},
			&model.DoctorProfile{},
			&model.LabProfile{},
			&model.PatientProfile{},
			&model.CatalogTest{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.DoctorProfile{},
		&model.LabProfile{},
		&model.PatientProfile{},
		&model.Report{},
		&model.CatalogTest{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	uploadStore, err := upload.NewStore(cfg.UploadPath, cfg.MaxUploadSize)
	if err != nil {
		log.Fatalf("upload store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	patientRepo := repository.NewPatientRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)
	catalogRepo := repository.NewCatalogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	// Initialize services
	accountService := service.NewAccountService(userRepo, jwtService)
	approvalService := service.NewApprovalService(userRepo)
	reportService := service.NewReportService(reportRepo, patientRepo, uploadStore)
	patientService := service.NewPatientService(patientRepo, reportRepo)
	dashboardService := service.NewDashboardService(reportRepo, patientRepo, cacheClient)
	catalogService := service.NewCatalogService(catalogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(accountService)
	adminHandler := handler.NewAdminHandler(approvalService)
	reportHandler := handler.NewReportHandler(reportService)
	patientHandler := handler.NewPatientHandler(patientService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		adminHandler,
		reportHandler,
		patientHandler,
		dashboardHandler,
		catalogHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
