package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"aarogya/internal/config"
	"aarogya/internal/db"
	"aarogya/internal/model"
	"aarogya/internal/repository"
	"aarogya/internal/service"
)

// catalogTests is the diagnostic test catalog shown on the marketing
// pages. Prices are in INR.
var catalogTests = []model.CatalogTest{
	{Name: "Full Body Checkup", Description: "Comprehensive health screening covering all major organ systems", Price: decimal.NewFromInt(2000), Turnaround: "24-48 hours"},
	{Name: "Blood Tests", Description: "Complete blood count, lipid profile, blood sugar and more", Price: decimal.NewFromInt(1500), Turnaround: "12-24 hours"},
	{Name: "Cardiac Profile", Description: "ECG, lipid profile and cardiac risk markers", Price: decimal.NewFromInt(3500), Turnaround: "24 hours"},
	{Name: "Diabetes Care", Description: "HbA1c, fasting and post-prandial glucose monitoring", Price: decimal.NewFromInt(4500), Turnaround: "24 hours"},
	{Name: "Advanced Wellness Package", Description: "Extensive panel including hormones, vitamins and tumor markers", Price: decimal.NewFromInt(9999), Turnaround: "48-72 hours"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.CatalogTest{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	if err := seedAdmin(ctx, userRepo, cfg); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	catalogService := service.NewCatalogService(repository.NewCatalogRepository(gormDB))
	seeded, err := catalogService.Seed(ctx, catalogTests)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	log.Printf("Catalog seeded: %d tests", seeded)

	log.Println("Seed completed successfully!")
	log.Println("Admin credentials:")
	log.Printf("  Username: %s", cfg.AdminName)
	log.Printf("  Password: %s", cfg.AdminPassword)
}

// seedAdmin creates the admin account or refreshes its password. Admin
// accounts only ever enter the system here, pre-approved; the public
// registration path refuses the role.
func seedAdmin(ctx context.Context, repo repository.UserRepository, cfg *config.Config) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 10)
	if err != nil {
		return err
	}

	existing, err := repo.FindAdminByName(ctx, cfg.AdminName)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if existing != nil {
		existing.PasswordHash = string(hashedPassword)
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		log.Println("Admin password updated successfully")
		return nil
	}

	admin := &model.User{
		Name:           cfg.AdminName,
		Email:          cfg.AdminEmail,
		Phone:          cfg.AdminPhone,
		PasswordHash:   string(hashedPassword),
		Role:           model.RoleAdmin,
		ApprovalStatus: model.ApprovalApproved,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}
	log.Println("Admin user created successfully")
	return nil
}
