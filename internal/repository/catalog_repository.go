package repository

import (
	"context"

	"gorm.io/gorm"

	"aarogya/internal/model"
)

// CatalogRepository defines persistence for the diagnostic test catalog.
type CatalogRepository interface {
	List(ctx context.Context) ([]model.CatalogTest, error)
	UpsertByName(ctx context.Context, test *model.CatalogTest) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) List(ctx context.Context) ([]model.CatalogTest, error) {
	var tests []model.CatalogTest
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

// UpsertByName creates the test or refreshes price, description and
// turnaround on the existing row. Used by the seed command.
func (r *catalogRepository) UpsertByName(ctx context.Context, test *model.CatalogTest) error {
	var existing model.CatalogTest
	err := r.db.WithContext(ctx).Where("name = ?", test.Name).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(test).Error
	}
	if err != nil {
		return err
	}
	existing.Description = test.Description
	existing.Price = test.Price
	existing.Turnaround = test.Turnaround
	return r.db.WithContext(ctx).Save(&existing).Error
}
