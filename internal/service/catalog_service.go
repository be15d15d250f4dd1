package service

import (
	"context"
	"fmt"

	"aarogya/internal/model"
	"aarogya/internal/repository"
)

// CatalogService serves the public diagnostic test catalog.
type CatalogService interface {
	List(ctx context.Context) ([]model.CatalogTest, error)
	Seed(ctx context.Context, tests []model.CatalogTest) (int, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) List(ctx context.Context) ([]model.CatalogTest, error) {
	tests, err := s.catalogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return tests, nil
}

// Seed upserts catalog entries by name so reseeding refreshes prices
// without duplicating rows.
func (s *catalogService) Seed(ctx context.Context, tests []model.CatalogTest) (int, error) {
	count := 0
	for i := range tests {
		if err := s.catalogRepo.UpsertByName(ctx, &tests[i]); err != nil {
			return count, fmt.Errorf("seed catalog test %q: %w", tests[i].Name, err)
		}
		count++
	}
	return count, nil
}
