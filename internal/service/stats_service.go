package service

import (
	"go-catalog-import/internal/repository"
)

type StatsService interface {
	GetCatalogStats() (*repository.CatalogStats, error)
}

type statsService struct {
	catalogRepo repository.CatalogRepository
}

func NewStatsService(catalogRepo repository.CatalogRepository) StatsService {
	return &statsService{catalogRepo: catalogRepo}
}

func (s *statsService) GetCatalogStats() (*repository.CatalogStats, error) {
	return s.catalogRepo.GetCatalogStats()
}
