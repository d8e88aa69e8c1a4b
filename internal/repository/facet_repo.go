package repository

import (
	"errors"

	"go-catalog-import/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacetRepository interface {
	FindAll() ([]model.Facet, error)
	Create(facet *model.Facet) error
	FindWithValues(id uuid.UUID) (*model.Facet, error)
	CreateValue(value *model.FacetValue) error
}

type facetRepo struct {
	db *gorm.DB
}

func NewFacetRepo(db *gorm.DB) FacetRepository {
	return &facetRepo{db}
}

func (r *facetRepo) FindAll() ([]model.Facet, error) {
	var facets []model.Facet
	err := r.db.Order("created_at ASC").Find(&facets).Error
	return facets, err
}

func (r *facetRepo) Create(facet *model.Facet) error {
	return r.db.Create(facet).Error
}

func (r *facetRepo) FindWithValues(id uuid.UUID) (*model.Facet, error) {
	var facet model.Facet
	err := r.db.Preload("Values").First(&facet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &facet, nil
}

func (r *facetRepo) CreateValue(value *model.FacetValue) error {
	return r.db.Create(value).Error
}
