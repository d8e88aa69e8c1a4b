package service

import (
	"errors"
	"sync"

	"go-catalog-import/internal/events"
	"go-catalog-import/internal/model"
	"go-catalog-import/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory CatalogRepository used by the engine tests.
type memStore struct {
	mu           sync.Mutex
	products     map[uuid.UUID]*model.Product
	productOrder []uuid.UUID
	variants     []*model.ProductVariant
	productFV    map[uuid.UUID][]model.FacetValue
	variantFV    map[uuid.UUID][]model.FacetValue

	createVariantErr error
	// findProductHook runs at the start of FindProductWithVariants, outside
	// the store lock, so tests can block a processing pass mid-flight.
	findProductHook func()
	productFetches  int
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]*model.Product),
		productFV: make(map[uuid.UUID][]model.FacetValue),
		variantFV: make(map[uuid.UUID][]model.FacetValue),
	}
}

var _ repository.CatalogRepository = (*memStore)(nil)

func (s *memStore) CreateProduct(product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	s.productOrder = append(s.productOrder, product.ID)
	return nil
}

func (s *memStore) CreateVariant(variant *model.ProductVariant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createVariantErr != nil {
		return s.createVariantErr
	}
	if variant.ID == uuid.Nil {
		variant.ID = uuid.New()
	}
	s.variants = append(s.variants, variant)
	return nil
}

func (s *memStore) FindVariantBySKU(sku string) (*model.ProductVariant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.variants {
		if v.SKU == sku && !v.DeletedAt.Valid {
			return v, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindProductWithVariants(id uuid.UUID) (*model.Product, error) {
	if s.findProductHook != nil {
		s.findProductHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productFetches++

	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *product
	clone.Variants = nil
	for _, v := range s.variants {
		if v.ProductID == id && !v.DeletedAt.Valid {
			clone.Variants = append(clone.Variants, *v)
		}
	}
	return &clone, nil
}

func (s *memStore) FindProductWithFacetValues(id uuid.UUID) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *product
	clone.FacetValues = append([]model.FacetValue(nil), s.productFV[id]...)
	return &clone, nil
}

func (s *memStore) FindFirstVariant(productID uuid.UUID) (*model.ProductVariant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.variants {
		if v.ProductID == productID && !v.DeletedAt.Valid {
			return v, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindVariantWithFacetValues(id uuid.UUID) (*model.ProductVariant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.variants {
		if v.ID == id {
			clone := *v
			clone.FacetValues = append([]model.FacetValue(nil), s.variantFV[id]...)
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) FindAllProducts(offset, limit int) ([]model.Product, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := int64(len(s.productOrder))
	var page []model.Product
	for i := offset; i < len(s.productOrder) && i < offset+limit; i++ {
		page = append(page, *s.products[s.productOrder[i]])
	}
	return page, total, nil
}

func (s *memStore) ReplaceProductFacetValues(id uuid.UUID, values []model.FacetValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productFV[id] = append([]model.FacetValue(nil), values...)
	return nil
}

func (s *memStore) ReplaceVariantFacetValues(id uuid.UUID, values []model.FacetValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variantFV[id] = append([]model.FacetValue(nil), values...)
	return nil
}

func (s *memStore) UpdateProductAssets(id uuid.UUID, assetIDs []uuid.UUID, featuredAssetID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	featured := featuredAssetID
	product.FeaturedAssetID = &featured
	return nil
}

func (s *memStore) GetCatalogStats() (*repository.CatalogStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &repository.CatalogStats{
		TotalProducts: int64(len(s.products)),
		TotalVariants: int64(len(s.variants)),
	}, nil
}

// helpers

func (s *memStore) addProduct(name string, customFields model.JSONMap) *model.Product {
	product := &model.Product{Name: name, CustomFields: customFields}
	s.CreateProduct(product)
	return product
}

func (s *memStore) addVariant(productID uuid.UUID, sku string, deleted bool) *model.ProductVariant {
	variant := &model.ProductVariant{ProductID: productID, SKU: sku}
	variant.ID = uuid.New()
	if deleted {
		variant.DeletedAt = gorm.DeletedAt{Valid: true}
	}
	s.mu.Lock()
	s.variants = append(s.variants, variant)
	s.mu.Unlock()
	return variant
}

func (s *memStore) variantsFor(productID uuid.UUID) []*model.ProductVariant {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.ProductVariant
	for _, v := range s.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out
}

// memFacets is an in-memory FacetRepository. conflictFacet / conflictValue
// simulate a concurrent creator: the next Create fails with a duplicate-key
// error while the conflicting row appears in the store.
type memFacets struct {
	mu     sync.Mutex
	facets []*model.Facet
	values map[uuid.UUID][]model.FacetValue

	conflictFacet *model.Facet
	conflictValue *model.FacetValue
}

func newMemFacets() *memFacets {
	return &memFacets{values: make(map[uuid.UUID][]model.FacetValue)}
}

var _ repository.FacetRepository = (*memFacets)(nil)

var errDuplicateKey = errors.New(`duplicate key value violates unique constraint`)

func (f *memFacets) FindAll() ([]model.Facet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Facet, 0, len(f.facets))
	for _, facet := range f.facets {
		out = append(out, *facet)
	}
	return out, nil
}

func (f *memFacets) Create(facet *model.Facet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflictFacet != nil {
		conflicting := f.conflictFacet
		f.conflictFacet = nil
		f.facets = append(f.facets, conflicting)
		return errDuplicateKey
	}
	if facet.ID == uuid.Nil {
		facet.ID = uuid.New()
	}
	f.facets = append(f.facets, facet)
	return nil
}

func (f *memFacets) FindWithValues(id uuid.UUID) (*model.Facet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, facet := range f.facets {
		if facet.ID == id {
			clone := *facet
			clone.Values = append([]model.FacetValue(nil), f.values[id]...)
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *memFacets) CreateValue(value *model.FacetValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflictValue != nil {
		conflicting := f.conflictValue
		f.conflictValue = nil
		f.values[conflicting.FacetID] = append(f.values[conflicting.FacetID], *conflicting)
		return errDuplicateKey
	}
	if value.ID == uuid.Nil {
		value.ID = uuid.New()
	}
	f.values[value.FacetID] = append(f.values[value.FacetID], *value)
	return nil
}

func (f *memFacets) addFacet(code, name string) *model.Facet {
	facet := &model.Facet{Code: code, Name: name}
	facet.ID = uuid.New()
	f.mu.Lock()
	f.facets = append(f.facets, facet)
	f.mu.Unlock()
	return facet
}

func (f *memFacets) addValue(facetID uuid.UUID, code, name string) *model.FacetValue {
	value := &model.FacetValue{FacetID: facetID, Code: code, Name: name}
	value.ID = uuid.New()
	f.mu.Lock()
	f.values[facetID] = append(f.values[facetID], *value)
	f.mu.Unlock()
	return value
}

// stubFacetService records handoffs from the import engine.
type stubFacetService struct {
	mu    sync.Mutex
	calls [][2]uuid.UUID // product, variant
	err   error
}

var _ FacetService = (*stubFacetService)(nil)

func (s *stubFacetService) Process(productID uuid.UUID) error { return s.record(productID, uuid.Nil) }
func (s *stubFacetService) ProcessForced(productID uuid.UUID) error {
	return s.record(productID, uuid.Nil)
}
func (s *stubFacetService) ProcessForVariant(productID, variantID uuid.UUID) error {
	return s.record(productID, variantID)
}
func (s *stubFacetService) ProcessAll(pageSize int) (int, error) { return 0, nil }
func (s *stubFacetService) Listen(ch <-chan events.Event)        {}

func (s *stubFacetService) record(productID, variantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, [2]uuid.UUID{productID, variantID})
	return s.err
}

// sliceSource feeds fixed records to the import engine.
type sliceSource struct {
	records []ImportRecord
}

func (s sliceSource) Each(fn func(record ImportRecord) error) error {
	for _, record := range s.records {
		if err := fn(record); err != nil {
			return err
		}
	}
	return nil
}
