package service

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"go-catalog-import/internal/events"
	"go-catalog-import/internal/model"
	"go-catalog-import/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCooldown is the minimum interval between two processing passes for
// the same product.
const DefaultCooldown = 5 * time.Second

// DefaultFacetMapping maps technical attribute names to facet display names.
// Attributes without an entry never become facets.
var DefaultFacetMapping = map[string]string{
	// Main classification
	"category":    "Category",
	"productType": "Product Type",

	// Universal properties
	"brand":   "Brand",
	"voltage": "Voltage",

	// Circuit breaker properties
	"current":          "Current Rating",
	"poles":            "Number of Poles",
	"curve":            "Curve Type",
	"breakingCapacity": "Breaking Capacity",

	// PLC properties
	"digitalInputs":       "Digital Inputs",
	"digitalOutputs":      "Digital Outputs",
	"analogInputs":        "Analog Inputs",
	"communication":       "Communication",
	"programmingLanguage": "Programming Language",

	// Contactor properties
	"coilVoltage":          "Coil Voltage",
	"contactConfiguration": "Contact Configuration",
	"ratedCurrent":         "Rated Current",

	// Dimensions
	"height": "Height",
	"width":  "Width",
	"depth":  "Depth",
	"weight": "Weight",

	// Stock status
	"stockStatus": "Stock Status",
}

// FacetService derives normalized facet assignments for a product from its
// technical attributes, with protection against duplicate and concurrent
// processing.
type FacetService interface {
	// Process runs a facet pass for the product. The in-flight and cooldown
	// guards apply; a guarded skip is not an error.
	Process(productID uuid.UUID) error
	// ProcessForced bypasses both guards, for explicit re-processing.
	ProcessForced(productID uuid.UUID) error
	// ProcessForVariant is the forced pass targeting an explicit variant for
	// the dual assignment instead of the product's first variant.
	ProcessForVariant(productID, variantID uuid.UUID) error
	// ProcessAll iterates all products in fixed-size pages, tolerating and
	// logging individual failures. Returns the number of successful passes.
	ProcessAll(pageSize int) (int, error)
	// Listen processes catalog events until the channel is closed.
	Listen(ch <-chan events.Event)
}

type facetService struct {
	catalogRepo repository.CatalogRepository
	facetRepo   repository.FacetRepository
	mapping     map[string]string
	guard       ProcessGuard
}

func NewFacetService(catalogRepo repository.CatalogRepository, facetRepo repository.FacetRepository, mapping map[string]string, guard ProcessGuard) FacetService {
	return &facetService{
		catalogRepo: catalogRepo,
		facetRepo:   facetRepo,
		mapping:     mapping,
		guard:       guard,
	}
}

var codePattern = regexp.MustCompile(`[^a-z0-9]`)

// normalizeCode lower-cases the value and replaces every character outside
// [a-z0-9] with "-", e.g. "85-264V AC" -> "85-264v-ac".
func normalizeCode(value string) string {
	return codePattern.ReplaceAllString(strings.ToLower(value), "-")
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key")
}

func (s *facetService) Process(productID uuid.UUID) error {
	if s.guard.RecentlySeen(productID) {
		log.Printf("facets: product %s processed recently, skipping", productID)
		return nil
	}
	if !s.guard.TryAcquire(productID) {
		log.Printf("facets: product %s already being processed, skipping", productID)
		return nil
	}
	defer s.guard.Release(productID)

	return s.processProduct(productID, uuid.Nil)
}

func (s *facetService) ProcessForced(productID uuid.UUID) error {
	return s.processProduct(productID, uuid.Nil)
}

func (s *facetService) ProcessForVariant(productID, variantID uuid.UUID) error {
	return s.processProduct(productID, variantID)
}

func (s *facetService) ProcessAll(pageSize int) (int, error) {
	processed := 0
	for offset := 0; ; offset += pageSize {
		products, total, err := s.catalogRepo.FindAllProducts(offset, pageSize)
		if err != nil {
			return processed, err
		}
		for i := range products {
			if err := s.processProduct(products[i].ID, uuid.Nil); err != nil {
				log.Printf("facets: error processing product %s: %v", products[i].ID, err)
				continue
			}
			processed++
		}
		if len(products) == 0 || int64(offset+pageSize) >= total {
			break
		}
	}
	return processed, nil
}

func (s *facetService) Listen(ch <-chan events.Event) {
	for event := range ch {
		switch event.Type {
		case events.ProductCreated, events.ProductUpdated, events.VariantCreated, events.VariantUpdated:
			if err := s.Process(event.ProductID); err != nil {
				log.Printf("facets: error processing %s event for product %s: %v", event.Type, event.ProductID, err)
			}
		}
	}
}

// processProduct runs one full pass: every mapped, non-empty attribute of the
// product becomes exactly one facet value, assigned to both the product and
// the target variant.
func (s *facetService) processProduct(productID, variantID uuid.UUID) error {
	product, err := s.catalogRepo.FindProductWithVariants(productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("facets: product %s not found, skipping", productID)
			return nil
		}
		return err
	}
	if len(product.CustomFields) == 0 {
		return nil
	}

	// Deterministic field order keeps runs and logs reproducible.
	fields := make([]string, 0, len(product.CustomFields))
	for field := range product.CustomFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		raw := product.CustomFields[field]
		if raw == nil {
			continue
		}
		value := strings.TrimSpace(fmt.Sprintf("%v", raw))
		if value == "" {
			continue
		}
		facetName, ok := s.mapping[field]
		if !ok {
			continue
		}

		facet, err := s.getOrCreateFacet(facetName, field)
		if err != nil {
			log.Printf("facets: error resolving facet %q for product %s: %v", facetName, productID, err)
			continue
		}
		facetValue, err := s.getOrCreateValue(facet, value)
		if err != nil {
			log.Printf("facets: error resolving value %q in facet %q: %v", value, facetName, err)
			continue
		}
		s.assign(product, facetValue, variantID)
	}
	return nil
}

// getOrCreateFacet looks the facet up by display name and lazily creates it.
// A duplicate-key conflict from a concurrent creator is resolved by
// re-fetching, not by locking.
func (s *facetService) getOrCreateFacet(name, fieldCode string) (*model.Facet, error) {
	facets, err := s.facetRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range facets {
		if facets[i].Name == name {
			return &facets[i], nil
		}
	}

	facet := &model.Facet{Code: normalizeCode(fieldCode), Name: name}
	facet.CreatedBy = "auto-facets"
	if err := s.facetRepo.Create(facet); err != nil {
		if isDuplicateKey(err) {
			refetched, ferr := s.facetRepo.FindAll()
			if ferr == nil {
				for i := range refetched {
					if refetched[i].Name == name {
						return &refetched[i], nil
					}
				}
			}
		}
		return nil, err
	}
	log.Printf("facets: created facet %q (%s)", name, facet.Code)
	return facet, nil
}

// getOrCreateValue matches on normalized code, raw name, or lower-cased raw
// value so legacy inconsistently-created values are reused instead of
// duplicated.
func (s *facetService) getOrCreateValue(facet *model.Facet, raw string) (*model.FacetValue, error) {
	full, err := s.facetRepo.FindWithValues(facet.ID)
	if err != nil {
		return nil, err
	}

	code := normalizeCode(raw)
	lower := strings.ToLower(raw)
	for i := range full.Values {
		v := &full.Values[i]
		if v.Code == code || v.Name == raw || v.Code == lower {
			return v, nil
		}
	}

	value := &model.FacetValue{FacetID: facet.ID, Code: code, Name: raw}
	value.CreatedBy = "auto-facets"
	if err := s.facetRepo.CreateValue(value); err != nil {
		if isDuplicateKey(err) {
			refetched, ferr := s.facetRepo.FindWithValues(facet.ID)
			if ferr == nil {
				for i := range refetched.Values {
					v := &refetched.Values[i]
					if v.Code == code || v.Name == raw {
						return v, nil
					}
				}
			}
		}
		return nil, err
	}
	log.Printf("facets: created value %q (%s) in facet %q", raw, code, facet.Name)
	return value, nil
}

// assign writes the facet value to both the product and the target variant,
// replacing any prior value from the same facet (at most one value per facet
// per item). Write failures are warnings: remaining attributes still process.
func (s *facetService) assign(product *model.Product, facetValue *model.FacetValue, variantID uuid.UUID) {
	// 1. Product side
	current, err := s.catalogRepo.FindProductWithFacetValues(product.ID)
	if err != nil {
		log.Printf("facets: could not load facet values for product %s: %v", product.ID, err)
	} else {
		next := replaceInFacet(current.FacetValues, facetValue)
		if err := s.catalogRepo.ReplaceProductFacetValues(product.ID, next); err != nil {
			if isDuplicateKey(err) {
				// already assigned by a concurrent pass
			} else {
				log.Printf("facets: could not assign value %s to product %s: %v", facetValue.ID, product.ID, err)
			}
		}
	}

	// 2. Variant side: explicit target, or the product's first variant
	targetID := variantID
	if targetID == uuid.Nil {
		if len(product.Variants) > 0 {
			targetID = product.Variants[0].ID
		} else if first, ferr := s.catalogRepo.FindFirstVariant(product.ID); ferr == nil && first != nil {
			targetID = first.ID
		}
	}
	if targetID == uuid.Nil {
		return
	}

	variant, err := s.catalogRepo.FindVariantWithFacetValues(targetID)
	if err != nil {
		log.Printf("facets: could not load facet values for variant %s: %v", targetID, err)
		return
	}
	next := replaceInFacet(variant.FacetValues, facetValue)
	if err := s.catalogRepo.ReplaceVariantFacetValues(targetID, next); err != nil {
		if isDuplicateKey(err) {
			return
		}
		log.Printf("facets: could not assign value %s to variant %s: %v", facetValue.ID, targetID, err)
	}
}

// replaceInFacet drops every value belonging to the new value's facet and
// appends the new value.
func replaceInFacet(current []model.FacetValue, facetValue *model.FacetValue) []model.FacetValue {
	next := make([]model.FacetValue, 0, len(current)+1)
	for _, v := range current {
		if v.FacetID != facetValue.FacetID {
			next = append(next, v)
		}
	}
	return append(next, *facetValue)
}
