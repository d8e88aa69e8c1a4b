package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"go-catalog-import/internal/events"
	"go-catalog-import/internal/model"
	"go-catalog-import/internal/repository"
	"go-catalog-import/pkg/validator"

	"github.com/shopspring/decimal"
)

// PriceMode selects how the raw CSV price is normalized to minor currency
// units. This is per product family and is never inferred from the data.
type PriceMode int

const (
	// PriceMajorUnits: price in major currency units, e.g. "28937.54" -> 2893754
	PriceMajorUnits PriceMode = iota
	// PriceMinorUnits: price already in minor units, e.g. "1272" -> 1272
	PriceMinorUnits
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidPrice = errors.New("invalid price")
)

// ImportRecord is one raw CSV row. All values arrive as strings; the engine
// owns parsing and normalization.
type ImportRecord struct {
	SKU            string
	Name           string
	Slug           string
	Description    string
	Price          string
	Enabled        string
	StockOnHand    string
	TrackInventory string
	// AssetURLs is a pipe-delimited list of image URLs, optional.
	AssetURLs    string
	CustomFields map[string]string
}

// RecordSource produces a finite, restartable sequence of records.
type RecordSource interface {
	Each(fn func(record ImportRecord) error) error
}

// FamilyConfig is the per-product-family configuration that used to be the
// whole content of the per-family driver scripts.
type FamilyConfig struct {
	Code      string
	Name      string
	PriceMode PriceMode
	// CustomFields is the allow-list of recognized attribute names.
	CustomFields []string
	// NumericFields are parsed to integers, falling back to 0.
	NumericFields []string
	AssetTags     []string
}

type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errored  int `json:"errored"`
	Total    int `json:"total"`
}

// ImportService reconciles incoming records against the catalog: each record
// is created, skipped as a duplicate, or rejected, without aborting the batch.
type ImportService interface {
	Run(source RecordSource) (*ImportSummary, error)
}

type importService struct {
	catalogRepo repository.CatalogRepository
	facets      FacetService
	assets      AssetService
	bus         *events.Bus
	cfg         FamilyConfig
}

func NewImportService(catalogRepo repository.CatalogRepository, facets FacetService, assets AssetService, bus *events.Bus, cfg FamilyConfig) ImportService {
	return &importService{
		catalogRepo: catalogRepo,
		facets:      facets,
		assets:      assets,
		bus:         bus,
		cfg:         cfg,
	}
}

type outcome int

const (
	outcomeImported outcome = iota
	outcomeSkipped
	outcomeErrored
)

func (s *importService) Run(source RecordSource) (*ImportSummary, error) {
	summary := &ImportSummary{}

	err := source.Each(func(record ImportRecord) error {
		summary.Total++
		switch s.importRecord(record) {
		case outcomeImported:
			summary.Imported++
		case outcomeSkipped:
			summary.Skipped++
		case outcomeErrored:
			summary.Errored++
		}
		return nil
	})
	if err != nil {
		// Source-level failure (unreadable file etc), not a per-record error
		return summary, err
	}

	log.Printf("import[%s]: done, imported=%d skipped=%d errored=%d total=%d",
		s.cfg.Code, summary.Imported, summary.Skipped, summary.Errored, summary.Total)
	return summary, nil
}

func (s *importService) importRecord(record ImportRecord) outcome {
	// 1. Validate before any mutation
	price, err := s.validate(record)
	if err != nil {
		log.Printf("import[%s]: rejected record sku=%q name=%q: %v", s.cfg.Code, record.SKU, record.Name, err)
		return outcomeErrored
	}

	// 2. Duplicate check by SKU over non-deleted variants. A hit is a skip,
	// not an error: at-most-once creation keyed on SKU.
	existing, err := s.catalogRepo.FindVariantBySKU(record.SKU)
	if err != nil {
		log.Printf("import[%s]: duplicate check failed for sku=%q: %v", s.cfg.Code, record.SKU, err)
		return outcomeErrored
	}
	if existing != nil {
		log.Printf("import[%s]: skipping duplicate sku=%q", s.cfg.Code, record.SKU)
		return outcomeSkipped
	}

	// 3. Create product with the normalized attribute set
	slug := strings.TrimSpace(record.Slug)
	if slug == "" {
		slug = normalizeCode(record.Name)
	}
	product := &model.Product{
		Name:         record.Name,
		Slug:         slug,
		Description:  record.Description,
		Enabled:      parseBool(record.Enabled),
		CustomFields: s.normalizeCustomFields(record.CustomFields),
	}
	product.CreatedBy = "import:" + s.cfg.Code
	product.UpdatedBy = product.CreatedBy
	if err := s.catalogRepo.CreateProduct(product); err != nil {
		log.Printf("import[%s]: failed to create product for sku=%q: %v", s.cfg.Code, record.SKU, err)
		return outcomeErrored
	}

	// 4. Create exactly one variant. If this fails the product stays without
	// a variant; no rollback is attempted (accepted operational tradeoff).
	variant := &model.ProductVariant{
		ProductID:      product.ID,
		SKU:            record.SKU,
		Name:           record.Name + " Variant",
		Price:          price,
		StockOnHand:    parseIntDefault(record.StockOnHand, 0),
		TrackInventory: parseBool(record.TrackInventory),
		Enabled:        parseBool(record.Enabled),
	}
	variant.CreatedBy = product.CreatedBy
	variant.UpdatedBy = product.CreatedBy
	if err := s.catalogRepo.CreateVariant(variant); err != nil {
		log.Printf("import[%s]: failed to create variant sku=%q (product %s left without variant): %v",
			s.cfg.Code, record.SKU, product.ID, err)
		return outcomeErrored
	}

	s.bus.Publish(events.Event{Type: events.ProductCreated, ProductID: product.ID, SKU: record.SKU, Name: record.Name})
	s.bus.Publish(events.Event{Type: events.VariantCreated, ProductID: product.ID, SKU: record.SKU, Name: variant.Name})

	// 5. Facet derivation reads the stored attributes, so it must run after
	// both creates. Failures here leave the item purchasable without tags.
	if s.facets != nil {
		if err := s.facets.ProcessForVariant(product.ID, variant.ID); err != nil {
			log.Printf("import[%s]: facet processing warning for sku=%q: %v", s.cfg.Code, record.SKU, err)
		}
	}

	// 6. Optional images
	if s.assets != nil && strings.TrimSpace(record.AssetURLs) != "" {
		if _, err := s.assets.AttachFromURLs(product.ID, record.AssetURLs, s.cfg.AssetTags); err != nil {
			log.Printf("import[%s]: asset warning for sku=%q: %v", s.cfg.Code, record.SKU, err)
		}
	}

	log.Printf("import[%s]: imported %q (sku=%s)", s.cfg.Code, record.Name, record.SKU)
	return outcomeImported
}

// requiredFields is validated before any catalog mutation happens.
type requiredFields struct {
	SKU   string `validate:"required"`
	Name  string `validate:"required"`
	Price string `validate:"required"`
}

func (s *importService) validate(record ImportRecord) (int64, error) {
	fields := requiredFields{SKU: record.SKU, Name: record.Name, Price: record.Price}
	if errs := validator.ValidateStruct(fields); len(errs) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, errs[0].FailedField)
	}
	return s.normalizePrice(record.Price)
}

func (s *importService) normalizePrice(raw string) (int64, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if s.cfg.PriceMode == PriceMajorUnits {
		price = price.Mul(decimal.NewFromInt(100))
	}
	return price.Round(0).IntPart(), nil
}

// normalizeCustomFields copies only allow-listed, non-empty attributes.
// Unrecognized or empty values are dropped silently.
func (s *importService) normalizeCustomFields(fields map[string]string) model.JSONMap {
	if len(fields) == 0 {
		return nil
	}

	numeric := make(map[string]bool, len(s.cfg.NumericFields))
	for _, name := range s.cfg.NumericFields {
		numeric[name] = true
	}

	attrs := model.JSONMap{}
	for _, name := range s.cfg.CustomFields {
		value := strings.TrimSpace(fields[name])
		if value == "" {
			continue
		}
		if numeric[name] {
			attrs[name] = parseIntDefault(value, 0)
		} else {
			attrs[name] = value
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func parseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

func parseIntDefault(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}
