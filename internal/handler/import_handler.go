package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-catalog-import/internal/csvsource"
	"go-catalog-import/internal/events"
	"go-catalog-import/internal/family"
	"go-catalog-import/internal/repository"
	"go-catalog-import/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ImportHandler runs a batch import from an uploaded CSV file for a given
// product family.
type ImportHandler struct {
	catalogRepo repository.CatalogRepository
	facets      service.FacetService
	assets      service.AssetService
	bus         *events.Bus
}

func NewImportHandler(catalogRepo repository.CatalogRepository, facets service.FacetService, assets service.AssetService, bus *events.Bus) *ImportHandler {
	return &ImportHandler{
		catalogRepo: catalogRepo,
		facets:      facets,
		assets:      assets,
		bus:         bus,
	}
}

func (h *ImportHandler) Import(c *fiber.Ctx) error {
	familyCode := c.Query("family")
	cfg, ok := family.Lookup(familyCode)
	if !ok {
		return c.Status(400).JSON(fiber.Map{
			"error":    fmt.Sprintf("Unknown product family %q", familyCode),
			"families": family.Codes(),
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing CSV file upload (field 'file')"})
	}

	tempPath := filepath.Join(os.TempDir(), "catalog-import-"+strings.ReplaceAll(fileHeader.Filename, string(os.PathSeparator), "_"))
	if err := c.SaveFile(fileHeader, tempPath); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store upload"})
	}
	defer os.Remove(tempPath)

	importer := service.NewImportService(h.catalogRepo, h.facets, h.assets, h.bus, cfg)
	summary, err := importer.Run(csvsource.New(tempPath))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error(), "summary": summary})
	}
	return c.JSON(summary)
}
