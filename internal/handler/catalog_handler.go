package handler

import (
	"go-catalog-import/internal/repository"
	"go-catalog-import/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	catalogRepo repository.CatalogRepository
	stats       service.StatsService
}

func NewCatalogHandler(catalogRepo repository.CatalogRepository, stats service.StatsService) *CatalogHandler {
	return &CatalogHandler{catalogRepo: catalogRepo, stats: stats}
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 50)
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	products, total, err := h.catalogRepo.FindAllProducts((page-1)*pageSize, pageSize)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{
		"items":     products,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalogRepo.FindProductWithVariants(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

func (h *CatalogHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.stats.GetCatalogStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}
