package handler

import (
	"log"

	"go-catalog-import/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FacetHandler struct {
	facets service.FacetService
}

func NewFacetHandler(facets service.FacetService) *FacetHandler {
	return &FacetHandler{facets: facets}
}

// Reprocess triggers a facet pass for one product. The in-flight and cooldown
// guards still apply, so a recently processed product is a no-op.
func (h *FacetHandler) Reprocess(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.facets.Process(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(202).JSON(fiber.Map{"message": "Facet processing triggered"})
}

// ReprocessForced bypasses the guards entirely for explicit re-processing
func (h *FacetHandler) ReprocessForced(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.facets.ProcessForced(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Facet processing completed"})
}

// ReprocessAll walks the whole catalog in pages in the background
func (h *FacetHandler) ReprocessAll(c *fiber.Ctx) error {
	go func() {
		processed, err := h.facets.ProcessAll(100)
		if err != nil {
			log.Printf("facets: bulk reprocessing stopped after %d products: %v", processed, err)
			return
		}
		log.Printf("facets: bulk reprocessing completed, %d products", processed)
	}()

	return c.Status(202).JSON(fiber.Map{"message": "Bulk facet processing started"})
}
