package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scheme-assist/backend/internal/catalog"
	"github.com/scheme-assist/backend/internal/i18n"
	"github.com/scheme-assist/backend/internal/metrics"
)

// CatalogHandler serves the read-only reference data: schemes, states and
// languages.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) ListSchemes(c *fiber.Ctx) error {
	schemes := catalog.Search(c.Query("q"), c.Query("category"))
	metrics.SchemeSearches.Inc()

	return c.JSON(fiber.Map{
		"schemes": schemes,
		"count":   len(schemes),
	})
}

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": catalog.Categories(),
	})
}

func (h *CatalogHandler) GetScheme(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Scheme id must be a number",
		})
	}

	scheme, ok := catalog.ByID(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Scheme not found",
		})
	}

	return c.JSON(scheme)
}

func (h *CatalogHandler) ListStates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"states": catalog.SearchStates(c.Query("q")),
	})
}

func (h *CatalogHandler) ListLanguages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"languages": i18n.Languages(),
		"default":   i18n.Default().ID,
	})
}
