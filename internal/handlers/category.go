package handlers

import (
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	repo repositories.CategoryRepository
}

func NewCategoryHandler(repo repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if req.Name == "" {
		return response.BadRequest(c, "name is required")
	}
	if req.Kind != models.CategoryKindIncome && req.Kind != models.CategoryKindExpense {
		return response.BadRequest(c, "kind must be income or expense")
	}

	category := &models.Category{
		OwnerID: middleware.OwnerID(c),
		Name:    req.Name,
		Kind:    req.Kind,
	}
	if err := h.repo.Create(c.Context(), category); err != nil {
		return response.ServerError(c, "Failed to create category")
	}
	return response.Created(c, category)
}

func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.repo.ListByOwner(c.Context(), middleware.OwnerID(c))
	if err != nil {
		return response.ServerError(c, "Failed to list categories")
	}
	return response.Success(c, categories)
}
