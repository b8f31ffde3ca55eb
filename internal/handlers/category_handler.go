package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

type CreateCategoryRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Slug  string `json:"slug" binding:"omitempty,max=255"`
}

// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.menu.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// POST /api/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindError(err)})
		return
	}

	category, err := h.menu.CreateCategory(c.Request.Context(), services.CategoryInput{Title: req.Title, Slug: req.Slug})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}
