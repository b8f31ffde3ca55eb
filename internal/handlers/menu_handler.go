package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

type MenuItemRequest struct {
	Title      *string          `json:"title"`
	Price      *decimal.Decimal `json:"price"`
	Featured   *bool            `json:"featured"`
	CategoryID *uint            `json:"category_id"`
}

func (r MenuItemRequest) input() services.MenuItemInput {
	return services.MenuItemInput{
		Title:      r.Title,
		Price:      r.Price,
		Featured:   r.Featured,
		CategoryID: r.CategoryID,
	}
}

// GET /api/menu-items
func (h *Handler) ListMenuItems(c *gin.Context) {
	items, err := h.menu.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/menu-items
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindError(err)})
		return
	}

	item, err := h.menu.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GET /api/menu-items/:id
func (h *Handler) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.menu.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// PUT /api/menu-items/:id
func (h *Handler) ReplaceMenuItem(c *gin.Context) {
	h.updateMenuItem(c, h.menu.Replace)
}

// PATCH /api/menu-items/:id
func (h *Handler) PatchMenuItem(c *gin.Context) {
	h.updateMenuItem(c, h.menu.Patch)
}

func (h *Handler) updateMenuItem(c *gin.Context, update func(ctx context.Context, id uint, in services.MenuItemInput) (*models.MenuItem, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req MenuItemRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	item, err := update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/menu-items/:id
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.menu.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
