package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kelvinjchung/LittleLemon-api/internal/auth"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

// AddToCartRequest accepts numbers or numeric strings, as form-style clients send both.
type AddToCartRequest struct {
	MenuItem *json.Number `json:"menuitem"`
	Quantity *json.Number `json:"quantity"`
}

// GET /api/cart/menu-items
func (h *Handler) ViewCart(c *gin.Context) {
	lines, err := h.carts.View(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// POST /api/cart/menu-items
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	menuItemID, ok := uintField(c, "menuitem", req.MenuItem)
	if !ok {
		return
	}
	quantity, ok := intField(c, "quantity", req.Quantity)
	if !ok {
		return
	}

	_, err := h.carts.Add(c.Request.Context(), auth.CurrentUser(c), services.CartInput{
		MenuItemID: menuItemID,
		Quantity:   quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Cart created"})
}

// DELETE /api/cart/menu-items
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), auth.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
