package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kelvinjchung/LittleLemon-api/internal/auth"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

type UpdateOrderRequest struct {
	Status       *json.Number `json:"status"`
	DeliveryCrew *json.Number `json:"delivery_crew"`
}

// GET /api/orders
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// POST /api/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	order, err := h.orders.Create(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.orders.Items(c.Request.Context(), auth.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// PATCH /api/orders/:id
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	status, ok := intField(c, "status", req.Status)
	if !ok {
		return
	}
	crew, ok := uintField(c, "delivery_crew", req.DeliveryCrew)
	if !ok {
		return
	}

	_, err := h.orders.Update(c.Request.Context(), auth.CurrentUser(c), id, services.OrderPatch{
		Status:       status,
		DeliveryCrew: crew,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}

// DELETE /api/orders/:id
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
