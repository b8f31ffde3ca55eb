package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AddGroupUserRequest struct {
	Username string `json:"username"`
}

// GET /api/groups/:group/users
func (h *Handler) ListGroupUsers(c *gin.Context) {
	members, err := h.groups.Members(c.Request.Context(), c.Param("group"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// POST /api/groups/:group/users
func (h *Handler) AddGroupUser(c *gin.Context) {
	var req AddGroupUserRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	if _, err := h.groups.Add(c.Request.Context(), c.Param("group"), req.Username); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// DELETE /api/groups/:group/users/:id
func (h *Handler) RemoveGroupUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.groups.Remove(c.Request.Context(), c.Param("group"), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
