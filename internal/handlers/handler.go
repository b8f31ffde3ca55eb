package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kelvinjchung/LittleLemon-api/internal/auth"
	"github.com/kelvinjchung/LittleLemon-api/internal/middlewares"
	"github.com/kelvinjchung/LittleLemon-api/internal/policy"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

const (
	msgNotAuthenticated = "Authentication credentials were not provided."
	msgForbidden        = "You do not have permission to perform this action."
)

var allMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

type Handler struct {
	menu   *services.MenuService
	carts  *services.CartService
	orders *services.OrderService
	groups *services.GroupService
}

func New(menu *services.MenuService, carts *services.CartService, orders *services.OrderService, groups *services.GroupService) *Handler {
	return &Handler{menu: menu, carts: carts, orders: orders, groups: groups}
}

// RegisterRoutes mounts the API on rg. The caller must already have run
// auth.Authenticate on the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	handle(rg, "/categories", policy.Categories, map[string]gin.HandlerFunc{
		http.MethodGet:  h.ListCategories,
		http.MethodPost: h.CreateCategory,
	})
	handle(rg, "/menu-items", policy.MenuItems, map[string]gin.HandlerFunc{
		http.MethodGet:  h.ListMenuItems,
		http.MethodPost: h.CreateMenuItem,
	})
	handle(rg, "/menu-items/:id", policy.MenuItem, map[string]gin.HandlerFunc{
		http.MethodGet:    h.GetMenuItem,
		http.MethodPut:    h.ReplaceMenuItem,
		http.MethodPatch:  h.PatchMenuItem,
		http.MethodDelete: h.DeleteMenuItem,
	})
	handle(rg, "/cart/menu-items", policy.Cart, map[string]gin.HandlerFunc{
		http.MethodGet:    h.ViewCart,
		http.MethodPost:   h.AddToCart,
		http.MethodDelete: h.ClearCart,
	})
	handle(rg, "/orders", policy.Orders, map[string]gin.HandlerFunc{
		http.MethodGet:  h.ListOrders,
		http.MethodPost: h.CreateOrder,
	})
	handle(rg, "/orders/:id", policy.Order, map[string]gin.HandlerFunc{
		http.MethodGet:    h.GetOrder,
		http.MethodPatch:  h.UpdateOrder,
		http.MethodDelete: h.DeleteOrder,
	})
	handle(rg, "/groups/:group/users", policy.GroupUsers, map[string]gin.HandlerFunc{
		http.MethodGet:  h.ListGroupUsers,
		http.MethodPost: h.AddGroupUser,
	})
	handle(rg, "/groups/:group/users/:id", policy.GroupUser, map[string]gin.HandlerFunc{
		http.MethodDelete: h.RemoveGroupUser,
	})
}

// handle registers every method on path behind the resource policy. Methods
// without a handler answer 405 once the policy has let them through.
func handle(rg *gin.RouterGroup, path string, resource policy.Resource, routes map[string]gin.HandlerFunc) {
	guard := authorize(resource)
	for _, method := range allMethods {
		fn, ok := routes[method]
		if !ok {
			fn = methodNotAllowed
		}
		rg.Handle(method, path, guard, fn)
	}
}

func authorize(resource policy.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgNotAuthenticated})
			return
		}
		if !policy.Allow(policy.RolesOf(user), resource, c.Request.Method) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}
		c.Next()
	}
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"message": fmt.Sprintf("Method %q not allowed.", c.Request.Method)})
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	if e, ok := services.AsError(err); ok {
		c.JSON(statusFor(e.Kind), gin.H{"message": e.Message})
		return
	}

	log.Printf("request %s: %s %s failed: %v", middlewares.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// bindOptionalJSON decodes the body into req. An empty body leaves req untouched.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindError(err)})
		return false
	}
	return true
}

// bindError turns a decoding or validation failure into a client message that
// does not expose Go type names.
func bindError(err error) string {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + ": This field is required."
		case "max":
			return field + ": Ensure this field has no more than " + fe.Param() + " characters."
		default:
			return field + ": Invalid value."
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return typeErr.Field + ": Invalid value."
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Malformed JSON request body."
	default:
		return "Invalid request body."
	}
}

// uintField reads an optional id sent either as 3 or "3".
func uintField(c *gin.Context, name string, n *json.Number) (*uint, bool) {
	if n == nil {
		return nil, true
	}
	v, err := strconv.ParseUint(n.String(), 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + ": A valid integer is required."})
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// intField reads an optional integer sent either as 2 or "2".
func intField(c *gin.Context, name string, n *json.Number) (*int, bool) {
	if n == nil {
		return nil, true
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + ": A valid integer is required."})
		return nil, false
	}
	return &v, true
}
