package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/auth"
	"github.com/kelvinjchung/LittleLemon-api/internal/db"
	"github.com/kelvinjchung/LittleLemon-api/internal/handlers"
	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/notifier"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

const (
	testJWTSecret     = "test-jwt-secret"
	testSessionSecret = "test-secret-key"
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	users  *repository.Users
}

func setupTestRouter(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err, "failed to connect test database")
	require.NoError(t, db.Migrate(testDB), "failed to auto-migrate models")

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewStore(testDB)
	users := repository.NewUsers(store)
	items := repository.NewMenuItems(store)
	carts := repository.NewCarts(store)
	orders := repository.NewOrders(store)
	dispatcher := notifier.NewDispatcher()

	h := handlers.New(
		services.NewMenuService(items, repository.NewCategories(store)),
		services.NewCartService(carts, items),
		services.NewOrderService(store, orders, carts, users, dispatcher),
		services.NewGroupService(users),
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sessions.Sessions(auth.SessionName, cookie.NewStore([]byte(testSessionSecret))))

	api := r.Group("/api")
	api.Use(auth.Authenticate(users, testJWTSecret))
	h.RegisterRoutes(api)

	t.Cleanup(dispatcher.Wait)
	return &testAPI{router: r, db: testDB, users: users}
}

func (a *testAPI) createUser(t *testing.T, username string, roles ...models.Role) *models.User {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, a.users.Create(ctx, u))
	for _, role := range roles {
		require.NoError(t, a.users.AddRole(ctx, u.ID, role))
	}
	return u
}

func (a *testAPI) createMenuItem(t *testing.T, title, price string) models.MenuItem {
	t.Helper()
	category := models.Category{Slug: "cat-" + title, Title: "Category " + title}
	require.NoError(t, a.db.Create(&category).Error)
	item := models.MenuItem{Title: title, Price: decimal.RequireFromString(price), CategoryID: category.ID}
	require.NoError(t, a.db.Create(&item).Error)
	return item
}

func newJSONRequest(method, path string, body interface{}) *http.Request {
	var reqBody []byte
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = []byte(b)
	default:
		reqBody, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// perform sends the request as user via a Bearer token; a nil user is anonymous.
func (a *testAPI) perform(t *testing.T, user *models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := newJSONRequest(method, path, body)
	if user != nil {
		token, err := auth.GenerateToken(user.ID, testJWTSecret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, req)
	return recorder
}

// performWithSession sends the request with a session cookie carrying userID.
func (a *testAPI) performWithSession(method, path string, body interface{}, userID uint) *httptest.ResponseRecorder {
	req := newJSONRequest(method, path, body)

	// Build the cookie through a throwaway context running the same session store.
	tempW := httptest.NewRecorder()
	tempC, _ := gin.CreateTestContext(tempW)
	tempC.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	sessions.Sessions(auth.SessionName, cookie.NewStore([]byte(testSessionSecret)))(tempC)
	_ = auth.SetSessionUser(tempC, userID)
	req.Header.Set("Cookie", tempW.Header().Get("Set-Cookie"))

	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return body.Message
}
