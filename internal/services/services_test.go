package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/db"
	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/notifier"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

type recorder struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (r *recorder) Notify(_ context.Context, ev notifier.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []notifier.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notifier.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	db     *gorm.DB
	store  *repository.Store
	users  *repository.Users
	menu   *services.MenuService
	carts  *services.CartService
	orders *services.OrderService
	groups *services.GroupService
	events *recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(testDB))

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewStore(testDB)
	users := repository.NewUsers(store)
	items := repository.NewMenuItems(store)
	carts := repository.NewCarts(store)
	orders := repository.NewOrders(store)
	events := &recorder{}

	return &fixture{
		db:     testDB,
		store:  store,
		users:  users,
		menu:   services.NewMenuService(items, repository.NewCategories(store)),
		carts:  services.NewCartService(carts, items),
		orders: services.NewOrderService(store, orders, carts, users, events),
		groups: services.NewGroupService(users),
		events: events,
	}
}

func (f *fixture) user(t *testing.T, name string, roles ...models.Role) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, f.users.Create(context.Background(), u))
	for _, role := range roles {
		require.NoError(t, f.users.AddRole(context.Background(), u.ID, role))
	}
	got, err := f.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) menuItem(t *testing.T, price string) *models.MenuItem {
	t.Helper()
	ctx := context.Background()
	category, err := f.menu.CreateCategory(ctx, services.CategoryInput{Title: "Mains " + price})
	require.NoError(t, err)

	title := "Dish " + price
	p := decimal.RequireFromString(price)
	item, err := f.menu.Create(ctx, services.MenuItemInput{Title: &title, Price: &p, CategoryID: &category.ID})
	require.NoError(t, err)
	return item
}

func ptr[T any](v T) *T { return &v }

func assertKind(t *testing.T, err error, kind services.Kind, message string) {
	t.Helper()
	e, ok := services.AsError(err)
	require.True(t, ok, "expected service error, got %v", err)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, message, e.Message)
}
