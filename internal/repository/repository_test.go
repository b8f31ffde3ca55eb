package repository_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/db"
	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
)

func setupTestStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()

	// Named shared-cache database so every pooled connection sees the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := db.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err, "failed to connect test database")
	require.NoError(t, db.Migrate(testDB), "failed to auto-migrate models")

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return repository.NewStore(testDB), testDB
}

func seedMenuItem(t *testing.T, testDB *gorm.DB, price string) models.MenuItem {
	t.Helper()
	category := models.Category{Slug: "mains-" + price, Title: "Mains"}
	require.NoError(t, testDB.Create(&category).Error)
	item := models.MenuItem{Title: "Item " + price, Price: decimal.RequireFromString(price), CategoryID: category.ID}
	require.NoError(t, testDB.Create(&item).Error)
	return item
}

func TestUsersRoles(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestStore(t)
	users := repository.NewUsers(store)

	bob := models.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, users.Create(ctx, &bob))
	alice := models.User{Username: "alice"}
	require.NoError(t, users.Create(ctx, &alice))

	t.Run("Duplicate username is rejected", func(t *testing.T) {
		err := users.Create(ctx, &models.User{Username: "bob"})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("AddRole is idempotent and visible on lookup", func(t *testing.T) {
		require.NoError(t, users.AddRole(ctx, bob.ID, models.RoleDeliveryCrew))
		require.NoError(t, users.AddRole(ctx, bob.ID, models.RoleDeliveryCrew))

		got, err := users.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.True(t, got.HasRole(models.RoleDeliveryCrew))
		assert.False(t, got.HasRole(models.RoleManager))
		assert.Len(t, got.Roles, 1)
	})

	t.Run("ListByRole returns only members", func(t *testing.T) {
		crew, err := users.ListByRole(ctx, models.RoleDeliveryCrew)
		require.NoError(t, err)
		require.Len(t, crew, 1)
		assert.Equal(t, "bob", crew[0].Username)

		managers, err := users.ListByRole(ctx, models.RoleManager)
		require.NoError(t, err)
		assert.Empty(t, managers)
	})

	t.Run("RemoveRole reports missing membership", func(t *testing.T) {
		assert.ErrorIs(t, users.RemoveRole(ctx, alice.ID, models.RoleManager), repository.ErrNotFound)
		require.NoError(t, users.RemoveRole(ctx, bob.ID, models.RoleDeliveryCrew))

		got, err := users.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.False(t, got.HasRole(models.RoleDeliveryCrew))
	})

	t.Run("Unknown user is ErrNotFound", func(t *testing.T) {
		_, err := users.GetByID(ctx, 999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCartsOneLinePerUser(t *testing.T) {
	ctx := context.Background()
	store, testDB := setupTestStore(t)
	carts := repository.NewCarts(store)

	user := models.User{Username: "customer"}
	require.NoError(t, testDB.Create(&user).Error)
	item := seedMenuItem(t, testDB, "12.00")

	line := models.Cart{UserID: user.ID, MenuItemID: item.ID, Quantity: 2, UnitPrice: item.Price, Price: models.LinePrice(2, item.Price)}
	require.NoError(t, carts.Create(ctx, &line))

	second := models.Cart{UserID: user.ID, MenuItemID: item.ID, Quantity: 1, UnitPrice: item.Price, Price: item.Price}
	assert.ErrorIs(t, carts.Create(ctx, &second), repository.ErrDuplicate)

	got, err := carts.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, decimal.RequireFromString("24").Equal(got.Price))
	require.NotNil(t, got.MenuItem)
	assert.Equal(t, item.Title, got.MenuItem.Title)

	require.NoError(t, carts.DeleteByUser(ctx, user.ID))
	assert.ErrorIs(t, carts.DeleteByUser(ctx, user.ID), repository.ErrNotFound)
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store, testDB := setupTestStore(t)
	orders := repository.NewOrders(store)

	user := models.User{Username: "customer"}
	require.NoError(t, testDB.Create(&user).Error)

	boom := errors.New("boom")
	err := store.WithTransaction(ctx, func(ctx context.Context) error {
		o := models.Order{UserID: user.ID, Total: decimal.NewFromInt(10), Date: time.Now()}
		if err := orders.Create(ctx, &o); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	testDB.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOrdersListAndUpdate(t *testing.T) {
	ctx := context.Background()
	store, testDB := setupTestStore(t)
	orders := repository.NewOrders(store)

	owner := models.User{Username: "owner"}
	other := models.User{Username: "other"}
	crew := models.User{Username: "crew"}
	require.NoError(t, testDB.Create(&owner).Error)
	require.NoError(t, testDB.Create(&other).Error)
	require.NoError(t, testDB.Create(&crew).Error)

	mine := models.Order{UserID: owner.ID, Total: decimal.NewFromInt(5), Date: time.Now()}
	theirs := models.Order{UserID: other.ID, Total: decimal.NewFromInt(7), Date: time.Now(), DeliveryCrewID: &crew.ID}
	require.NoError(t, orders.Create(ctx, &mine))
	require.NoError(t, orders.Create(ctx, &theirs))

	t.Run("Filters by owner and by delivery crew", func(t *testing.T) {
		all, err := orders.List(ctx, repository.OrderFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		byOwner, err := orders.List(ctx, repository.OrderFilter{UserID: &owner.ID})
		require.NoError(t, err)
		require.Len(t, byOwner, 1)
		assert.Equal(t, mine.ID, byOwner[0].ID)

		byCrew, err := orders.List(ctx, repository.OrderFilter{DeliveryCrewID: &crew.ID})
		require.NoError(t, err)
		require.Len(t, byCrew, 1)
		assert.Equal(t, theirs.ID, byCrew[0].ID)
		require.NotNil(t, byCrew[0].DeliveryCrew)
		assert.Equal(t, "crew", byCrew[0].DeliveryCrew.Username)
	})

	t.Run("Update writes zero status and clears crew", func(t *testing.T) {
		theirs.Status = models.OrderStatusDelivered
		require.NoError(t, orders.Update(ctx, &theirs))

		theirs.Status = models.OrderStatusOutForDelivery
		theirs.DeliveryCrewID = nil
		require.NoError(t, orders.Update(ctx, &theirs))

		got, err := orders.GetByID(ctx, theirs.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusOutForDelivery, got.Status)
		assert.Nil(t, got.DeliveryCrewID)
	})

	t.Run("Delete removes order and items", func(t *testing.T) {
		item := seedMenuItem(t, testDB, "3.50")
		line := models.OrderItem{OrderID: mine.ID, MenuItemID: item.ID, Quantity: 1, UnitPrice: item.Price, Price: item.Price}
		require.NoError(t, orders.CreateItem(ctx, &line))

		require.NoError(t, orders.Delete(ctx, mine.ID))
		assert.ErrorIs(t, orders.Delete(ctx, mine.ID), repository.ErrNotFound)

		items, err := orders.ListItems(ctx, mine.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
