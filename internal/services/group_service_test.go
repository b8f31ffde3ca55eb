package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

func TestGroupService(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	bob := f.user(t, "bob")

	t.Run("Unknown group is not found", func(t *testing.T) {
		_, err := f.groups.Members(ctx, "bogus")
		assertKind(t, err, services.KindNotFound, "Invalid Group")
		_, err = f.groups.Add(ctx, "bogus", "bob")
		assertKind(t, err, services.KindNotFound, "Invalid Group")
		assertKind(t, f.groups.Remove(ctx, "bogus", bob.ID), services.KindNotFound, "Invalid Group")
	})

	t.Run("Add requires a known username", func(t *testing.T) {
		_, err := f.groups.Add(ctx, "manager", "")
		assertKind(t, err, services.KindValidation, "Must provide username")
		_, err = f.groups.Add(ctx, "manager", "nobody")
		assertKind(t, err, services.KindNotFound, "User does not exist")
	})

	t.Run("Add then list delivery crew", func(t *testing.T) {
		_, err := f.groups.Add(ctx, "delivery-crew", "bob")
		require.NoError(t, err)

		members, err := f.groups.Members(ctx, "delivery-crew")
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "bob", members[0].Username)

		managers, err := f.groups.Members(ctx, "manager")
		require.NoError(t, err)
		assert.Empty(t, managers)
	})

	t.Run("Remove checks membership", func(t *testing.T) {
		assertKind(t, f.groups.Remove(ctx, "manager", bob.ID), services.KindValidation, "User is not a Manager")
		assertKind(t, f.groups.Remove(ctx, "delivery-crew", 999), services.KindNotFound, "User does not exist")

		require.NoError(t, f.groups.Remove(ctx, "delivery-crew", bob.ID))
		got, err := f.users.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.False(t, got.HasRole(models.RoleDeliveryCrew))
	})
}
