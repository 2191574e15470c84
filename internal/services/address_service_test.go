package services_test

import (
	"context"
	"testing"

	"storefront/internal/apperrors"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homeAddress() models.Address {
	return models.Address{
		Type:       "Home",
		Street:     "12 Rue Didouche",
		City:       "Algiers",
		State:      "Algiers",
		PostalCode: "16000",
	}
}

func TestAddressService_RequiresLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.addresses.List(ctx, "guest")
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	_, err = f.addresses.Add(ctx, "guest", homeAddress())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestAddressService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	session := f.signup(t, "client-1", "Amina", "amina@example.com", "pw")

	home, err := f.addresses.Add(ctx, "client-1", homeAddress())
	require.NoError(t, err)
	assert.NotEmpty(t, home.ID)

	work := homeAddress()
	work.Type = "Work"
	workAddr, err := f.addresses.Add(ctx, "client-1", work)
	require.NoError(t, err)
	assert.NotEqual(t, home.ID, workAddr.ID)

	moved := homeAddress()
	moved.City = "Oran"
	updated, err := f.addresses.Update(ctx, "client-1", home.ID, moved)
	require.NoError(t, err)
	assert.Equal(t, home.ID, updated.ID)
	assert.Equal(t, "Oran", updated.City)

	list, err := f.addresses.List(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Oran", list[0].City)

	// The session copy follows the stored user.
	current, err := f.auth.RequireUser(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, current.Addresses, 2)

	stored, err := f.users.GetByID(ctx, session.CurrentUser.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Addresses, 2)

	remaining, err := f.addresses.Delete(ctx, "client-1", home.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, workAddr.ID, remaining[0].ID)

	_, err = f.addresses.Delete(ctx, "client-1", home.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	_, err = f.addresses.Update(ctx, "client-1", "missing", moved)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestAddressService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signup(t, "client-1", "Amina", "amina@example.com", "pw")

	incomplete := homeAddress()
	incomplete.PostalCode = ""
	_, err := f.addresses.Add(ctx, "client-1", incomplete)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	list, err := f.addresses.List(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
