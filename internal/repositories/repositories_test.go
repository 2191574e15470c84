package repositories_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shop = "storefront"

func TestCorruptedCollectionFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryRecordStore()
	_, err := store.Set(ctx, shop, repositories.CollectionProducts, []byte(`{not json`))
	require.NoError(t, err)

	products := repositories.NewRecordProductRepository(store, shop)
	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	// A corrupted collection is not "absent", so seeding leaves it alone.
	seeded, err := products.SeedIfAbsent(ctx, []models.Product{{ID: 1, Name: "Smartphone X"}})
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestProductRepository_SeedOnce(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewRecordProductRepository(repositories.NewMemoryRecordStore(), shop)

	seeded, err := repo.SeedIfAbsent(ctx, []models.Product{{ID: 1, Name: "Smartphone X", Price: 49999}})
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = repo.SeedIfAbsent(ctx, []models.Product{{ID: 2, Name: "Other"}})
	require.NoError(t, err)
	assert.False(t, seeded)

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Smartphone X", p.Name)

	_, err = repo.GetByID(ctx, 2)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUserRepository_CreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewRecordUserRepository(repositories.NewMemoryRecordStore(), shop)
	at := time.UnixMilli(1700000000000)

	a := &models.User{Name: "A", Email: "a@x.com", CreatedAt: at}
	b := &models.User{Name: "B", Email: "b@x.com", CreatedAt: at}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.Equal(t, "1700000000000", a.ID)
	assert.Equal(t, "1700000000001", b.ID)
	assert.NotNil(t, a.Addresses)

	found, err := repo.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)
}

func TestUserRepository_DuplicateEmailLeavesUsersUnchanged(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryRecordStore()
	repo := repositories.NewRecordUserRepository(store, shop)
	require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "a@x.com"}))
	before, err := store.Get(ctx, shop, repositories.CollectionUsers)
	require.NoError(t, err)

	err = repo.Create(ctx, &models.User{Name: "A2", Email: "a@x.com"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	after, err := store.Get(ctx, shop, repositories.CollectionUsers)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Email matching is case sensitive.
	assert.NoError(t, repo.Create(ctx, &models.User{Name: "A3", Email: "A@x.com"}))
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewRecordUserRepository(repositories.NewMemoryRecordStore(), shop)
	a := &models.User{Name: "A", Email: "a@x.com"}
	b := &models.User{Name: "B", Email: "b@x.com"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	updated, err := repo.Update(ctx, a.ID, func(u *models.User) error {
		u.Name = "Alice"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)

	_, err = repo.Update(ctx, a.ID, func(u *models.User) error {
		u.Email = "b@x.com"
		return nil
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)

	_, err = repo.Update(ctx, "missing", func(*models.User) error { return nil })
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestOrderRepository_NewestFirstAndUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewRecordOrderRepository(repositories.NewMemoryRecordStore(), shop)
	at := time.UnixMilli(1700000000000)

	first := &models.Order{OrderDate: at, Status: models.OrderStatusPending}
	second := &models.Order{OrderDate: at, Status: models.OrderStatusPending}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "ORD-1700000000000", first.OrderID)
	assert.Equal(t, "ORD-1700000000001", second.OrderID)

	orders, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.OrderID, orders[0].OrderID)

	updated, err := repo.UpdateStatus(ctx, first.OrderID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	_, err = repo.UpdateStatus(ctx, "ORD-1", models.OrderStatusShipped)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewRecordNotificationRepository(repositories.NewMemoryRecordStore(), shop)

	require.NoError(t, repo.Push(ctx, &models.Notification{Message: "first"}))
	require.NoError(t, repo.Push(ctx, &models.Notification{Message: "second"}))

	feed, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "second", feed[0].Message)
	assert.NotEmpty(t, feed[0].ID)
	assert.False(t, feed[0].Timestamp.IsZero())

	n, err := repo.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = repo.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryRecordStore()
	repo := repositories.NewRecordSessionRepository(store)

	s, err := repo.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated)
	assert.Equal(t, "client-1", s.ClientID)

	err = repo.Save(ctx, models.AuthSession{
		ClientID:        "client-1",
		IsAuthenticated: true,
		CurrentUser:     &models.User{ID: "1", Name: "A"},
	})
	require.NoError(t, err)
	s, err = repo.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, "A", s.CurrentUser.Name)

	// An authenticated flag without a user is not restored.
	_, err = store.Set(ctx, "client-2", repositories.CollectionSession, []byte(`{"isAuthenticated":true}`))
	require.NoError(t, err)
	s, err = repo.Get(ctx, "client-2")
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated)

	require.NoError(t, repo.Delete(ctx, "client-1"))
	s, err = repo.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated)

	assert.Error(t, repo.Save(ctx, models.AuthSession{}))
}

func TestCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewRecordCartRepository(repositories.NewMemoryRecordStore())

	lines, err := repo.Update(ctx, "client-1", func(lines []models.CartLine) ([]models.CartLine, error) {
		return append(lines, models.CartLine{ID: 1, Quantity: 1}), nil
	})
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	lines, err = repo.Update(ctx, "client-1", func([]models.CartLine) ([]models.CartLine, error) {
		return nil, repositories.ErrSkipWrite
	})
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	other, err := repo.Get(ctx, "client-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, repo.Clear(ctx, "client-1"))
	lines, err = repo.Get(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}
