package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const shop = "storefront"

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// fixture wires every service against one in-memory record store.
type fixture struct {
	store         *repositories.MemoryRecordStore
	users         repositories.UserRepository
	orderRepo     repositories.OrderRepository
	notifications *services.NotificationService
	catalog       *services.CatalogService
	auth          *services.AuthService
	carts         *services.CartService
	orders        *services.OrderService
	addresses     *services.AddressService
}

// newFixture seeds products, or the default catalog when none are given.
func newFixture(t *testing.T, products ...models.Product) *fixture {
	return newFixtureWithPublisher(t, nil, products...)
}

func newFixtureWithPublisher(t *testing.T, publisher services.EventPublisher, products ...models.Product) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMemoryRecordStore()

	users := repositories.NewRecordUserRepository(store, shop)
	productRepo := repositories.NewRecordProductRepository(store, shop)
	categoryRepo := repositories.NewRecordCategoryRepository(store, shop)
	orderRepo := repositories.NewRecordOrderRepository(store, shop)
	cartRepo := repositories.NewRecordCartRepository(store)
	sessionRepo := repositories.NewRecordSessionRepository(store)

	notifications := services.NewNotificationService(repositories.NewRecordNotificationRepository(store, shop))
	catalog := services.NewCatalogService(productRepo, categoryRepo)
	if len(products) > 0 {
		_, err := productRepo.SeedIfAbsent(ctx, products)
		require.NoError(t, err)
	}
	require.NoError(t, catalog.Seed(ctx))

	auth := services.NewAuthService(users, sessionRepo, cartRepo, notifications, testJWTSecret)
	carts := services.NewCartService(cartRepo, productRepo)
	return &fixture{
		store:         store,
		users:         users,
		orderRepo:     orderRepo,
		notifications: notifications,
		catalog:       catalog,
		auth:          auth,
		carts:         carts,
		orders:        services.NewOrderService(orderRepo, carts, auth, notifications, publisher),
		addresses:     services.NewAddressService(users, auth),
	}
}

func (f *fixture) signup(t *testing.T, clientID, name, email, password string) *models.AuthSession {
	t.Helper()
	session, err := f.auth.Signup(context.Background(), clientID, services.SignupRequest{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	return session
}

func validShipping() services.ShippingForm {
	return services.ShippingForm{
		FullName:   "Amina B",
		Phone:      "0550000000",
		Email:      "amina@example.com",
		Address:    "12 Rue Didouche",
		City:       "Algiers",
		State:      "Algiers",
		PostalCode: "16000",
	}
}
