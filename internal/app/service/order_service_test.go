package service

import (
	"testing"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/app/repository"
	"github.com/narayanji/distributor-app/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderService(t *testing.T) (OrderService, repository.ProductRepository, repository.UserRepository) {
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	userRepo := repository.NewUserRepository(database)

	products := []model.Product{
		{SKU: "GJK-REG-250", Name: "Regular Gajak 250g", Category: "gajak", PricePerKg: 450, GSTPercent: 5},
		{SKU: "GJK-SPL-250", Name: "Special Gajak 250g", Category: "gajak", PricePerKg: 520, GSTPercent: 5},
	}
	for i := range products {
		require.NoError(t, productRepo.Create(&products[i]))
	}

	return NewOrderService(orderRepo, productRepo), productRepo, userRepo
}

func createTestUser(t *testing.T, users repository.UserRepository) *model.User {
	user := &model.User{Phone: "+919876543210", Name: "Sharma Distributors", Role: model.RoleDistributor}
	require.NoError(t, users.Create(user))
	return user
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, _, users := setupOrderService(t)
	user := createTestUser(t, users)

	order, err := svc.CreateOrder(user.ID, []model.CartLine{
		{SKU: "GJK-REG-250", QuantityKg: 2.5},
		{SKU: "GJK-SPL-250", QuantityKg: 1},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, order.Number)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 1645.0, order.Subtotal)
	assert.InDelta(t, 82.25, order.GSTAmount, 0.001)
	assert.InDelta(t, 1727.25, order.TotalAmount, 0.001)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 450.0, order.Items[0].PricePerKg)
	assert.Equal(t, 1125.0, order.Items[0].LineTotal)
	assert.Equal(t, "Special Gajak 250g", order.Items[1].Name)
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	svc, _, users := setupOrderService(t)
	user := createTestUser(t, users)

	_, err := svc.CreateOrder(user.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderService_CreateOrder_BelowMinQuantity(t *testing.T) {
	svc, _, users := setupOrderService(t)
	user := createTestUser(t, users)

	_, err := svc.CreateOrder(user.ID, []model.CartLine{
		{SKU: "GJK-REG-250", QuantityKg: 0.25},
	})
	assert.ErrorIs(t, err, ErrBelowMinQuantity)
}

func TestOrderService_CreateOrder_UnknownSKU(t *testing.T) {
	svc, _, users := setupOrderService(t)
	user := createTestUser(t, users)

	_, err := svc.CreateOrder(user.ID, []model.CartLine{
		{SKU: "GJK-NOPE-000", QuantityKg: 1},
	})
	assert.ErrorIs(t, err, ErrUnknownSKU)
}

func TestOrderService_CreateOrder_IgnoresClientPrices(t *testing.T) {
	svc, productRepo, users := setupOrderService(t)
	user := createTestUser(t, users)

	// Reprice after the client last saw the catalog; the order must use the
	// current price.
	product, err := productRepo.FindBySKU("GJK-REG-250")
	require.NoError(t, err)
	product.PricePerKg = 475
	require.NoError(t, productRepo.Update(product))

	order, err := svc.CreateOrder(user.ID, []model.CartLine{
		{SKU: "GJK-REG-250", QuantityKg: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 950.0, order.Subtotal)
	assert.Equal(t, 475.0, order.Items[0].PricePerKg)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	svc, _, users := setupOrderService(t)
	user := createTestUser(t, users)

	_, err := svc.CreateOrder(user.ID, []model.CartLine{{SKU: "GJK-REG-250", QuantityKg: 1}})
	require.NoError(t, err)
	_, err = svc.CreateOrder(user.ID, []model.CartLine{{SKU: "GJK-SPL-250", QuantityKg: 2}})
	require.NoError(t, err)

	orders, err := svc.GetUserOrders(user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderService_GetOrderByNumber_Ownership(t *testing.T) {
	svc, _, users := setupOrderService(t)
	user := createTestUser(t, users)

	other := &model.User{Phone: "+919812345678", Name: "Gupta Traders", Role: model.RoleDistributor}
	require.NoError(t, users.Create(other))

	order, err := svc.CreateOrder(user.ID, []model.CartLine{{SKU: "GJK-REG-250", QuantityKg: 1}})
	require.NoError(t, err)

	found, err := svc.GetOrderByNumber(user.ID, order.Number, false)
	require.NoError(t, err)
	assert.Equal(t, order.Number, found.Number)

	_, err = svc.GetOrderByNumber(other.ID, order.Number, false)
	assert.ErrorIs(t, err, ErrNotOrderOwner)

	// Admins can read anyone's order.
	_, err = svc.GetOrderByNumber(other.ID, order.Number, true)
	assert.NoError(t, err)

	_, err = svc.GetOrderByNumber(user.ID, "ORD-MISSING1", false)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	svc, _, users := setupOrderService(t)
	user := createTestUser(t, users)

	order, err := svc.CreateOrder(user.ID, []model.CartLine{{SKU: "GJK-REG-250", QuantityKg: 1}})
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(order.Number, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)

	_, err = svc.UpdateOrderStatus(order.Number, model.OrderStatus("cancelled"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = svc.UpdateOrderStatus("ORD-MISSING1", model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
