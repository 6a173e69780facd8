package repository

import (
	"testing"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRepo(t *testing.T) (OrderRepository, UserRepository) {
	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })
	return NewOrderRepository(database), NewUserRepository(database)
}

func testOrder(userID uint, number string) *model.Order {
	return &model.Order{
		Number:      number,
		UserID:      userID,
		Status:      model.OrderStatusPending,
		Subtotal:    1645,
		GSTAmount:   82.25,
		TotalAmount: 1727.25,
		Items: []model.OrderItem{
			{SKU: "GJK-REG-250", Name: "Regular Gajak 250g", QuantityKg: 2.5, PricePerKg: 450, GSTPercent: 5, LineTotal: 1125},
			{SKU: "GJK-SPL-250", Name: "Special Gajak 250g", QuantityKg: 1, PricePerKg: 520, GSTPercent: 5, LineTotal: 520},
		},
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	orders, users := setupOrderRepo(t)

	user := &model.User{Phone: "+919876543210", Name: "Sharma Distributors", Role: model.RoleDistributor}
	require.NoError(t, users.Create(user))

	order := testOrder(user.ID, "ORD-AB12CD34")
	require.NoError(t, orders.Create(order))

	found, err := orders.FindByNumber("ORD-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)
	assert.Equal(t, model.OrderStatusPending, found.Status)
	assert.Len(t, found.Items, 2)
	assert.Equal(t, 1727.25, found.TotalAmount)
}

func TestOrderRepository_FindByUserID(t *testing.T) {
	orders, users := setupOrderRepo(t)

	user := &model.User{Phone: "+919876543210", Name: "Sharma Distributors", Role: model.RoleDistributor}
	other := &model.User{Phone: "+919812345678", Name: "Gupta Traders", Role: model.RoleDistributor}
	require.NoError(t, users.Create(user))
	require.NoError(t, users.Create(other))

	require.NoError(t, orders.Create(testOrder(user.ID, "ORD-11111111")))
	require.NoError(t, orders.Create(testOrder(user.ID, "ORD-22222222")))
	require.NoError(t, orders.Create(testOrder(other.ID, "ORD-33333333")))

	mine, err := orders.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, user.ID, o.UserID)
		assert.NotEmpty(t, o.Items)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	orders, users := setupOrderRepo(t)

	user := &model.User{Phone: "+919876543210", Name: "Sharma Distributors", Role: model.RoleDistributor}
	require.NoError(t, users.Create(user))

	order := testOrder(user.ID, "ORD-AB12CD34")
	require.NoError(t, orders.Create(order))

	order.Status = model.OrderStatusShipped
	require.NoError(t, orders.Update(order))

	found, err := orders.FindByNumber("ORD-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, found.Status)
}

func TestOrderRepository_FindByNumber_NotFound(t *testing.T) {
	orders, _ := setupOrderRepo(t)

	_, err := orders.FindByNumber("ORD-MISSING1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
