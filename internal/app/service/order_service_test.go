package service

import (
	"testing"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (OrderService, CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	orderService := NewOrderService(orderRepo, cartRepo, productRepo, testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Test Buyer",
		Role:         model.RoleBuyer,
	}
	testDB.Create(user)

	sellerUser := &model.User{
		Email:        "seller@example.com",
		PasswordHash: "hash",
		Name:         "Test Seller",
		Role:         model.RoleSeller,
	}
	testDB.Create(sellerUser)

	seller := &model.SellerProfile{
		UserID:   sellerUser.ID,
		ShopName: "Test Atelier",
		Slug:     "test-atelier",
		Region:   "Jaipur",
	}
	testDB.Create(seller)

	product := &model.Product{
		SellerID:      seller.ID,
		Title:         "Hand-painted Vase",
		Category:      model.CategoryCeramics,
		Price:         45.00,
		Currency:      "USD",
		StockQuantity: 10,
	}
	testDB.Create(product)

	return orderService, cartService, user, product, testDB
}

func TestOrderService_CreateOrderFromCart_Success(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 3, "gift wrap")
	require.NoError(t, err)

	order, err := orderService.CreateOrderFromCart(user.ID)
	assert.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, 135.00, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 45.00, order.Items[0].UnitPrice)
	assert.Equal(t, "gift wrap", order.Items[0].CustomizationNote)

	// Stock decremented
	var stored model.Product
	testDB.First(&stored, product.ID)
	assert.Equal(t, 7, stored.StockQuantity)

	// Cart cleared
	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestOrderService_CreateOrderFromCart_EmptyCart(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	_, err := orderService.CreateOrderFromCart(user.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_CreateOrderFromCart_InsufficientStock(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 5, "")
	require.NoError(t, err)

	// Stock drops below the carted quantity before checkout
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Update("stock_quantity", 2)

	_, err = orderService.CreateOrderFromCart(user.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing committed: stock untouched, cart kept
	var stored model.Product
	testDB.First(&stored, product.ID)
	assert.Equal(t, 2, stored.StockQuantity)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 1)
}

func TestOrderService_CreateOrderFromCart_SnapshotsPrice(t *testing.T) {
	orderService, cartService, user, product, testDB := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 1, "")
	require.NoError(t, err)

	order, err := orderService.CreateOrderFromCart(user.ID)
	require.NoError(t, err)

	// A later price change does not rewrite the order
	testDB.Model(&model.Product{}).Where("id = ?", product.ID).Update("price", 99.99)

	fetched, err := orderService.GetOrderByID(user.ID, order.ID)
	assert.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, 45.00, fetched.Items[0].UnitPrice)
}

func TestOrderService_GetOrderByID_WrongUser(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 1, "")
	require.NoError(t, err)
	order, err := orderService.CreateOrderFromCart(user.ID)
	require.NoError(t, err)

	_, err = orderService.GetOrderByID(user.ID+100, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderService, cartService, user, product, _ := setupOrderServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 1, "")
	require.NoError(t, err)
	order, err := orderService.CreateOrderFromCart(user.ID)
	require.NoError(t, err)

	err = orderService.UpdateOrderStatus(order.ID, model.OrderStatusShipped)
	assert.NoError(t, err)

	fetched, err := orderService.GetOrderByID(user.ID, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, fetched.Status)
}

func TestOrderService_UpdateOrderStatus_NotFound(t *testing.T) {
	orderService, _, _, _, _ := setupOrderServiceTest(t)

	err := orderService.UpdateOrderStatus(9999, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
