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

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
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

	return cartService, user, product, testDB
}

func TestCartService_GetUserCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	// Initially empty
	items, err := cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 0)

	_, err = cartService.AddToCart(user.ID, product.ID, 2, "")
	require.NoError(t, err)

	items, err = cartService.GetUserCart(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_AddToCart_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 3, "engrave initials")
	assert.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "engrave initials", item.CustomizationNote)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, 9999, 1, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddToCart_InsufficientStock(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 100, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddToCart_ReplacesExisting(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 2, "first note")
	require.NoError(t, err)

	// Re-adding replaces quantity and note, it does not increment
	item, err := cartService.AddToCart(user.ID, product.ID, 3, "second note")
	assert.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "second note", item.CustomizationNote)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestCartService_AddToCart_ZeroQuantityRemoves(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 2, "")
	require.NoError(t, err)

	item, err := cartService.AddToCart(user.ID, product.ID, 0, "")
	assert.NoError(t, err)
	assert.Nil(t, item)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_AddToCart_ZeroQuantityAbsentIsNoop(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, -1, "")
	assert.NoError(t, err)
	assert.Nil(t, item)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_UpdateCartItem_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2, "")
	require.NoError(t, err)

	err = cartService.UpdateCartItem(user.ID, item.ID, 5)
	assert.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartService_UpdateCartItem_ZeroQuantityRemoves(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2, "")
	require.NoError(t, err)

	err = cartService.UpdateCartItem(user.ID, item.ID, 0)
	assert.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_UpdateCartItem_NotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	err := cartService.UpdateCartItem(user.ID, 9999, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_WrongUser(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	item, err := cartService.AddToCart(user.ID, product.ID, 2, "")
	require.NoError(t, err)

	err = cartService.UpdateCartItem(user.ID+100, item.ID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveFromCart_Success(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, product.ID, 2, "")
	require.NoError(t, err)

	err = cartService.RemoveFromCart(user.ID, product.ID)
	assert.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}

func TestCartService_RemoveFromCart_NotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	err := cartService.RemoveFromCart(user.ID, 9999)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	second := &model.Product{
		SellerID:      product.SellerID,
		Title:         "Woven Basket",
		Category:      model.CategoryTextiles,
		Price:         22.50,
		Currency:      "USD",
		StockQuantity: 5,
	}
	testDB.Create(second)

	_, err := cartService.AddToCart(user.ID, product.ID, 2, "")
	require.NoError(t, err)
	_, err = cartService.AddToCart(user.ID, second.ID, 1, "")
	require.NoError(t, err)

	err = cartService.ClearCart(user.ID)
	assert.NoError(t, err)

	items, _ := cartService.GetUserCart(user.ID)
	assert.Len(t, items, 0)
}
