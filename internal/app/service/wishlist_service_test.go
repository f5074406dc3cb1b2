package service

import (
	"testing"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWishlistServiceTest(t *testing.T) (WishlistService, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	wishlistRepo := repository.NewWishlistRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	wishlistService := NewWishlistService(wishlistRepo, productRepo)

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
		Title:         "Silver Pendant",
		Category:      model.CategoryJewelry,
		Price:         80.00,
		Currency:      "USD",
		StockQuantity: 3,
	}
	testDB.Create(product)

	return wishlistService, user, product
}

func TestWishlistService_Toggle_AddsThenRemoves(t *testing.T) {
	wishlistService, user, product := setupWishlistServiceTest(t)

	inWishlist, err := wishlistService.Toggle(user.ID, product.ID)
	assert.NoError(t, err)
	assert.True(t, inWishlist)

	inWishlist, err = wishlistService.Toggle(user.ID, product.ID)
	assert.NoError(t, err)
	assert.False(t, inWishlist)

	items, err := wishlistService.GetUserWishlist(user.ID)
	assert.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestWishlistService_Toggle_ProductNotFound(t *testing.T) {
	wishlistService, user, _ := setupWishlistServiceTest(t)

	_, err := wishlistService.Toggle(user.ID, 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_GetWishlistProductIDs(t *testing.T) {
	wishlistService, user, product := setupWishlistServiceTest(t)

	_, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)

	ids, err := wishlistService.GetWishlistProductIDs(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, []uint{product.ID}, ids)
}

func TestWishlistService_Remove_Success(t *testing.T) {
	wishlistService, user, product := setupWishlistServiceTest(t)

	_, err := wishlistService.Toggle(user.ID, product.ID)
	require.NoError(t, err)

	err = wishlistService.Remove(user.ID, product.ID)
	assert.NoError(t, err)

	items, _ := wishlistService.GetUserWishlist(user.ID)
	assert.Len(t, items, 0)
}

func TestWishlistService_Remove_NotFound(t *testing.T) {
	wishlistService, user, product := setupWishlistServiceTest(t)

	err := wishlistService.Remove(user.ID, product.ID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}
