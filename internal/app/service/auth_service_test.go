package service

import (
	"testing"
	"time"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/internal/db"
	"github.com/amirtishiva/craftbiz-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	wishlistRepo := repository.NewWishlistRepository(testDB)
	pushRepo := repository.NewPushSubscriptionRepository(testDB)
	sellerRepo := repository.NewSellerRepository(testDB)
	authService := NewAuthService(userRepo, cartRepo, wishlistRepo, pushRepo, sellerRepo, testJWTSecret, time.Hour, 24*time.Hour)

	return authService, testDB
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("maker@example.com", "password123", "Maker", model.RoleBuyer)
	assert.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleBuyer, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Register_CoercesUnknownRole(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("sneaky@example.com", "password123", "Sneaky", model.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleBuyer, user.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("maker@example.com", "password123", "Maker", model.RoleBuyer)
	require.NoError(t, err)

	_, _, err = authService.Register("maker@example.com", "different", "Other", model.RoleBuyer)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("maker@example.com", "password123", "Maker", model.RoleBuyer)
	require.NoError(t, err)

	user, tokens, err := authService.Login("maker@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "maker@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("maker@example.com", "password123", "Maker", model.RoleBuyer)
	require.NoError(t, err)

	_, _, err = authService.Login("maker@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register("maker@example.com", "password123", "Maker", model.RoleBuyer)
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, "New Name", "https://cdn.example.com/avatar.png")
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "https://cdn.example.com/avatar.png", updated.AvatarURL)

	// Empty fields leave existing values alone
	updated, err = authService.UpdateProfile(user.ID, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestAuthService_DeleteAccount_CascadesLocalState(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user, _, err := authService.Register("maker@example.com", "password123", "Maker", model.RoleBuyer)
	require.NoError(t, err)

	sellerUser := &model.User{Email: "seller@example.com", PasswordHash: "hash", Name: "Seller", Role: model.RoleSeller}
	testDB.Create(sellerUser)
	seller := &model.SellerProfile{UserID: sellerUser.ID, ShopName: "Shop", Slug: "shop", Region: "Jaipur"}
	testDB.Create(seller)
	product := &model.Product{SellerID: seller.ID, Title: "Bowl", Category: model.CategoryCeramics, Price: 30, Currency: "USD", StockQuantity: 5}
	testDB.Create(product)

	testDB.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	testDB.Create(&model.WishlistItem{UserID: user.ID, ProductID: product.ID})

	err = authService.DeleteAccount(user.ID)
	assert.NoError(t, err)

	_, err = authService.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var cartCount, wishlistCount int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&cartCount)
	testDB.Model(&model.WishlistItem{}).Where("user_id = ?", user.ID).Count(&wishlistCount)
	assert.Zero(t, cartCount)
	assert.Zero(t, wishlistCount)
}

func TestAuthService_GetUserByID_NotFound(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
