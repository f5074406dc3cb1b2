package service

import (
	"context"
	"testing"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *model.SellerProfile, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	productService := NewProductService(productRepo)

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

	return productService, seller, testDB
}

func seedProducts(testDB *gorm.DB, sellerID uint) []model.Product {
	products := []model.Product{
		{SellerID: sellerID, Title: "Blue Ceramic Bowl", Category: model.CategoryCeramics, Price: 30, Currency: "USD", StockQuantity: 5},
		{SellerID: sellerID, Title: "Silver Ring", Category: model.CategoryJewelry, Price: 120, Currency: "USD", StockQuantity: 2, Customizable: true},
		{SellerID: sellerID, Title: "Ceramic Vase", Category: model.CategoryCeramics, Price: 75, Currency: "USD", StockQuantity: 3},
	}
	for i := range products {
		testDB.Create(&products[i])
	}
	return products
}

func TestProductService_Search_ByText(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	seedProducts(testDB, seller.ID)

	result, err := productService.Search(context.Background(), repository.ProductFilter{
		Search: "ceramic",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Len(t, result.Products, 2)
}

func TestProductService_Search_ByCategory(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	seedProducts(testDB, seller.ID)

	category := model.CategoryJewelry
	result, err := productService.Search(context.Background(), repository.ProductFilter{
		Category: &category,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "Silver Ring", result.Products[0].Title)
}

func TestProductService_Search_PriceRange(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	seedProducts(testDB, seller.ID)

	minPrice, maxPrice := 50.0, 100.0
	result, err := productService.Search(context.Background(), repository.ProductFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "Ceramic Vase", result.Products[0].Title)
}

func TestProductService_Search_Customizable(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	seedProducts(testDB, seller.ID)

	customizable := true
	result, err := productService.Search(context.Background(), repository.ProductFilter{
		Customizable: &customizable,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestProductService_Search_Pagination(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	seedProducts(testDB, seller.ID)

	result, err := productService.Search(context.Background(), repository.ProductFilter{
		Limit:  2,
		Offset: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Len(t, result.Products, 1)
	assert.Equal(t, 2, result.Limit)
	assert.Equal(t, 2, result.Offset)
}

func TestProductService_Search_DefaultsLimit(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	seedProducts(testDB, seller.ID)

	result, err := productService.Search(context.Background(), repository.ProductFilter{
		Limit: -5,
	})
	assert.NoError(t, err)
	assert.Equal(t, 20, result.Limit)
}

func TestProductService_GetProduct_CountsView(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	products := seedProducts(testDB, seller.ID)

	product, err := productService.GetProduct(products[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, products[0].Title, product.Title)

	var stored model.Product
	testDB.First(&stored, products[0].ID)
	assert.Equal(t, 1, stored.ViewCount)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	_, err := productService.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_CreateProduct_AttachesImages(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)

	product := &model.Product{
		Title:         "Carved Figurine",
		Category:      model.CategoryWoodwork,
		Price:         60,
		Currency:      "USD",
		StockQuantity: 4,
	}
	err := productService.CreateProduct(seller.ID, product, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	})
	assert.NoError(t, err)

	var images []model.ProductImage
	testDB.Where("product_id = ?", product.ID).Order("position").Find(&images)
	require.Len(t, images, 2)
	assert.True(t, images[0].IsPrimary)
	assert.False(t, images[1].IsPrimary)
}

func TestProductService_UpdateProduct_WrongSeller(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	products := seedProducts(testDB, seller.ID)

	_, err := productService.UpdateProduct(seller.ID+100, products[0].ID, &model.Product{Title: "Hijacked"}, nil)
	assert.ErrorIs(t, err, ErrProductAccessDenied)
}

func TestProductService_DeleteProduct_WrongSeller(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	products := seedProducts(testDB, seller.ID)

	err := productService.DeleteProduct(seller.ID+100, products[0].ID)
	assert.ErrorIs(t, err, ErrProductAccessDenied)
}

func TestProductService_DeleteProduct_Success(t *testing.T) {
	productService, seller, testDB := setupProductServiceTest(t)
	products := seedProducts(testDB, seller.ID)

	err := productService.DeleteProduct(seller.ID, products[0].ID)
	assert.NoError(t, err)

	_, err = productService.GetProduct(products[0].ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
