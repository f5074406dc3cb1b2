package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"github.com/amirtishiva/craftbiz-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrProductAccessDenied = errors.New("product access denied")
)

const (
	searchCacheTTL      = 5 * time.Minute
	trendingCacheKey    = "trending:products"
	trendingCacheTTL    = time.Hour
	trendingDefaultSize = 12
)

// SearchResult is one page of marketplace search results
type SearchResult struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

type ProductService interface {
	Search(ctx context.Context, filter repository.ProductFilter) (*SearchResult, error)
	GetProduct(id uint) (*model.Product, error)
	GetTrending(ctx context.Context) ([]model.Product, error)
	RefreshTrending(ctx context.Context) error
	CreateProduct(sellerID uint, product *model.Product, imageURLs []string) error
	UpdateProduct(sellerID, productID uint, update *model.Product, imageURLs []string) (*model.Product, error)
	DeleteProduct(sellerID, productID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Search runs a filtered marketplace query and caches the successful page in
// redis. The cache is a read-through convenience for repeat queries, not a
// source of truth; a miss always hits the database.
func (s *productService) Search(ctx context.Context, filter repository.ProductFilter) (*SearchResult, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	cacheKey := searchCacheKey(filter)
	var cached SearchResult
	if hit, err := redis.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		logger.Debug("Search cache hit", map[string]interface{}{
			"key": cacheKey,
		})
		return &cached, nil
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Product search failed", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	result := &SearchResult{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}

	if err := redis.CacheJSON(ctx, cacheKey, result, searchCacheTTL); err != nil {
		logger.Warn("Failed to cache search result", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}

	logger.Info("Product search completed", map[string]interface{}{
		"search": filter.Search,
		"total":  total,
		"count":  len(products),
	})
	return result, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.productRepo.IncrementViewCount(id); err != nil {
		logger.Warn("Failed to increment product view count", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
	}

	return product, nil
}

// GetTrending serves the cached trending list, falling back to a live query
// when the cache is cold
func (s *productService) GetTrending(ctx context.Context) ([]model.Product, error) {
	var cached []model.Product
	if hit, err := redis.GetJSON(ctx, trendingCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	products, _, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		SortBy: repository.ProductSortViewCount,
		Limit:  trendingDefaultSize,
	})
	if err != nil {
		return nil, err
	}

	if err := redis.CacheJSON(ctx, trendingCacheKey, products, trendingCacheTTL); err != nil {
		logger.Warn("Failed to cache trending products", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return products, nil
}

// RefreshTrending recomputes the trending list. Called by the cron scheduler.
func (s *productService) RefreshTrending(ctx context.Context) error {
	products, _, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		SortBy: repository.ProductSortViewCount,
		Limit:  trendingDefaultSize,
	})
	if err != nil {
		logger.Error("Failed to refresh trending products", err)
		return err
	}

	if err := redis.CacheJSON(ctx, trendingCacheKey, products, trendingCacheTTL); err != nil {
		return err
	}

	logger.Info("Trending products refreshed", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (s *productService) CreateProduct(sellerID uint, product *model.Product, imageURLs []string) error {
	product.SellerID = sellerID

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	if len(imageURLs) > 0 {
		images := buildImages(imageURLs)
		if err := s.productRepo.ReplaceImages(product.ID, images); err != nil {
			logger.Error("Failed to attach product images", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return err
		}
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"seller_id":  sellerID,
	})
	return nil
}

func (s *productService) UpdateProduct(sellerID, productID uint, update *model.Product, imageURLs []string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.SellerID != sellerID {
		logger.Warn("Product update denied: seller mismatch", map[string]interface{}{
			"product_id": productID,
			"seller_id":  sellerID,
			"owner_id":   product.SellerID,
		})
		return nil, ErrProductAccessDenied
	}

	product.Title = update.Title
	product.Description = update.Description
	product.Category = update.Category
	product.Price = update.Price
	product.StockQuantity = update.StockQuantity
	product.Customizable = update.Customizable
	product.Materials = update.Materials

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	if imageURLs != nil {
		if err := s.productRepo.ReplaceImages(product.ID, buildImages(imageURLs)); err != nil {
			return nil, err
		}
	}

	return product, nil
}

func (s *productService) DeleteProduct(sellerID, productID uint) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if product.SellerID != sellerID {
		return ErrProductAccessDenied
	}

	return s.productRepo.Delete(productID)
}

func buildImages(urls []string) []model.ProductImage {
	images := make([]model.ProductImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, model.ProductImage{
			URL:       url,
			Position:  i,
			IsPrimary: i == 0,
		})
	}
	return images
}

// searchCacheKey hashes the filter so equivalent queries share a cache entry
func searchCacheKey(filter repository.ProductFilter) string {
	raw := fmt.Sprintf("%s|%v|%v|%v|%v|%v|%v|%v|%v|%s|%v|%d|%d",
		filter.Search, filter.Category, filter.SellerID,
		filter.MinPrice, filter.MaxPrice, filter.Materials,
		filter.MinRating, filter.Customizable, filter.VerifiedSeller,
		filter.SortBy, filter.SortAscending, filter.Limit, filter.Offset)
	sum := sha256.Sum256([]byte(raw))
	return "search:" + hex.EncodeToString(sum[:8])
}
