package repository

import (
	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortRelevance ProductSort = "relevance"
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortRating    ProductSort = "rating"
	ProductSortViewCount ProductSort = "view_count"
)

// ProductFilter shapes the marketplace search query. All filtering and
// sorting happens in the database, not in the caller.
type ProductFilter struct {
	Search         string
	Category       *model.ProductCategory
	SellerID       *uint
	MinPrice       *float64
	MaxPrice       *float64
	Materials      []string
	MinRating      *float64
	Customizable   *bool
	VerifiedSeller *bool
	SortBy         ProductSort
	SortAscending  bool
	Limit          int
	Offset         int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindBySellerID(sellerID uint) ([]model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	Update(product *model.Product) error
	Delete(id uint) error
	IncrementViewCount(id uint) error
	ReplaceImages(productID uint, images []model.ProductImage) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"seller_id": product.SellerID,
			"title":     product.Title,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Seller").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySellerID(sellerID uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("seller_id = ?", sellerID).
		Preload("Images").
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Searching products", map[string]interface{}{
		"search":   filter.Search,
		"category": filter.Category,
		"sort_by":  filter.SortBy,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.db.Model(&model.Product{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if len(filter.Materials) > 0 {
		// Overlap: the product carries at least one requested material
		query = query.Where("materials && ?", pq.Array(filter.Materials))
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.Customizable != nil {
		query = query.Where("customizable = ?", *filter.Customizable)
	}
	if filter.VerifiedSeller != nil {
		query = query.Joins("JOIN seller_profiles ON seller_profiles.id = products.seller_id").
			Where("seller_profiles.verified = ?", *filter.VerifiedSeller)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("price " + direction)
	case ProductSortRating:
		query = query.Order("rating " + direction)
	case ProductSortViewCount:
		query = query.Order("view_count " + direction)
	case ProductSortCreatedAt, ProductSortRelevance:
		fallthrough
	default:
		query = query.Order("created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	err := query.
		Preload("Seller").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to search products", err)
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func (r *productRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *productRepository) ReplaceImages(productID uint, images []model.ProductImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ProductID = productID
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}
