package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/internal/app/service"
	apperrors "github.com/amirtishiva/craftbiz-backend/internal/errors"
	"github.com/amirtishiva/craftbiz-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
	sellerService  service.SellerService
}

func NewProductController(productService service.ProductService, sellerService service.SellerService) *ProductController {
	return &ProductController{
		productService: productService,
		sellerService:  sellerService,
	}
}

type ProductRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	StockQuantity int      `json:"stock_quantity" binding:"gte=0"`
	Customizable  bool     `json:"customizable"`
	Materials     []string `json:"materials"`
	ImageURLs     []string `json:"image_urls"` // S3 URLs from upload API
}

// ListProducts runs a filtered marketplace search
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := parseProductFilter(c)

	result, err := ctrl.productService.Search(c.Request.Context(), filter)
	if err != nil {
		log.Error("Product search failed", err, map[string]interface{}{
			"search": filter.Search,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct returns one product and counts the view
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetTrending returns the cached trending product list
// GET /api/v1/products/trending
func (ctrl *ProductController) GetTrending(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.GetTrending(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch trending products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// CreateProduct creates a product for the authenticated seller
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sellerID, ok := ctrl.resolveSellerID(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product details")
		return
	}

	product := &model.Product{
		Title:         req.Title,
		Description:   req.Description,
		Category:      model.ProductCategory(req.Category),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Customizable:  req.Customizable,
		Materials:     req.Materials,
	}

	if err := ctrl.productService.CreateProduct(sellerID, product, req.ImageURLs); err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product the seller owns
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sellerID, ok := ctrl.resolveSellerID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product details")
		return
	}

	update := &model.Product{
		Title:         req.Title,
		Description:   req.Description,
		Category:      model.ProductCategory(req.Category),
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Customizable:  req.Customizable,
		Materials:     req.Materials,
	}

	product, err := ctrl.productService.UpdateProduct(sellerID, uint(id), update, req.ImageURLs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrProductAccessDenied):
			apperrors.Forbidden(c, "You can only edit your own products")
		default:
			log.Error("Failed to update product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product the seller owns
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sellerID, ok := ctrl.resolveSellerID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(sellerID, uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrProductAccessDenied):
			apperrors.Forbidden(c, "You can only delete your own products")
		default:
			log.Error("Failed to delete product", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// resolveSellerID maps the authenticated user to their seller profile ID
func (ctrl *ProductController) resolveSellerID(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return 0, false
	}

	profile, err := ctrl.sellerService.GetProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.Forbidden(c, "A seller profile is required")
			return 0, false
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "seller profile")
		return 0, false
	}
	return profile.ID, true
}

// parseProductFilter reads search parameters from the query string. Invalid
// numeric values are ignored rather than rejected so a partially bad URL
// still returns results.
func parseProductFilter(c *gin.Context) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search: strings.TrimSpace(c.Query("q")),
		SortBy: repository.ProductSort(c.DefaultQuery("sort", string(repository.ProductSortCreatedAt))),
	}

	if v := c.Query("category"); v != "" {
		cat := model.ProductCategory(v)
		filter.Category = &cat
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v := c.Query("materials"); v != "" {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				filter.Materials = append(filter.Materials, m)
			}
		}
	}
	if v, err := strconv.ParseFloat(c.Query("min_rating"), 64); err == nil {
		filter.MinRating = &v
	}
	if v, err := strconv.ParseBool(c.Query("customizable")); err == nil {
		filter.Customizable = &v
	}
	if v, err := strconv.ParseBool(c.Query("verified_seller")); err == nil {
		filter.VerifiedSeller = &v
	}
	if v, err := strconv.ParseUint(c.Query("seller_id"), 10, 32); err == nil {
		id := uint(v)
		filter.SellerID = &id
	}

	filter.SortAscending = c.Query("order") == "asc"

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	return filter
}
