package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/service"
	apperrors "github.com/amirtishiva/craftbiz-backend/internal/errors"
	"github.com/amirtishiva/craftbiz-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type SellerController struct {
	sellerService service.SellerService
}

func NewSellerController(sellerService service.SellerService) *SellerController {
	return &SellerController{
		sellerService: sellerService,
	}
}

type SellerProfileRequest struct {
	ShopName string `json:"shop_name" binding:"required"`
	Bio      string `json:"bio"`
	Region   string `json:"region"`
	Address  string `json:"address"`
}

type UpdateSellerProfileRequest struct {
	ShopName string `json:"shop_name"`
	Bio      string `json:"bio"`
	Region   string `json:"region"`
	Address  string `json:"address"`
}

// CreateProfile opens a shop for the authenticated user
// POST /api/v1/seller/profile
func (ctrl *SellerController) CreateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SellerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid shop details")
		return
	}

	profile, err := ctrl.sellerService.CreateProfile(userID, req.ShopName, req.Bio, req.Region, req.Address)
	if err != nil {
		if errors.Is(err, service.ErrSellerAlreadyExists) {
			apperrors.Conflict(c, apperrors.SellerProfileExists, "You already have a shop")
			return
		}
		log.Error("Failed to create seller profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "seller profile")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"profile": profile,
	})
}

// GetMyProfile returns the authenticated seller's shop
// GET /api/v1/seller/profile
func (ctrl *SellerController) GetMyProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	profile, err := ctrl.sellerService.GetProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerProfileNotFound, "Seller profile not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "seller profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

// GetProfileBySlug returns a public shop page
// GET /api/v1/sellers/:slug
func (ctrl *SellerController) GetProfileBySlug(c *gin.Context) {
	slug := c.Param("slug")

	profile, err := ctrl.sellerService.GetProfileBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerProfileNotFound, "Shop not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "seller profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

// UpdateProfile edits the authenticated seller's shop
// PUT /api/v1/seller/profile
func (ctrl *SellerController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateSellerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid shop details")
		return
	}

	profile, err := ctrl.sellerService.UpdateProfile(userID, req.ShopName, req.Bio, req.Region, req.Address)
	if err != nil {
		if errors.Is(err, service.ErrSellerNotFound) {
			apperrors.NotFound(c, apperrors.SellerProfileNotFound, "Seller profile not found")
			return
		}
		log.Error("Failed to update seller profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "seller profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

// GetDashboard returns shop stats and the seller's products
// GET /api/v1/seller/dashboard
func (ctrl *SellerController) GetDashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	stats, products, err := ctrl.sellerService.GetDashboard(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotSeller) {
			apperrors.Forbidden(c, "A seller profile is required")
			return
		}
		log.Error("Failed to build seller dashboard", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "dashboard")
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":    stats,
		"products": products,
	})
}

// ExportCatalog streams the seller's catalog as an XLSX download
// GET /api/v1/seller/export.xlsx
func (ctrl *SellerController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	data, err := ctrl.sellerService.ExportCatalogXLSX(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotSeller) {
			apperrors.Forbidden(c, "A seller profile is required")
			return
		}
		log.Error("Failed to export catalog", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "catalog export")
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
