package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/service"
	apperrors "github.com/amirtishiva/craftbiz-backend/internal/errors"
	"github.com/amirtishiva/craftbiz-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CustomRequestController struct {
	requestService service.CustomRequestService
}

func NewCustomRequestController(requestService service.CustomRequestService) *CustomRequestController {
	return &CustomRequestController{
		requestService: requestService,
	}
}

type CreateCustomRequestRequest struct {
	SellerID    uint     `json:"seller_id" binding:"required"`
	ProductID   *uint    `json:"product_id"`
	Description string   `json:"description" binding:"required"`
	Budget      *float64 `json:"budget" binding:"omitempty,gt=0"`
}

type UpdateCustomRequestStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted declined done"`
}

// CreateRequest files a customization request with a seller
// POST /api/v1/custom-requests
func (ctrl *CustomRequestController) CreateRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateCustomRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request details")
		return
	}

	request, err := ctrl.requestService.Create(userID, req.SellerID, req.ProductID, req.Description, req.Budget)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSellerNotFound):
			apperrors.NotFound(c, apperrors.SellerProfileNotFound, "Seller not found")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found for this seller")
		default:
			log.Error("Failed to create custom request", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "custom request")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"request": request,
	})
}

// ListMyRequests returns the buyer's outgoing requests
// GET /api/v1/custom-requests
func (ctrl *CustomRequestController) ListMyRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	requests, err := ctrl.requestService.ListForBuyer(userID)
	if err != nil {
		log.Error("Failed to fetch custom requests", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "custom request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// ListIncomingRequests returns the seller's incoming requests, optionally
// filtered by status
// GET /api/v1/seller/custom-requests
func (ctrl *CustomRequestController) ListIncomingRequests(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var status *model.CustomRequestStatus
	if v := c.Query("status"); v != "" {
		st := model.CustomRequestStatus(v)
		status = &st
	}

	requests, err := ctrl.requestService.ListForSeller(userID, status)
	if err != nil {
		if errors.Is(err, service.ErrNotSeller) {
			apperrors.Forbidden(c, "A seller profile is required")
			return
		}
		log.Error("Failed to fetch incoming custom requests", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "custom request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// UpdateStatus moves a request through its lifecycle
// PUT /api/v1/seller/custom-requests/:id
func (ctrl *CustomRequestController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid request ID")
		return
	}

	var req UpdateCustomRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid status")
		return
	}

	request, err := ctrl.requestService.UpdateStatus(userID, uint(id), model.CustomRequestStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotSeller):
			apperrors.Forbidden(c, "A seller profile is required")
		case errors.Is(err, service.ErrCustomRequestNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Custom request not found")
		case errors.Is(err, service.ErrInvalidRequestStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid status")
		default:
			log.Error("Failed to update custom request", err, map[string]interface{}{
				"request_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "custom request")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
	})
}
