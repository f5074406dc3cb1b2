package repository

import (
	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

type CustomRequestRepository interface {
	Create(request *model.CustomRequest) error
	FindByID(id uint) (*model.CustomRequest, error)
	FindByUserID(userID uint) ([]model.CustomRequest, error)
	FindBySellerID(sellerID uint, status *model.CustomRequestStatus) ([]model.CustomRequest, error)
	Update(request *model.CustomRequest) error
}

type customRequestRepository struct {
	db *gorm.DB
}

func NewCustomRequestRepository(db *gorm.DB) CustomRequestRepository {
	return &customRequestRepository{db: db}
}

func (r *customRequestRepository) Create(request *model.CustomRequest) error {
	if err := r.db.Create(request).Error; err != nil {
		logger.Error("Failed to create custom request in database", err, map[string]interface{}{
			"user_id":   request.UserID,
			"seller_id": request.SellerID,
		})
		return err
	}
	return nil
}

func (r *customRequestRepository) FindByID(id uint) (*model.CustomRequest, error) {
	var request model.CustomRequest
	err := r.db.
		Preload("Seller").
		Preload("Product").
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *customRequestRepository) FindByUserID(userID uint) ([]model.CustomRequest, error) {
	var requests []model.CustomRequest
	err := r.db.Where("user_id = ?", userID).
		Preload("Seller").
		Preload("Product").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *customRequestRepository) FindBySellerID(sellerID uint, status *model.CustomRequestStatus) ([]model.CustomRequest, error) {
	query := r.db.Where("seller_id = ?", sellerID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []model.CustomRequest
	err := query.
		Preload("Product").
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		logger.Error("Failed to find custom requests by seller ID in database", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}
	return requests, nil
}

func (r *customRequestRepository) Update(request *model.CustomRequest) error {
	if err := r.db.Save(request).Error; err != nil {
		logger.Error("Failed to update custom request in database", err, map[string]interface{}{
			"request_id": request.ID,
		})
		return err
	}
	return nil
}
