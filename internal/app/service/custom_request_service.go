package service

import (
	"errors"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCustomRequestNotFound = errors.New("custom request not found")
	ErrInvalidRequestStatus  = errors.New("invalid custom request status")
)

type CustomRequestService interface {
	Create(userID, sellerID uint, productID *uint, description string, budget *float64) (*model.CustomRequest, error)
	ListForBuyer(userID uint) ([]model.CustomRequest, error)
	ListForSeller(sellerUserID uint, status *model.CustomRequestStatus) ([]model.CustomRequest, error)
	UpdateStatus(sellerUserID, requestID uint, status model.CustomRequestStatus) (*model.CustomRequest, error)
}

type customRequestService struct {
	requestRepo repository.CustomRequestRepository
	sellerRepo  repository.SellerRepository
	productRepo repository.ProductRepository
	notifier    Notifier
}

// Notifier decouples the service from the websocket hub; the notification
// service satisfies it.
type Notifier interface {
	NotifyUser(userID uint, eventType string, payload interface{})
}

func NewCustomRequestService(
	requestRepo repository.CustomRequestRepository,
	sellerRepo repository.SellerRepository,
	productRepo repository.ProductRepository,
	notifier Notifier,
) CustomRequestService {
	return &customRequestService{
		requestRepo: requestRepo,
		sellerRepo:  sellerRepo,
		productRepo: productRepo,
		notifier:    notifier,
	}
}

func (s *customRequestService) Create(userID, sellerID uint, productID *uint, description string, budget *float64) (*model.CustomRequest, error) {
	logger.Info("Creating custom request", map[string]interface{}{
		"user_id":   userID,
		"seller_id": sellerID,
	})

	seller, err := s.sellerRepo.FindByID(sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	if productID != nil {
		product, err := s.productRepo.FindByID(*productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if product.SellerID != sellerID {
			return nil, ErrProductNotFound
		}
	}

	request := &model.CustomRequest{
		UserID:      userID,
		SellerID:    sellerID,
		ProductID:   productID,
		Description: description,
		Budget:      budget,
		Status:      model.CustomRequestPending,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(seller.UserID, "custom_request", map[string]interface{}{
			"request_id": request.ID,
			"status":     request.Status,
		})
	}

	logger.Info("Custom request created", map[string]interface{}{
		"request_id": request.ID,
		"user_id":    userID,
		"seller_id":  sellerID,
	})
	return request, nil
}

func (s *customRequestService) ListForBuyer(userID uint) ([]model.CustomRequest, error) {
	return s.requestRepo.FindByUserID(userID)
}

func (s *customRequestService) ListForSeller(sellerUserID uint, status *model.CustomRequestStatus) ([]model.CustomRequest, error) {
	profile, err := s.sellerRepo.FindByUserID(sellerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotSeller
		}
		return nil, err
	}
	return s.requestRepo.FindBySellerID(profile.ID, status)
}

// UpdateStatus lets the owning seller move a request through its lifecycle.
// The requesting buyer is notified of the change.
func (s *customRequestService) UpdateStatus(sellerUserID, requestID uint, status model.CustomRequestStatus) (*model.CustomRequest, error) {
	switch status {
	case model.CustomRequestAccepted, model.CustomRequestDeclined, model.CustomRequestDone:
	default:
		return nil, ErrInvalidRequestStatus
	}

	profile, err := s.sellerRepo.FindByUserID(sellerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotSeller
		}
		return nil, err
	}

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomRequestNotFound
		}
		return nil, err
	}

	if request.SellerID != profile.ID {
		logger.Warn("Custom request ownership mismatch", map[string]interface{}{
			"request_id": requestID,
			"seller_id":  profile.ID,
		})
		return nil, ErrCustomRequestNotFound
	}

	request.Status = status
	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(request.UserID, "custom_request", map[string]interface{}{
			"request_id": request.ID,
			"status":     request.Status,
		})
	}

	logger.Info("Custom request status updated", map[string]interface{}{
		"request_id": request.ID,
		"status":     status,
	})
	return request, nil
}
