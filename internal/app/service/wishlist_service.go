package service

import (
	"errors"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

type WishlistService interface {
	GetUserWishlist(userID uint) ([]model.WishlistItem, error)
	GetWishlistProductIDs(userID uint) ([]uint, error)
	Toggle(userID, productID uint) (bool, error)
	Remove(userID, productID uint) error
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) GetUserWishlist(userID uint) ([]model.WishlistItem, error) {
	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user wishlist", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return items, nil
}

func (s *wishlistService) GetWishlistProductIDs(userID uint) ([]uint, error) {
	return s.wishlistRepo.FindProductIDsByUserID(userID)
}

// Toggle flips membership and reports the resulting state: true when the
// product is now in the wishlist, false when the call removed it.
func (s *wishlistService) Toggle(userID, productID uint) (bool, error) {
	logger.Info("Toggling wishlist item", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}

	existing, err := s.wishlistRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing wishlist item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	if existing != nil {
		if err := s.wishlistRepo.Delete(userID, productID); err != nil {
			return false, err
		}
		logger.Info("Wishlist item removed", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, nil
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlistRepo.Create(item); err != nil {
		return false, err
	}

	logger.Info("Wishlist item added", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return true, nil
}

func (s *wishlistService) Remove(userID, productID uint) error {
	if _, err := s.wishlistRepo.FindByUserAndProduct(userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWishlistItemNotFound
		}
		return err
	}
	return s.wishlistRepo.Delete(userID, productID)
}
