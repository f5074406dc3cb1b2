package service

import (
	"errors"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint, quantity int, customizationNote string) (*model.CartItem, error)
	UpdateCartItem(userID, cartItemID uint, quantity int) error
	RemoveFromCart(userID, productID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// AddToCart upserts by (user, product): re-adding an in-cart product replaces
// its quantity and customization note rather than incrementing. A quantity of
// zero or less removes the row.
func (s *cartService) AddToCart(userID, productID uint, quantity int, customizationNote string) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	if quantity > 0 && product.StockQuantity < quantity {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"requested":  quantity,
			"available":  product.StockQuantity,
		})
		return nil, ErrInsufficientStock
	}

	existing, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart item", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	if quantity <= 0 {
		if existing == nil {
			return nil, nil
		}
		if err := s.cartRepo.Delete(existing.ID); err != nil {
			return nil, err
		}
		logger.Info("Cart item removed by zero quantity", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, nil
	}

	if existing != nil {
		existing.Quantity = quantity
		existing.CustomizationNote = customizationNote
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		existing.Product = *product
		return existing, nil
	}

	cartItem := &model.CartItem{
		UserID:            userID,
		ProductID:         productID,
		Quantity:          quantity,
		CustomizationNote: customizationNote,
	}
	if err := s.cartRepo.Create(cartItem); err != nil {
		return nil, err
	}
	cartItem.Product = *product

	logger.Info("Item added to cart successfully", map[string]interface{}{
		"user_id":      userID,
		"product_id":   productID,
		"cart_item_id": cartItem.ID,
	})
	return cartItem, nil
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) error {
	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
		})
		return ErrCartItemNotFound
	}

	if quantity <= 0 {
		return s.cartRepo.Delete(cartItem.ID)
	}

	cartItem.Quantity = quantity
	return s.cartRepo.Update(cartItem)
}

func (s *cartService) RemoveFromCart(userID, productID uint) error {
	cartItem, err := s.cartRepo.FindByUserAndProduct(userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	return s.cartRepo.Delete(cartItem.ID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.DeleteByUserID(userID)
}
