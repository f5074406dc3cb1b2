package repository

import (
	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

type SellerRepository interface {
	Create(profile *model.SellerProfile) error
	FindByID(id uint) (*model.SellerProfile, error)
	FindByUserID(userID uint) (*model.SellerProfile, error)
	FindBySlug(slug string) (*model.SellerProfile, error)
	Update(profile *model.SellerProfile) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(profile *model.SellerProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		logger.Error("Failed to create seller profile in database", err, map[string]interface{}{
			"user_id":   profile.UserID,
			"shop_name": profile.ShopName,
		})
		return err
	}
	return nil
}

func (r *sellerRepository) FindByID(id uint) (*model.SellerProfile, error) {
	var profile model.SellerProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *sellerRepository) FindByUserID(userID uint) (*model.SellerProfile, error) {
	var profile model.SellerProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *sellerRepository) FindBySlug(slug string) (*model.SellerProfile, error) {
	var profile model.SellerProfile
	if err := r.db.Where("slug = ?", slug).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *sellerRepository) Update(profile *model.SellerProfile) error {
	if err := r.db.Save(profile).Error; err != nil {
		logger.Error("Failed to update seller profile in database", err, map[string]interface{}{
			"seller_id": profile.ID,
		})
		return err
	}
	return nil
}

func (r *sellerRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.SellerProfile{}, id).Error; err != nil {
		logger.Error("Failed to delete seller profile from database", err, map[string]interface{}{
			"seller_id": id,
		})
		return err
	}
	return nil
}

func (r *sellerRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.SellerProfile{}).Error
}
