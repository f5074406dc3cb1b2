package repository

import (
	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

// GenerationRepository persists the outputs of the AI generation functions:
// design assets, marketing content and business plans.
type GenerationRepository interface {
	CreateAsset(asset *model.DesignAsset) error
	FindAssetsByUserID(userID uint, kind *model.DesignAssetKind) ([]model.DesignAsset, error)
	DeleteAsset(userID, assetID uint) error

	CreateMarketingContent(content *model.MarketingContent) error
	FindMarketingContentByUserID(userID uint) ([]model.MarketingContent, error)

	CreateBusinessPlan(plan *model.BusinessPlan) error
	FindBusinessPlansByUserID(userID uint) ([]model.BusinessPlan, error)
	FindBusinessPlanByID(id uint) (*model.BusinessPlan, error)
}

type generationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) CreateAsset(asset *model.DesignAsset) error {
	if err := r.db.Create(asset).Error; err != nil {
		logger.Error("Failed to create design asset in database", err, map[string]interface{}{
			"user_id": asset.UserID,
			"kind":    asset.Kind,
		})
		return err
	}
	return nil
}

func (r *generationRepository) FindAssetsByUserID(userID uint, kind *model.DesignAssetKind) ([]model.DesignAsset, error) {
	query := r.db.Where("user_id = ?", userID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	var assets []model.DesignAsset
	if err := query.Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *generationRepository) DeleteAsset(userID, assetID uint) error {
	result := r.db.Where("user_id = ?", userID).Delete(&model.DesignAsset{}, assetID)
	if result.Error != nil {
		logger.Error("Failed to delete design asset from database", result.Error, map[string]interface{}{
			"asset_id": assetID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *generationRepository) CreateMarketingContent(content *model.MarketingContent) error {
	if err := r.db.Create(content).Error; err != nil {
		logger.Error("Failed to create marketing content in database", err, map[string]interface{}{
			"user_id":  content.UserID,
			"platform": content.Platform,
		})
		return err
	}
	return nil
}

func (r *generationRepository) FindMarketingContentByUserID(userID uint) ([]model.MarketingContent, error) {
	var content []model.MarketingContent
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&content).Error
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (r *generationRepository) CreateBusinessPlan(plan *model.BusinessPlan) error {
	if err := r.db.Create(plan).Error; err != nil {
		logger.Error("Failed to create business plan in database", err, map[string]interface{}{
			"user_id": plan.UserID,
		})
		return err
	}
	return nil
}

func (r *generationRepository) FindBusinessPlansByUserID(userID uint) ([]model.BusinessPlan, error) {
	var plans []model.BusinessPlan
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *generationRepository) FindBusinessPlanByID(id uint) (*model.BusinessPlan, error) {
	var plan model.BusinessPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}
