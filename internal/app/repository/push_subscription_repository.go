package repository

import (
	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"gorm.io/gorm"
)

type PushSubscriptionRepository interface {
	Upsert(sub *model.PushSubscription) error
	FindByUserID(userID uint) ([]model.PushSubscription, error)
	DeleteByEndpoint(userID uint, endpoint string) error
	DeleteByUserID(userID uint) error
}

type pushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) PushSubscriptionRepository {
	return &pushSubscriptionRepository{db: db}
}

// Upsert re-registers an endpoint that already exists. Browsers rotate
// subscription keys, so the row is replaced rather than duplicated.
func (r *pushSubscriptionRepository) Upsert(sub *model.PushSubscription) error {
	var existing model.PushSubscription
	err := r.db.Where("endpoint = ?", sub.Endpoint).First(&existing).Error
	if err == nil {
		existing.UserID = sub.UserID
		existing.P256dh = sub.P256dh
		existing.Auth = sub.Auth
		*sub = existing
		return r.db.Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := r.db.Create(sub).Error; err != nil {
		logger.Error("Failed to create push subscription in database", err, map[string]interface{}{
			"user_id": sub.UserID,
		})
		return err
	}
	return nil
}

func (r *pushSubscriptionRepository) FindByUserID(userID uint) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.Where("user_id = ?", userID).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *pushSubscriptionRepository) DeleteByEndpoint(userID uint, endpoint string) error {
	return r.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&model.PushSubscription{}).Error
}

func (r *pushSubscriptionRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.PushSubscription{}).Error
}
