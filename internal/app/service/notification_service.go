package service

import (
	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	ws "github.com/amirtishiva/craftbiz-backend/internal/websocket"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
)

// NotificationService registers push subscriptions and fans events out to
// connected websocket sessions
type NotificationService interface {
	Subscribe(userID uint, endpoint, p256dh, auth string) (*model.PushSubscription, error)
	Unsubscribe(userID uint, endpoint string) error
	ListSubscriptions(userID uint) ([]model.PushSubscription, error)
	NotifyUser(userID uint, eventType string, payload interface{})
}

type notificationService struct {
	pushRepo repository.PushSubscriptionRepository
	hub      *ws.Hub
}

func NewNotificationService(pushRepo repository.PushSubscriptionRepository, hub *ws.Hub) NotificationService {
	return &notificationService{
		pushRepo: pushRepo,
		hub:      hub,
	}
}

func (s *notificationService) Subscribe(userID uint, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	sub := &model.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}
	if err := s.pushRepo.Upsert(sub); err != nil {
		return nil, err
	}

	logger.Info("Push subscription registered", map[string]interface{}{
		"user_id":         userID,
		"subscription_id": sub.ID,
	})
	return sub, nil
}

func (s *notificationService) Unsubscribe(userID uint, endpoint string) error {
	return s.pushRepo.DeleteByEndpoint(userID, endpoint)
}

func (s *notificationService) ListSubscriptions(userID uint) ([]model.PushSubscription, error) {
	return s.pushRepo.FindByUserID(userID)
}

// NotifyUser pushes the event to every live websocket session of the user.
// Users without live sessions rely on their registered push endpoints, which
// a delivery worker drains separately.
func (s *notificationService) NotifyUser(userID uint, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.SendToUser(userID, ws.Notification{
		Type:    eventType,
		Payload: payload,
	})
}
