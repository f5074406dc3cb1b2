package controller

import (
	"net/http"

	"github.com/amirtishiva/craftbiz-backend/internal/app/service"
	apperrors "github.com/amirtishiva/craftbiz-backend/internal/errors"
	"github.com/amirtishiva/craftbiz-backend/internal/middleware"
	ws "github.com/amirtishiva/craftbiz-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the marketplace web origin; token auth
	// happens in middleware, so cross-origin upgrades are acceptable here
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type NotificationController struct {
	notificationService service.NotificationService
	hub                 *ws.Hub
}

func NewNotificationController(notificationService service.NotificationService, hub *ws.Hub) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		hub:                 hub,
	}
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	P256dh   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
}

// Subscribe registers a browser push endpoint for the user
// POST /api/v1/notifications/subscribe
func (ctrl *NotificationController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid subscription details")
		return
	}

	sub, err := ctrl.notificationService.Subscribe(userID, req.Endpoint, req.P256dh, req.Auth)
	if err != nil {
		log.Error("Failed to register push subscription", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "push subscription")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"subscription": sub,
	})
}

// Unsubscribe removes a push endpoint
// POST /api/v1/notifications/unsubscribe
func (ctrl *NotificationController) Unsubscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid subscription details")
		return
	}

	if err := ctrl.notificationService.Unsubscribe(userID, req.Endpoint); err != nil {
		log.Error("Failed to remove push subscription", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "push subscription")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unsubscribed",
	})
}

// Connect upgrades to a websocket session for live notifications
// GET /api/v1/notifications/ws (token via query parameter)
func (ctrl *NotificationController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
