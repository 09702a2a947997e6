package controller

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
	ws "github.com/gmp-artesanias/gmp-backend/internal/websocket"
	"github.com/gorilla/websocket"
)

type NotificationController struct {
	hub            *ws.Hub
	contactService service.ContactService
	upgrader       *websocket.Upgrader
}

func NewNotificationController(hub *ws.Hub, contactService service.ContactService, upgrader *websocket.Upgrader) *NotificationController {
	return &NotificationController{
		hub:            hub,
		contactService: contactService,
		upgrader:       upgrader,
	}
}

// Connect subscribes an admin to dashboard notifications. The current
// unread count is sent right after the upgrade.
// GET /api/v1/admin/ws
func (ctrl *NotificationController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade notification connection", err)
		return
	}

	client := ws.NewClient(conn, userID)
	if count, err := ctrl.contactService.UnreadCount(); err == nil {
		if data, err := json.Marshal(ws.Notification{Type: ws.NotificationUnreadCount, Count: count}); err == nil {
			client.TrySend(data)
		}
	} else {
		log.Error("Failed to load unread count", err)
	}

	ctrl.hub.Register(client)
	go client.WritePump()
	client.ReadPump(nil)
	ctrl.hub.Unregister(client)
}
