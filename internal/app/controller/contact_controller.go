package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/internal/middleware"
)

type ContactController struct {
	contactService service.ContactService
}

func NewContactController(contactService service.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Submit stores a message from the public contact form
// POST /api/v1/contact
func (ctrl *ContactController) Submit(c *gin.Context) {
	var req ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := ctrl.contactService.Submit(service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		respondError(c, err, "create message")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Contact message received", map[string]interface{}{
		"message_id": msg.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "¡Gracias por tu mensaje! Te responderemos pronto.",
		"id":      msg.ID,
	})
}

// List returns the inbox, newest first
// GET /api/v1/admin/messages
func (ctrl *ContactController) List(c *gin.Context) {
	messages, err := ctrl.contactService.List()
	if err != nil {
		respondError(c, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// UnreadCount returns the number of unread messages
// GET /api/v1/admin/messages/unread-count
func (ctrl *ContactController) UnreadCount(c *gin.Context) {
	count, err := ctrl.contactService.UnreadCount()
	if err != nil {
		respondError(c, err, "message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ToggleRead flips the read flag of a message
// PATCH /api/v1/admin/messages/:id/read
func (ctrl *ContactController) ToggleRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	msg, err := ctrl.contactService.ToggleRead(id)
	if err != nil {
		respondError(c, err, "update message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Delete removes a message
// DELETE /api/v1/admin/messages/:id
func (ctrl *ContactController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.contactService.Delete(id); err != nil {
		respondError(c, err, "delete message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mensaje eliminado"})
}
