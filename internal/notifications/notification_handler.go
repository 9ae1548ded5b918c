package notifications

import (
	"net/http"
	"strconv"

	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/security"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationRepo *NotificationRepository
}

func NewHandler(notificationRepo *NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

func (h *NotificationHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/notifications", h.GetNotifications)
	router.PATCH("/notifications/:id/read", h.MarkRead)
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	notifications, err := h.notificationRepo.GetForUser(actor.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if err := h.notificationRepo.MarkRead(notificationID, actor.ID); err != nil {
		if custom_error.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to mark notification as read", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read", "notification_id": notificationID})
}
