package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AuditLogHandler struct {
	auditRepo *AuditLogRepository
}

func NewHandler(auditRepo *AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{auditRepo: auditRepo}
}

func (h *AuditLogHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/audit-logs", h.GetLogs)
}

func (h *AuditLogHandler) GetLogs(c *gin.Context) {
	resourceType := c.Query("resource_type")
	resourceID := 0
	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource_id"})
			return
		}
		resourceID = id
	}

	logs, err := h.auditRepo.GetLogs(resourceType, resourceID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get audit logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
