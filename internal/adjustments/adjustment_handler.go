package adjustments

import (
	"net/http"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/security"

	"github.com/gin-gonic/gin"
)

type AdjustmentHandler struct {
	service        *AdjustmentService
	adjustmentRepo *AdjustmentRepositoryImpl
}

func NewHandler(service *AdjustmentService, adjustmentRepo *AdjustmentRepositoryImpl) *AdjustmentHandler {
	return &AdjustmentHandler{service: service, adjustmentRepo: adjustmentRepo}
}

func (h *AdjustmentHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/adjustments", h.RecordAdjustment)
	router.GET("/adjustments", h.GetAdjustments)
	router.GET("/adjustments/leakage", h.GetSystemLeakage)
}

func (h *AdjustmentHandler) RecordAdjustment(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req RecordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	adjustment, warnings, err := h.service.Record(actor, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"adjustment": adjustment, "warnings": warnings})
}

func (h *AdjustmentHandler) GetAdjustments(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if productID := c.Query("product_id"); productID != "" {
		conditions.AddCondition("product_id", productID)
	}
	if reason := c.Query("reason"); reason != "" {
		conditions.AddCondition("reason", reason)
	}

	adjustments, err := h.adjustmentRepo.GetAdjustments(conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get stock adjustments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, adjustments)
}

func (h *AdjustmentHandler) GetSystemLeakage(c *gin.Context) {
	total, err := h.adjustmentRepo.SystemLeakage()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to compute system leakage", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leakage_cost": total})
}

func abortWithError(c *gin.Context, err error) {
	switch {
	case custom_error.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case custom_error.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case custom_error.IsInvalidTransition(err), custom_error.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
