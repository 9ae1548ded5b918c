package claims

import (
	"net/http"
	"strconv"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/security"

	"github.com/gin-gonic/gin"
)

type ClaimHandler struct {
	service   *ClaimService
	claimRepo *ClaimRepositoryImpl
}

func NewHandler(service *ClaimService, claimRepo *ClaimRepositoryImpl) *ClaimHandler {
	return &ClaimHandler{service: service, claimRepo: claimRepo}
}

func (h *ClaimHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/claims", h.SubmitClaim)
	router.GET("/claims", h.GetClaims)
	router.GET("/claims/:id", h.GetClaim)
}

func (h *ClaimHandler) RegisterApprovalRoutes(router gin.IRoutes) {
	router.PATCH("/claims/:id/approve", h.ApproveClaim)
	router.PATCH("/claims/:id/deny", h.DenyClaim)
}

func (h *ClaimHandler) SubmitClaim(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	claim, err := h.service.Submit(actor, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, claim)
}

func (h *ClaimHandler) GetClaims(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if status := c.Query("status"); status != "" {
		conditions.AddCondition("status", status)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := strconv.Atoi(projectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}
		conditions.AddCondition("project_id", id)
	}

	claims, err := h.claimRepo.GetClaims(conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get claims", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, claims)
}

func (h *ClaimHandler) GetClaim(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	claim, err := h.claimRepo.GetClaim(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, claim)
}

func (h *ClaimHandler) ApproveClaim(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	claim, warnings, err := h.service.Approve(id, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": claim, "warnings": warnings})
}

func (h *ClaimHandler) DenyClaim(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim id"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to map JSON body", "details": err.Error()})
		return
	}

	claim, err := h.service.Deny(id, actor, req.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, claim)
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
