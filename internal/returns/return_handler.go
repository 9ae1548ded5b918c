package returns

import (
	"net/http"
	"strconv"

	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/security"

	"github.com/gin-gonic/gin"
)

type ReturnHandler struct {
	service    *ReturnService
	returnRepo *ReturnRepositoryImpl
}

func NewHandler(service *ReturnService, returnRepo *ReturnRepositoryImpl) *ReturnHandler {
	return &ReturnHandler{service: service, returnRepo: returnRepo}
}

func (h *ReturnHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/returns", h.SubmitReturn)
	router.GET("/returns/:id", h.GetReturn)
}

func (h *ReturnHandler) RegisterApprovalRoutes(router gin.IRoutes) {
	router.PATCH("/returns/:id/approve", h.ApproveReturn)
}

func (h *ReturnHandler) SubmitReturn(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req SubmitReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	ret, err := h.service.Submit(actor, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ret)
}

func (h *ReturnHandler) GetReturn(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return id"})
		return
	}

	ret, err := h.returnRepo.GetReturn(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ret)
}

func (h *ReturnHandler) ApproveReturn(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return id"})
		return
	}

	ret, warnings, err := h.service.Approve(id, actor)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"return": ret, "warnings": warnings})
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
