package purchaseorders

import (
	"net/http"
	"strconv"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"
	"matdepot/pkg/security"

	"github.com/gin-gonic/gin"
)

type POHandler struct {
	service *POService
	poRepo  *PORepositoryImpl
}

func NewHandler(service *POService, poRepo *PORepositoryImpl) *POHandler {
	return &POHandler{service: service, poRepo: poRepo}
}

func (h *POHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/purchase-orders", h.CreatePurchaseOrder)
	router.GET("/purchase-orders", h.GetPurchaseOrders)
	router.GET("/purchase-orders/:id", h.GetPurchaseOrder)
	router.PATCH("/purchase-orders/:id/send", h.transitionHandler(models.POStatusSent))
	router.PATCH("/purchase-orders/:id/in-transit", h.transitionHandler(models.POStatusInTransit))
	router.PATCH("/purchase-orders/:id/cancel", h.transitionHandler(models.POStatusCancelled))
	router.POST("/purchase-orders/:id/receive", h.ReceivePurchaseOrder)
	router.POST("/purchase-orders/:id/qa", h.CompleteQA)
}

func (h *POHandler) CreatePurchaseOrder(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	po, err := h.service.Create(actor, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, po)
}

func (h *POHandler) GetPurchaseOrders(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if status := c.Query("status"); status != "" {
		conditions.AddCondition("status", status)
	}
	if supplier := c.Query("supplier"); supplier != "" {
		conditions.AddCondition("supplier", supplier)
	}

	orders, err := h.poRepo.GetPurchaseOrders(conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get purchase orders", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *POHandler) GetPurchaseOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase order id"})
		return
	}

	po, err := h.poRepo.GetPurchaseOrder(id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase_order": po, "total_cost": po.TotalCost()})
}

func (h *POHandler) transitionHandler(to models.POStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := security.ActorFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase order id"})
			return
		}

		po, err := h.service.Transition(id, actor, to)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, po)
	}
}

func (h *POHandler) ReceivePurchaseOrder(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase order id"})
		return
	}

	var req struct {
		Lines []ReceiveLine `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to map JSON body", "details": err.Error()})
		return
	}

	po, warnings, err := h.service.Receive(id, actor, req.Lines)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchase_order": po, "warnings": warnings})
}

func (h *POHandler) CompleteQA(c *gin.Context) {
	actor, err := security.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase order id"})
		return
	}

	var req struct {
		GoodQuantity int    `json:"good_quantity"`
		BadQuantity  int    `json:"bad_quantity"`
		PhotoURL     string `json:"photo_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to map JSON body", "details": err.Error()})
		return
	}

	po, err := h.service.CompleteQA(id, actor, req.GoodQuantity, req.BadQuantity, req.PhotoURL)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, po)
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
