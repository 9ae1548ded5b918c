package ledger

import (
	"net/http"
	"strconv"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerRepo *LedgerRepository
}

func NewHandler(ledgerRepo *LedgerRepository) *LedgerHandler {
	return &LedgerHandler{ledgerRepo: ledgerRepo}
}

func (h *LedgerHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/inventory", h.GetItems)
	router.GET("/inventory/critical", h.GetCriticalItems)
	router.GET("/inventory/:id", h.GetItem)
}

func (h *LedgerHandler) GetItems(c *gin.Context) {
	var items []models.InventoryItem
	var err error

	if sku := c.Query("sku"); sku != "" {
		conditions := repository.NewQueryBuilder()
		conditions.AddCondition("sku", sku)
		items, err = h.ledgerRepo.GetItemsBy(conditions)
	} else {
		items, err = h.ledgerRepo.GetItems()
	}

	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get inventory", "details": err.Error()})
		return
	}

	views := make([]models.InventoryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, item.ToView())
	}

	c.JSON(http.StatusOK, views)
}

func (h *LedgerHandler) GetCriticalItems(c *gin.Context) {
	items, err := h.ledgerRepo.GetCriticalItems()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get critical inventory", "details": err.Error()})
		return
	}

	views := make([]models.InventoryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, item.ToView())
	}

	c.JSON(http.StatusOK, views)
}

func (h *LedgerHandler) GetItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid inventory item id"})
		return
	}

	item, err := h.ledgerRepo.GetItem(id)
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get inventory item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item.ToView())
}
