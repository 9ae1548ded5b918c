package projects

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MaterialHandler struct {
	materialRepo *MaterialRepository
}

func NewHandler(materialRepo *MaterialRepository) *MaterialHandler {
	return &MaterialHandler{materialRepo: materialRepo}
}

func (h *MaterialHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/projects/:id/materials", h.GetMaterials)
}

func (h *MaterialHandler) GetMaterials(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}

	materials, err := h.materialRepo.GetMaterials(projectID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get project materials", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, materials)
}
