package users

import (
	"net/http"
	"strconv"

	custom_error "matdepot/pkg/errors"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	userRepo *UserRepository
}

func NewHandler(userRepo *UserRepository) *UsersHandler {
	return &UsersHandler{userRepo: userRepo}
}

func (h *UsersHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/users", h.GetUsers)
	router.GET("/users/:id", h.GetUser)
}

func (h *UsersHandler) GetUsers(c *gin.Context) {
	users, err := h.userRepo.GetUsers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := h.userRepo.GetUser(id)
	if err != nil {
		if custom_error.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}
