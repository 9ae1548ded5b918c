package security

import (
	"log"
	"net/http"

	"matdepot/internal/repository"

	"github.com/gin-gonic/gin"
)

type LoginHandler struct {
	repository *repository.Repository
}

func NewLoginHandler(r *repository.Repository) *LoginHandler {
	return &LoginHandler{repository: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewLoginHandler(r)
	router.POST("/login", handler.Login)
}

func (h *LoginHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := AuthenticateUser(req.Username, req.Password, h.repository)
	if err != nil {
		log.Println("Failed login attempt for user: ", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := GenerateJWT(user.ID, user.Role, user.Username)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"fullname": user.Fullname,
			"role":     user.Role,
		},
	})
}
