package security

import (
	"fmt"
	"net/http"
	"strings"

	"matdepot/pkg/models"
	"matdepot/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware validates JWT and stores the actor identity on the request
// context. Workflows never read identity ambiently; handlers pull the actor
// out with ActorFromContext and pass it down explicitly.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("userID", claims["userID"])
		c.Set("role", claims["role"])
		c.Set("username", claims["username"])
		c.Next()
	}
}

// Authorize ensures the actor holds at least the required role.
func Authorize(requiredRole roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		userRole, ok := role.(string)
		if !ok || !roles.Role(userRole).HasPermission(requiredRole) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ActorFromContext rebuilds the explicit actor identity from JWT claims.
func ActorFromContext(c *gin.Context) (models.Actor, error) {
	rawID, exists := c.Get("userID")
	if !exists {
		return models.Actor{}, fmt.Errorf("no authenticated actor on request")
	}

	// JWT numeric claims decode as float64.
	id, ok := rawID.(float64)
	if !ok {
		return models.Actor{}, fmt.Errorf("userID claim is not numeric")
	}

	username, _ := c.Get("username")
	role, _ := c.Get("role")

	actor := models.Actor{ID: int(id)}
	if s, ok := username.(string); ok {
		actor.Username = s
	}
	if s, ok := role.(string); ok {
		actor.Role = roles.Role(s)
	}

	return actor, nil
}
