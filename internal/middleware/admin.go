package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Adelodunpeter25/url-shortener/internal/repository"
)

// RequireAdmin gates a route on the caller's role. Must run after Identity.
func RequireAdmin(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentUser(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, err := users.FindByID(*id)
		if err != nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
