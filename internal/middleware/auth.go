// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/megano/storefront/internal/i18n"
	"github.com/megano/storefront/internal/models"
	"github.com/megano/storefront/internal/utils"

	"github.com/gin-gonic/gin"
)

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthTokenExpired),
			})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

func requireRole(allowed ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := utils.GetUserRoleFromContext(c); ok {
			for _, a := range allowed {
				if role == string(a) {
					c.Next()
					return
				}
			}
		}

		utils.ForbiddenResponse(c, "")
		c.Abort()
	}
}

// SellerRequired guards the seller room. Managers and admins pass so they
// can act on any store during moderation.
func SellerRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleSeller, models.UserRoleManager, models.UserRoleAdmin)
}

// ManagerRequired guards catalog moderation and discount management.
func ManagerRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleManager, models.UserRoleAdmin)
}

func AdminRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleAdmin)
}
