package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"iter/pkg/utils"
)

// AnonymousOwner is used as trip owner when auth is disabled.
const AnonymousOwner = "anonymous"

// JWTAuthMiddleware requires a bearer token signed with secret and stores its
// subject under "user_id". An empty secret disables the check.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Set("user_id", AnonymousOwner)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken([]byte(secret), strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}
