package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tinhnguyen/internal/pkg/ctxutil"
	"tinhnguyen/internal/pkg/jwt"
)

// Auth validates the Bearer token and injects the authenticated principal
// into the request context. The role claim rides along for cheap routing
// checks; services re-load the user record before privileged transitions.
func Auth(jwtUtil *jwt.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "missing authorization header",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "Invalid authorization header",
			})
			c.Abort()
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40102,
				"message": "invalid or expired token",
			})
			c.Abort()
			return
		}

		ctx := ctxutil.WithPrincipal(c.Request.Context(), ctxutil.Principal{
			UserID: claims.UserID,
			Role:   claims.Role,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole rejects requests whose token role claim is not in the allow
// list. A coarse gate in front of the admin route groups; the services
// re-check against the stored record, so a stale claim can only deny,
// never grant.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := ctxutil.GetPrincipal(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40101,
				"message": "unauthorized",
			})
			c.Abort()
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    40301,
				"message": "insufficient role",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
