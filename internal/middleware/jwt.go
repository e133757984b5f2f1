package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rosterhq/workforce-api/internal/models"
	"github.com/rosterhq/workforce-api/internal/service"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
	"github.com/rosterhq/workforce-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid access token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// RequireRole blocks requests whose token role is not one of the allowed
// roles. Must run after JWT.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the claims attached by JWT, or nil when the request
// is unauthenticated.
func CurrentUser(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
