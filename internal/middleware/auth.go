package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/statuscore-dev/statuscore/internal/auth"
	"github.com/statuscore-dev/statuscore/internal/types"
)

// TenantContext carries the authenticated tenant scope for a request.
type TenantContext struct {
	TenantID string `json:"tenant_id"`
	Subject  string `json:"subject"`
}

// AuthMiddleware verifies the bearer token and stashes the tenant
// scope on the request context. Every monitoring route requires it.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})

			return
		}

		tokenString := parts[1]

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		tenantID, ok := claims["tenant_id"].(string)

		if !ok || tenantID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid tenant in token claims"})
			return
		}

		subject, _ := claims["sub"].(string)

		ctx.Set(types.ContextTenantKey, TenantContext{
			TenantID: tenantID,
			Subject:  subject,
		})
		ctx.Next()
	}
}

// CurrentTenant returns the tenant scope set by AuthMiddleware.
func CurrentTenant(ctx *gin.Context) (TenantContext, error) {
	value, exists := ctx.Get(types.ContextTenantKey)

	if !exists {
		return TenantContext{}, errors.New("request is not tenant-scoped")
	}

	tenant, ok := value.(TenantContext)

	if !ok {
		return TenantContext{}, errors.New("invalid tenant scope in context")
	}

	return tenant, nil
}
