package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fooddelivery/internal/utils"
	pkgutils "fooddelivery/pkg/utils"
)

const (
	// ContextUserID key holding the authenticated customer id
	ContextUserID = "user_id"
	// ContextUserRole key holding the caller role
	ContextUserRole = "user_role"
	// ContextStoreID key holding the partner store id, zero otherwise
	ContextStoreID = "store_id"
)

// Auth bearer token authentication middleware
func Auth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			pkgutils.Error(c, pkgutils.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			pkgutils.Error(c, pkgutils.CodeUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(parts[1])
		if err != nil {
			pkgutils.Error(c, pkgutils.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.CustomerID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextStoreID, claims.StoreID)
		c.Next()
	}
}

// RequireRoles allow only the given roles past
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if _, ok := allowed[role]; !ok {
			pkgutils.Error(c, pkgutils.CodeActionNotAllowed, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID read the authenticated customer id from context
func CurrentUserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// CurrentStoreID read the partner store id from context
func CurrentStoreID(c *gin.Context) uint64 {
	v, ok := c.Get(ContextStoreID)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}
