package middleware

import (
	"fixmate/internal/auth"

	"github.com/gin-gonic/gin"
)

const claimsKey = "CurrentAdmin"

// CurrentAdmin returns the claims put on the context by RequireAuth.
func CurrentAdmin(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
