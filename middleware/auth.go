package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thedevbrian1/thevervefashion-fly/auth"
)

// Context keys set by the auth middleware.
const (
	ClaimsKey   = "claims"
	LoggedInKey = "isLoggedIn"
)

// tokenFrom reads the dashboard token from the auth cookie, falling back to
// an "Authorization: Bearer" header.
func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAdmin rejects requests without a valid admin or super admin token.
func RequireAdmin(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFrom(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization is missing"})
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(LoggedInKey, true)
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// RequireSuperAdmin must run after RequireAdmin.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != auth.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Super admin access required"})
			return
		}
		c.Next()
	}
}

// OptionalUser marks the request as logged in when it carries a valid token.
// It never rejects.
func OptionalUser(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := tokenFrom(c); tokenString != "" {
			if claims, err := issuer.Parse(tokenString); err == nil {
				c.Set(ClaimsKey, claims)
				c.Set(LoggedInKey, true)
			}
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func IsLoggedIn(c *gin.Context) bool {
	return c.GetBool(LoggedInKey)
}
