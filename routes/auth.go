package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/thedevbrian1/thevervefashion-fly/auth"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		// Firebase Google sign-in for the dashboard
		authGroup.POST("/login", auth.Login(d.Verifier, d.Admins, d.Issuer, d.Login, d.Log))
		authGroup.POST("/logout", auth.Logout(d.Login.SecureCookie))
	}
}
