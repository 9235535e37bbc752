package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /dashboard/admins
func GetAllAdmins(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := store.List(c.Request.Context())
		if err != nil {
			log.Error("fetch admins", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}

		c.JSON(http.StatusOK, admins)
	}
}
