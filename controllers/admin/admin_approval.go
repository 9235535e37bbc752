package adminController

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func bindEmail(c *gin.Context) (string, bool) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(req.Email)), true
}

// ListPendingAdmins returns all admins awaiting approval.
func ListPendingAdmins(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		pending, err := store.Pending(c.Request.Context())
		if err != nil {
			log.Error("fetch pending admins", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending admins"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

// POST /dashboard/admins/approve {"email": ...}
func ApproveAdmin(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := bindEmail(c)
		if !ok {
			return
		}

		err := store.Approve(c.Request.Context(), email)
		switch {
		case errors.Is(err, ErrAdminNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		case errors.Is(err, ErrAlreadyApproved):
			c.JSON(http.StatusOK, gin.H{"message": "Admin already approved"})
			return
		case err != nil:
			log.Error("approve admin", zap.String("email", email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve admin"})
			return
		}

		log.Info("admin approved", zap.String("email", email))
		c.JSON(http.StatusOK, gin.H{"message": "Admin approved"})
	}
}

// RejectAdmin removes a pending sign-in. Approved admins are left alone.
func RejectAdmin(store Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := bindEmail(c)
		if !ok {
			return
		}

		err := store.Reject(c.Request.Context(), email)
		switch {
		case errors.Is(err, ErrNotPending):
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending admin with that email"})
			return
		case err != nil:
			log.Error("reject admin", zap.String("email", email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject admin"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Admin rejected"})
	}
}
