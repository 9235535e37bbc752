package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/models"
)

// AdminStore records dashboard sign-ins.
type AdminStore interface {
	// Sync returns the admin for id.Email, creating an unapproved row on the
	// first sign-in (created is then true) and refreshing the profile
	// otherwise.
	Sync(ctx context.Context, id Identity) (admin models.Admin, created bool, err error)
}

type GormAdmins struct {
	db *gorm.DB
}

func NewGormAdmins(db *gorm.DB) *GormAdmins {
	return &GormAdmins{db: db}
}

func (g *GormAdmins) Sync(ctx context.Context, id Identity) (models.Admin, bool, error) {
	db := g.db.WithContext(ctx)

	var admin models.Admin
	err := db.Where("email = ?", id.Email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin = models.Admin{
			FirebaseUID: id.UID,
			Email:       id.Email,
			Name:        id.Name,
			Picture:     id.Picture,
		}
		if err := db.Create(&admin).Error; err != nil {
			return models.Admin{}, false, fmt.Errorf("register admin: %w", err)
		}
		return admin, true, nil
	}
	if err != nil {
		return models.Admin{}, false, err
	}

	if err := db.Model(&admin).Updates(models.Admin{
		FirebaseUID: id.UID,
		Name:        id.Name,
		Picture:     id.Picture,
	}).Error; err != nil {
		return models.Admin{}, false, fmt.Errorf("update admin: %w", err)
	}
	return admin, false, nil
}

type LoginConfig struct {
	SuperAdminEmail string
	SecureCookie    bool
}

// POST /auth/login
func Login(verifier Verifier, admins AdminStore, issuer *Issuer, cfg LoginConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			log.Info("id token rejected", zap.Error(err))
			status := http.StatusUnauthorized
			if errors.Is(err, ErrIdentityDisabled) {
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		if cfg.SuperAdminEmail != "" && strings.EqualFold(id.Email, cfg.SuperAdminEmail) {
			respondWithToken(c, issuer, cfg, id, RoleSuperAdmin, log)
			return
		}

		admin, created, err := admins.Sync(c.Request.Context(), id)
		if err != nil {
			log.Error("admin sync", zap.String("email", id.Email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if created {
			log.Info("new admin registered, pending approval", zap.String("email", id.Email))
		}
		if created || !admin.Approved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Pending approval by super admin"})
			return
		}

		respondWithToken(c, issuer, cfg, id, RoleAdmin, log)
	}
}

func respondWithToken(c *gin.Context, issuer *Issuer, cfg LoginConfig, id Identity, role string, log *zap.Logger) {
	token, exp, err := issuer.Issue(id.Email, role, id.UID)
	if err != nil {
		log.Error("issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(issuer.TTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"role":    role,
		"email":   id.Email,
		"name":    id.Name,
		"picture": id.Picture,
	})
}

// POST /auth/logout
func Logout(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
