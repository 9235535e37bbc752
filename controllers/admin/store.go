package adminController

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/thedevbrian1/thevervefashion-fly/models"
)

var (
	ErrAdminNotFound   = errors.New("admin not found")
	ErrAlreadyApproved = errors.New("admin already approved")
	ErrNotPending      = errors.New("no pending admin with that email")
)

// Store is the admin table as the approval workflow sees it. Emails are
// compared lowercased.
type Store interface {
	List(ctx context.Context) ([]models.Admin, error)
	Pending(ctx context.Context) ([]models.Admin, error)
	// Approve returns ErrAdminNotFound or ErrAlreadyApproved when there is
	// nothing to change.
	Approve(ctx context.Context, email string) error
	// Reject deletes an unapproved admin and returns ErrNotPending when none
	// matches.
	Reject(ctx context.Context, email string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	err := g.db.WithContext(ctx).Order("created_at desc").Find(&admins).Error
	return admins, err
}

func (g *GormStore) Pending(ctx context.Context) ([]models.Admin, error) {
	var pending []models.Admin
	err := g.db.WithContext(ctx).Where("approved = ?", false).Find(&pending).Error
	return pending, err
}

func (g *GormStore) Approve(ctx context.Context, email string) error {
	db := g.db.WithContext(ctx)

	var admin models.Admin
	if err := db.Where("LOWER(email) = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminNotFound
		}
		return err
	}
	if admin.Approved {
		return ErrAlreadyApproved
	}
	return db.Model(&admin).Updates(map[string]any{"approved": true, "approved_at": time.Now()}).Error
}

func (g *GormStore) Reject(ctx context.Context, email string) error {
	res := g.db.WithContext(ctx).
		Where("LOWER(email) = ? AND approved = ?", email, false).
		Delete(&models.Admin{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
