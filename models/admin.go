package models

import "time"

// Admin is a dashboard user. New sign-ins start unapproved until the super
// admin approves them.
type Admin struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirebaseUID string     `gorm:"index" json:"firebase_uid"`
	Email       string     `gorm:"unique;not null" json:"email"`
	Name        string     `json:"name"`
	Picture     string     `json:"picture"`
	Approved    bool       `gorm:"not null;default:false" json:"approved"`
	ApprovedAt  *time.Time `json:"approved_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
