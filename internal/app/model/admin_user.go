package model

import "time"

// RoleAdmin is the only role issued in tokens.
const RoleAdmin = "admin"

// AdminUser is a dashboard account. Membership in this table is what grants access.
type AdminUser struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"type:varchar(150);not null;uniqueIndex" json:"email"`
	Name         string     `gorm:"type:varchar(100)" json:"name"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
