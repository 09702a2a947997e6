package repository

import (
	"strings"
	"time"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"gorm.io/gorm"
)

type AdminUserRepository interface {
	FindByEmail(email string) (*model.AdminUser, error)
	FindByID(id uint) (*model.AdminUser, error)
	TouchLastLogin(id uint, at time.Time) error
}

type adminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) FindByEmail(email string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminUserRepository) FindByID(id uint) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminUserRepository) TouchLastLogin(id uint, at time.Time) error {
	return r.db.Model(&model.AdminUser{}).Where("id = ?", id).Update("last_login_at", at).Error
}
