package repository

import (
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

type ContactMessageRepository interface {
	Create(message *model.ContactMessage) error
	FindAll() ([]model.ContactMessage, error)
	FindByID(id uint) (*model.ContactMessage, error)
	SetRead(id uint, read bool) error
	Delete(id uint) error
	CountUnread() (int64, error)
}

type contactMessageRepository struct {
	db *gorm.DB
}

func NewContactMessageRepository(db *gorm.DB) ContactMessageRepository {
	return &contactMessageRepository{db: db}
}

func (r *contactMessageRepository) Create(message *model.ContactMessage) error {
	if err := r.db.Create(message).Error; err != nil {
		logger.Error("Failed to store contact message", err, map[string]interface{}{
			"email": message.Email,
		})
		return err
	}
	logger.Debug("Contact message stored", map[string]interface{}{
		"message_id": message.ID,
	})
	return nil
}

func (r *contactMessageRepository) FindAll() ([]model.ContactMessage, error) {
	var messages []model.ContactMessage
	if err := r.db.Order("created_at DESC").Order("id DESC").Find(&messages).Error; err != nil {
		logger.Error("Failed to list contact messages", err)
		return nil, err
	}
	return messages, nil
}

func (r *contactMessageRepository) FindByID(id uint) (*model.ContactMessage, error) {
	var message model.ContactMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *contactMessageRepository) SetRead(id uint, read bool) error {
	result := r.db.Model(&model.ContactMessage{}).Where("id = ?", id).Update("read", read)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactMessageRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ContactMessage{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete contact message", result.Error, map[string]interface{}{
			"message_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactMessageRepository) CountUnread() (int64, error) {
	var count int64
	err := r.db.Model(&model.ContactMessage{}).Where("read = ?", false).Count(&count).Error
	return count, err
}
