package repository

import (
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

type ActivityLogFilter struct {
	Search     string           // resource name or user email
	ActionType model.ActionType // empty means any
	Limit      int
}

type ActivityLogRepository interface {
	Create(entry *model.ActivityLog) error
	Find(filter ActivityLogFilter) ([]model.ActivityLog, error)
	Delete(id uint) error
}

type activityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(entry *model.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to insert activity log", err, map[string]interface{}{
			"action_type":   entry.ActionType,
			"resource_type": entry.ResourceType,
			"resource_id":   entry.ResourceID,
		})
		return err
	}
	return nil
}

func (r *activityLogRepository) Find(filter ActivityLogFilter) ([]model.ActivityLog, error) {
	query := r.db.Model(&model.ActivityLog{})

	if strings.TrimSpace(filter.Search) != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(resource_name)"+likeClause+" OR LOWER(user_email)"+likeClause+")", pattern, pattern)
	}
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []model.ActivityLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		logger.Error("Failed to list activity logs", err)
		return nil, err
	}
	return entries, nil
}

func (r *activityLogRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ActivityLog{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete activity log", result.Error, map[string]interface{}{
			"activity_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
