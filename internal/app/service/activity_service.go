package service

import (
	"errors"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

const RecentActivityLimit = 10

// Actor identifies the admin performing a mutation.
type Actor struct {
	UserID uint
	Email  string
}

type ActivityEntry struct {
	model.ActivityLog
	Summary string `json:"summary"`
}

type ActivityService interface {
	Record(actor Actor, action model.ActionType, resource model.ResourceType, resourceID uint, name string, details map[string]interface{})
	List(filter repository.ActivityLogFilter) ([]ActivityEntry, error)
	Recent() ([]ActivityEntry, error)
	Delete(id uint) error
}

type activityService struct {
	repo repository.ActivityLogRepository
}

func NewActivityService(repo repository.ActivityLogRepository) ActivityService {
	return &activityService{repo: repo}
}

// Record writes an audit entry. Failures are logged and never surface to the caller.
func (s *activityService) Record(actor Actor, action model.ActionType, resource model.ResourceType, resourceID uint, name string, details map[string]interface{}) {
	entry := &model.ActivityLog{
		UserID:       actor.UserID,
		UserEmail:    actor.Email,
		ActionType:   action,
		ResourceType: resource,
		ResourceID:   resourceID,
		ResourceName: name,
		Details:      details,
	}
	if err := s.repo.Create(entry); err != nil {
		logger.Warn("Activity log entry dropped", map[string]interface{}{
			"action_type":   action,
			"resource_type": resource,
			"resource_id":   resourceID,
			"error":         err.Error(),
		})
	}
}

func (s *activityService) List(filter repository.ActivityLogFilter) ([]ActivityEntry, error) {
	if filter.ActionType != "" && !filter.ActionType.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"action_type": "Tipo de acción inválido"}}
	}
	logs, err := s.repo.Find(filter)
	if err != nil {
		return nil, err
	}
	return toEntries(logs), nil
}

func (s *activityService) Recent() ([]ActivityEntry, error) {
	return s.List(repository.ActivityLogFilter{Limit: RecentActivityLimit})
}

func (s *activityService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}
	logger.Info("Activity log deleted", map[string]interface{}{
		"activity_id": id,
	})
	return nil
}

func toEntries(logs []model.ActivityLog) []ActivityEntry {
	entries := make([]ActivityEntry, len(logs))
	for i := range logs {
		entries[i] = ActivityEntry{ActivityLog: logs[i], Summary: logs[i].Summary()}
	}
	return entries
}
