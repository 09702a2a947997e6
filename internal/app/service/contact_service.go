package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

const minMessageLength = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// UnreadListener is told the new unread count whenever it may have changed.
type UnreadListener func(count int64)

type ContactService interface {
	Submit(input ContactInput) (*model.ContactMessage, error)
	List() ([]model.ContactMessage, error)
	ToggleRead(id uint) (*model.ContactMessage, error)
	Delete(id uint) error
	UnreadCount() (int64, error)
	OnUnreadChange(listener UnreadListener)
}

type contactService struct {
	repo      repository.ContactMessageRepository
	listeners []UnreadListener
}

func NewContactService(repo repository.ContactMessageRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) Submit(input ContactInput) (*model.ContactMessage, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Message = strings.TrimSpace(input.Message)

	errs := fieldErrors{}
	if input.Name == "" {
		errs.add("name", "El nombre es requerido")
	}
	if input.Email == "" {
		errs.add("email", "El email es requerido")
	} else if !emailPattern.MatchString(input.Email) {
		errs.add("email", "Email inválido")
	}
	if input.Message == "" {
		errs.add("message", "El mensaje es requerido")
	} else if utf8.RuneCountInString(input.Message) < minMessageLength {
		errs.add("message", "El mensaje debe tener al menos 10 caracteres")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	message := &model.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Message: input.Message,
	}
	if err := s.repo.Create(message); err != nil {
		return nil, err
	}

	logger.Info("Contact message received", map[string]interface{}{
		"message_id": message.ID,
	})
	s.notify()
	return message, nil
}

func (s *contactService) List() ([]model.ContactMessage, error) {
	return s.repo.FindAll()
}

// ToggleRead flips the read flag and returns the updated message.
func (s *contactService) ToggleRead(id uint) (*model.ContactMessage, error) {
	message, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	message.Read = !message.Read
	if err := s.repo.SetRead(id, message.Read); err != nil {
		return nil, err
	}

	logger.Info("Contact message read flag changed", map[string]interface{}{
		"message_id": id,
		"read":       message.Read,
	})
	s.notify()
	return message, nil
}

func (s *contactService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	logger.Info("Contact message deleted", map[string]interface{}{
		"message_id": id,
	})
	s.notify()
	return nil
}

func (s *contactService) UnreadCount() (int64, error) {
	return s.repo.CountUnread()
}

// OnUnreadChange registers listener. Call it during wiring, before serving requests.
func (s *contactService) OnUnreadChange(listener UnreadListener) {
	s.listeners = append(s.listeners, listener)
}

func (s *contactService) notify() {
	if len(s.listeners) == 0 {
		return
	}
	count, err := s.repo.CountUnread()
	if err != nil {
		logger.Warn("Failed to count unread messages", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	for _, listener := range s.listeners {
		listener(count)
	}
}
