package service

import (
	"errors"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	MainCategory model.MainCategory `json:"main_category"`
}

type CategoryService interface {
	List() ([]model.Category, error)
	Create(actor Actor, input CategoryInput) (*model.Category, error)
	Update(actor Actor, id uint, input CategoryInput) (*model.Category, error)
	Delete(actor Actor, id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	activity     ActivityService
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	activity ActivityService,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		activity:     activity,
	}
}

// List returns every category with its live product count, hidden products included.
func (s *categoryService) List() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		count, err := s.productRepo.CountByCategory(categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].ProductCount = count
	}
	return categories, nil
}

func (s *categoryService) Create(actor Actor, input CategoryInput) (*model.Category, error) {
	if err := s.validate(&input, 0); err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:         input.Name,
		Description:  input.Description,
		MainCategory: input.MainCategory,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
		"user_email":  actor.Email,
	})
	s.activity.Record(actor, model.ActionCreate, model.ResourceCategory, category.ID, category.Name, map[string]interface{}{
		"main_category": category.MainCategory,
	})
	return category, nil
}

func (s *categoryService) Update(actor Actor, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&input, id); err != nil {
		return nil, err
	}

	previous := category.Name
	domainChanged := category.MainCategory != input.MainCategory
	category.Name = input.Name
	category.Description = input.Description
	category.MainCategory = input.MainCategory

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	if domainChanged {
		if err := s.productRepo.SyncMainCategory(category.ID, category.MainCategory); err != nil {
			return nil, err
		}
	}

	logger.Info("Category updated", map[string]interface{}{
		"category_id": id,
		"user_email":  actor.Email,
	})
	s.activity.Record(actor, model.ActionUpdate, model.ResourceCategory, category.ID, category.Name, map[string]interface{}{
		"previous_name": previous,
		"main_category": category.MainCategory,
	})
	return category, nil
}

// Delete refuses while any live product, visible or not, references the
// category, or while a deleted one is still part of a sale.
func (s *categoryService) Delete(actor Actor, id uint) error {
	category, err := s.find(id)
	if err != nil {
		return err
	}

	count, err := s.productRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Category delete rejected", map[string]interface{}{
			"category_id": id,
			"products":    count,
		})
		return &CategoryInUseError{Name: category.Name, Count: count}
	}

	inSales, err := s.productRepo.CountDeletedInSales(id)
	if err != nil {
		return err
	}
	if inSales > 0 {
		logger.Warn("Category delete rejected", map[string]interface{}{
			"category_id":      id,
			"deleted_in_sales": inSales,
		})
		return &CategoryInUseError{Name: category.Name, Count: inSales, InSales: true}
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
		"user_email":  actor.Email,
	})
	s.activity.Record(actor, model.ActionDelete, model.ResourceCategory, id, category.Name, nil)
	return nil
}

func (s *categoryService) find(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) validate(input *CategoryInput, selfID uint) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	errs := fieldErrors{}
	if input.Name == "" {
		errs.add("name", "El nombre es requerido")
	}
	if input.MainCategory == "" {
		errs.add("main_category", "La categoría principal es requerida")
	} else if !input.MainCategory.Valid() {
		errs.add("main_category", "Categoría principal inválida")
	}
	if err := errs.err(); err != nil {
		return err
	}

	existing, err := s.categoryRepo.FindByName(input.Name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return ErrCategoryExists
	}
	return nil
}
