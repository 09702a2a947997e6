package repository

import (
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	Update(category *model.Category) error
	Delete(id uint) error
	FindByID(id uint) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	FindAll() ([]model.Category, error)
	Count() (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name":          category.Name,
		"main_category": category.MainCategory,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	err := r.db.Model(category).Select("Name", "Description", "MainCategory").Updates(category).Error
	if err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
	}
	return err
}

// Delete removes the category together with its soft-deleted products that
// no sale references, in one transaction.
func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		purged := tx.Unscoped().
			Where("category_id = ? AND deleted_at IS NOT NULL", id).
			Where("id NOT IN (?)", tx.Table("sales_items").Select("product_id")).
			Delete(&model.Product{})
		if purged.Error != nil {
			return purged.Error
		}
		if purged.RowsAffected > 0 {
			logger.Debug("Purged deleted products of category", map[string]interface{}{
				"category_id": id,
				"products":    purged.RowsAffected,
			})
		}

		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil && err != gorm.ErrRecordNotFound {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
	}
	return err
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find category by name", err, map[string]interface{}{
				"name": name,
			})
		}
		return nil, err
	}
	return &category, nil
}

// FindAll orders by domain, then name.
func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("main_category ASC").Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Count(&count).Error
	return count, err
}
