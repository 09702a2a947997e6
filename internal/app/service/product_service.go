package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ProductInput is the admin form for a product. Available defaults to true
// and InventoryStatus to a unique piece.
type ProductInput struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	ShortDescription string                `json:"short_description"`
	Price            int64                 `json:"price"`
	CategoryID       uint                  `json:"category_id"`
	Available        *bool                 `json:"available"`
	Featured         bool                  `json:"featured"`
	InventoryStatus  model.InventoryStatus `json:"inventory_status"`
	Images           []string              `json:"images"`
}

type ProductService interface {
	List(search string) ([]model.Product, error)
	Get(id uint) (*model.Product, error)
	Create(actor Actor, input ProductInput) (*model.Product, error)
	Update(actor Actor, id uint, input ProductInput) (*model.Product, error)
	Delete(actor Actor, id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	activity     ActivityService
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	activity ActivityService,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		activity:     activity,
	}
}

func (s *productService) List(search string) ([]model.Product, error) {
	return s.productRepo.FindAllForAdmin(search)
}

func (s *productService) Get(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) Create(actor Actor, input ProductInput) (*model.Product, error) {
	category, err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	product := &model.Product{}
	apply(product, input, category)

	product.Slug, err = s.uniqueSlug(product.Title)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"title": product.Title,
		})
		return nil, err
	}
	product.Category = category

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
		"user_email": actor.Email,
	})
	s.activity.Record(actor, model.ActionCreate, model.ResourceProduct, product.ID, product.Title, map[string]interface{}{
		"price":            product.Price,
		"category":         category.Name,
		"inventory_status": product.InventoryStatus,
	})
	return product, nil
}

func (s *productService) Update(actor Actor, id uint, input ProductInput) (*model.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	category, err := s.validate(&input)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{
		"price":            product.Price,
		"available":        product.Available,
		"inventory_status": product.InventoryStatus,
	}
	apply(product, input, category)

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	product.Category = category

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"user_email": actor.Email,
	})
	s.activity.Record(actor, model.ActionUpdate, model.ResourceProduct, product.ID, product.Title, map[string]interface{}{
		"before": before,
		"after": map[string]interface{}{
			"price":            product.Price,
			"available":        product.Available,
			"inventory_status": product.InventoryStatus,
		},
	})
	return product, nil
}

func (s *productService) Delete(actor Actor, id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
		"user_email": actor.Email,
	})
	s.activity.Record(actor, model.ActionDelete, model.ResourceProduct, id, product.Title, nil)
	return nil
}

// validate normalizes input in place and resolves its category.
func (s *productService) validate(input *ProductInput) (*model.Category, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.ShortDescription = strings.TrimSpace(input.ShortDescription)
	if input.InventoryStatus == "" {
		input.InventoryStatus = model.InventoryUniquePiece
	}

	errs := fieldErrors{}
	if input.Title == "" {
		errs.add("title", "El título es requerido")
	}
	if input.Description == "" {
		errs.add("description", "La descripción es requerida")
	}
	if input.ShortDescription == "" {
		errs.add("short_description", "La descripción corta es requerida")
	}
	if input.Price <= 0 {
		errs.add("price", "El precio debe ser mayor a 0")
	}
	if !input.InventoryStatus.Valid() {
		errs.add("inventory_status", "Estado de inventario inválido")
	}

	var category *model.Category
	if input.CategoryID == 0 {
		errs.add("category_id", "La categoría es requerida")
	} else {
		found, err := s.categoryRepo.FindByID(input.CategoryID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			errs.add("category_id", "La categoría no existe")
		case err != nil:
			return nil, err
		default:
			category = found
		}
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return category, nil
}

func apply(product *model.Product, input ProductInput, category *model.Category) {
	product.Title = input.Title
	product.Description = input.Description
	product.ShortDescription = input.ShortDescription
	product.Price = input.Price
	product.CategoryID = category.ID
	product.MainCategory = category.MainCategory
	product.Available = input.Available == nil || *input.Available
	product.Featured = input.Featured
	product.InventoryStatus = input.InventoryStatus
	product.Images = append([]string{}, input.Images...)
}

// uniqueSlug appends -2, -3, ... until the slug is unused.
func (s *productService) uniqueSlug(title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "producto"
	}
	candidate := base
	for n := 2; ; n++ {
		exists, err := s.productRepo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
