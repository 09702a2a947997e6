package repository

import (
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/catalog"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

// CatalogFilter is a fully resolved storefront query.
type CatalogFilter struct {
	MainCategory model.MainCategory
	CategoryID   *uint
	Statuses     []model.InventoryStatus
	Bands        []catalog.Band
	Search       string
}

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
	FindByID(id uint) (*model.Product, error)
	FindVisibleByID(id uint) (*model.Product, error)
	FindVisibleBySlug(slug string) (*model.Product, error)
	SlugExists(slug string) (bool, error)
	FindCatalog(filter CatalogFilter) ([]model.Product, error)
	FindFeatured(limit int) ([]model.Product, error)
	FindAllForAdmin(search string) ([]model.Product, error)
	CountByCategory(categoryID uint) (int64, error)
	CountDeletedInSales(categoryID uint) (int64, error)
	SyncMainCategory(categoryID uint, main model.MainCategory) error
	CountVisibleByCategory() (map[uint]int64, error)
	Count() (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"title":       product.Title,
		"category_id": product.CategoryID,
	})

	if err := r.db.Omit("Category").Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"title":       product.Title,
			"category_id": product.CategoryID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Omit("Category", "CreatedAt").Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

// visible restricts to products the storefront may show.
func (r *productRepository) visible() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Where("products.available = ?", true).
		Where("products.inventory_status <> ?", model.InventoryUnavailable)
}

func (r *productRepository) FindVisibleByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.visible().Preload("Category").Where("products.id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindVisibleBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.visible().Preload("Category").Where("products.slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SlugExists includes soft-deleted rows since the unique index still holds them.
func (r *productRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Unscoped().Model(&model.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindCatalog runs the whole storefront predicate in one query:
// visibility, domain, sub-category, status set, price bands (OR'd) and search.
func (r *productRepository) FindCatalog(filter CatalogFilter) ([]model.Product, error) {
	logger.Debug("Finding catalog products", map[string]interface{}{
		"main_category": filter.MainCategory,
		"category_id":   filter.CategoryID,
		"statuses":      filter.Statuses,
		"price_bands":   len(filter.Bands),
		"search":        filter.Search,
	})

	query := r.visible().Preload("Category")

	if filter.MainCategory != "" {
		query = query.Where("products.main_category = ?", filter.MainCategory)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("products.inventory_status IN ?", filter.Statuses)
	}
	if len(filter.Bands) > 0 {
		clause, args := priceBandsClause(filter.Bands)
		query = query.Where(clause, args...)
	}
	if strings.TrimSpace(filter.Search) != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(products.title)"+likeClause+" OR LOWER(products.description)"+likeClause+")", pattern, pattern)
	}

	var products []model.Product
	if err := query.Order("products.created_at DESC").Order("products.id DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find catalog products", err)
		return nil, err
	}

	logger.Debug("Catalog products found", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func priceBandsClause(bands []catalog.Band) (string, []interface{}) {
	var parts []string
	var args []interface{}
	for _, b := range bands {
		switch {
		case b.HasMin && b.HasMax:
			parts = append(parts, "(products.price >= ? AND products.price <= ?)")
			args = append(args, b.Min, b.Max)
		case b.HasMin:
			parts = append(parts, "products.price >= ?")
			args = append(args, b.Min)
		case b.HasMax:
			parts = append(parts, "products.price <= ?")
			args = append(args, b.Max)
		default:
			parts = append(parts, "1 = 1")
		}
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func (r *productRepository) FindFeatured(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").
		Where("featured = ? AND available = ?", true, true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to find featured products", err)
		return nil, err
	}
	return products, nil
}

// FindAllForAdmin includes unavailable products.
func (r *productRepository) FindAllForAdmin(search string) ([]model.Product, error) {
	query := r.db.Preload("Category")
	if strings.TrimSpace(search) != "" {
		query = query.Where("LOWER(title)"+likeClause, containsPattern(search))
	}

	var products []model.Product
	if err := query.Order("created_at DESC").Order("id DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to list products for admin", err)
		return nil, err
	}
	return products, nil
}

// CountByCategory counts live products, hidden ones included.
func (r *productRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountDeletedInSales counts soft-deleted products of a category that sale
// items still reference. Those rows cannot be purged.
func (r *productRepository) CountDeletedInSales(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.Product{}).
		Where("category_id = ? AND deleted_at IS NOT NULL", categoryID).
		Where("id IN (?)", r.db.Table("sales_items").Select("product_id")).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count deleted products in sales", err, map[string]interface{}{
			"category_id": categoryID,
		})
	}
	return count, err
}

type categoryCount struct {
	CategoryID uint
	Total      int64
}

// CountVisibleByCategory counts storefront-visible products per category.
// No other catalog filter applies here.
func (r *productRepository) CountVisibleByCategory() (map[uint]int64, error) {
	var rows []categoryCount
	err := r.visible().
		Select("products.category_id AS category_id, COUNT(*) AS total").
		Group("products.category_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count products per category", err)
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

// SyncMainCategory copies a category's domain onto its products, soft-deleted ones included.
func (r *productRepository) SyncMainCategory(categoryID uint, main model.MainCategory) error {
	err := r.db.Unscoped().Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("main_category", main).Error
	if err != nil {
		logger.Error("Failed to sync product main category", err, map[string]interface{}{
			"category_id":   categoryID,
			"main_category": main,
		})
	}
	return err
}
