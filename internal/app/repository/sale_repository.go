package repository

import (
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(sale *model.Sale) error
	Save(sale *model.Sale, removedItemIDs []uint) error
	UpdateStatus(id uint, status model.SaleStatus) error
	Delete(id uint) error
	FindByID(id uint) (*model.Sale, error)
	FindAll(search string) ([]model.Sale, error)
	Count() (int64, error)
	SumCompleted() (int64, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// withItems preloads items and their products, including soft-deleted ones.
func (r *saleRepository) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sales_items.id ASC")
	}).Preload("Items.Product", func(tx *gorm.DB) *gorm.DB {
		return tx.Unscoped()
	})
}

// Create writes the sale, its items and the explicit total in one transaction.
func (r *saleRepository) Create(sale *model.Sale) error {
	logger.Debug("Creating sale in database", map[string]interface{}{
		"customer_name": sale.CustomerName,
		"items":         len(sale.Items),
		"total_amount":  sale.TotalAmount,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(sale).Error; err != nil {
			return err
		}
		for i := range sale.Items {
			sale.Items[i].SaleID = sale.ID
			if err := tx.Omit("Product").Create(&sale.Items[i]).Error; err != nil {
				return err
			}
		}
		return writeTotal(tx, sale)
	})
	if err != nil {
		logger.Error("Failed to create sale in database", err, map[string]interface{}{
			"customer_name": sale.CustomerName,
		})
		return err
	}

	logger.Debug("Sale created in database", map[string]interface{}{
		"sale_id": sale.ID,
	})
	return nil
}

// Save applies an edited sale: header fields, removed items, updated items,
// new items, then the explicit total.
func (r *saleRepository) Save(sale *model.Sale, removedItemIDs []uint) error {
	logger.Debug("Saving sale in database", map[string]interface{}{
		"sale_id":       sale.ID,
		"items":         len(sale.Items),
		"removed_items": removedItemIDs,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Sale{ID: sale.ID}).
			Select("CustomerName", "CustomerEmail", "CustomerPhone", "Status", "Sold", "Notes").
			Updates(sale)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if len(removedItemIDs) > 0 {
			if err := tx.Where("sale_id = ? AND id IN ?", sale.ID, removedItemIDs).Delete(&model.SaleItem{}).Error; err != nil {
				return err
			}
		}

		for i := range sale.Items {
			item := &sale.Items[i]
			item.SaleID = sale.ID
			if item.ID == 0 {
				if err := tx.Omit("Product").Create(item).Error; err != nil {
					return err
				}
				continue
			}
			err := tx.Model(&model.SaleItem{}).
				Where("id = ? AND sale_id = ?", item.ID, sale.ID).
				Updates(map[string]interface{}{
					"product_id": item.ProductID,
					"quantity":   item.Quantity,
					"unit_price": item.UnitPrice,
					"subtotal":   item.Subtotal,
				}).Error
			if err != nil {
				return err
			}
		}

		return writeTotal(tx, sale)
	})
	if err != nil {
		logger.Error("Failed to save sale in database", err, map[string]interface{}{
			"sale_id": sale.ID,
		})
	}
	return err
}

func writeTotal(tx *gorm.DB, sale *model.Sale) error {
	return tx.Model(&model.Sale{}).Where("id = ?", sale.ID).
		Update("total_amount", sale.TotalAmount).Error
}

// UpdateStatus writes status and sold together.
func (r *saleRepository) UpdateStatus(id uint, status model.SaleStatus) error {
	result := r.db.Model(&model.Sale{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status": status,
		"sold":   status == model.SaleStatusCompleted,
	})
	if result.Error != nil {
		logger.Error("Failed to update sale status", result.Error, map[string]interface{}{
			"sale_id": id,
			"status":  status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the sale and its items.
func (r *saleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&model.SaleItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Sale{}, id)
		if result.Error != nil {
			logger.Error("Failed to delete sale from database", result.Error, map[string]interface{}{
				"sale_id": id,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *saleRepository) FindByID(id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := r.withItems(r.db).First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindAll(search string) ([]model.Sale, error) {
	query := r.withItems(r.db)
	if strings.TrimSpace(search) != "" {
		query = query.Where("LOWER(customer_name)"+likeClause, containsPattern(search))
	}

	var sales []model.Sale
	if err := query.Order("created_at DESC").Order("id DESC").Find(&sales).Error; err != nil {
		logger.Error("Failed to list sales", err)
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Sale{}).Count(&count).Error
	return count, err
}

func (r *saleRepository) SumCompleted() (int64, error) {
	var total int64
	err := r.db.Model(&model.Sale{}).
		Where("status = ?", model.SaleStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
