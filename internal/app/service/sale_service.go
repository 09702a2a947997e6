package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

// SaleItemInput is one line of the sale form. ID is set when editing an
// existing line. A nil UnitPrice takes the product's current price.
type SaleItemInput struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice *int64 `json:"unit_price"`
}

type SaleInput struct {
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	CustomerPhone string           `json:"customer_phone"`
	Status        model.SaleStatus `json:"status"`
	Notes         string           `json:"notes"`
	Items         []SaleItemInput  `json:"items"`
}

type SaleService interface {
	List(search string) ([]model.Sale, error)
	Get(id uint) (*model.Sale, error)
	Create(actor Actor, input SaleInput) (*model.Sale, error)
	Update(actor Actor, id uint, input SaleInput) (*model.Sale, error)
	UpdateStatus(actor Actor, id uint, status model.SaleStatus) (*model.Sale, error)
	Delete(actor Actor, id uint) error
}

type saleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	activity    ActivityService
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	activity ActivityService,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		activity:    activity,
	}
}

func saleName(sale *model.Sale) string {
	return fmt.Sprintf("Venta #%d - %s", sale.ID, sale.CustomerName)
}

func (s *saleService) List(search string) ([]model.Sale, error) {
	return s.saleRepo.FindAll(search)
}

func (s *saleService) Get(id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

// Create stores the sale, its items and its total atomically.
func (s *saleService) Create(actor Actor, input SaleInput) (*model.Sale, error) {
	items, err := s.validate(&input, nil)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Notes:         input.Notes,
		Items:         items,
	}
	sale.SetStatus(input.Status)
	sale.RecalculateTotal()

	if err := s.saleRepo.Create(sale); err != nil {
		return nil, err
	}

	logger.Info("Sale created", map[string]interface{}{
		"sale_id":      sale.ID,
		"total_amount": sale.TotalAmount,
		"user_email":   actor.Email,
	})
	s.activity.Record(actor, model.ActionCreate, model.ResourceSale, sale.ID, saleName(sale), map[string]interface{}{
		"total_amount": sale.TotalAmount,
		"items":        len(sale.Items),
		"status":       sale.Status,
	})
	return s.Get(sale.ID)
}

// Update replaces the sale's header and lines. Lines missing from the input
// are removed; lines with an id that belongs to another sale are rejected.
func (s *saleService) Update(actor Actor, id uint, input SaleInput) (*model.Sale, error) {
	sale, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	current := make(map[uint]model.SaleItem, len(sale.Items))
	for _, item := range sale.Items {
		current[item.ID] = item
	}
	items, err := s.validate(&input, current)
	if err != nil {
		return nil, err
	}

	kept := make(map[uint]bool, len(items))
	for _, item := range items {
		if item.ID == 0 {
			continue
		}
		if _, ok := current[item.ID]; !ok {
			return nil, ErrSaleItemNotFound
		}
		kept[item.ID] = true
	}
	var removed []uint
	for _, item := range sale.Items {
		if !kept[item.ID] {
			removed = append(removed, item.ID)
		}
	}

	previousTotal := sale.TotalAmount
	sale.CustomerName = input.CustomerName
	sale.CustomerEmail = input.CustomerEmail
	sale.CustomerPhone = input.CustomerPhone
	sale.Notes = input.Notes
	sale.SetStatus(input.Status)
	sale.Items = items
	sale.RecalculateTotal()

	if err := s.saleRepo.Save(sale, removed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}

	logger.Info("Sale updated", map[string]interface{}{
		"sale_id":       id,
		"removed_items": len(removed),
		"total_amount":  sale.TotalAmount,
		"user_email":    actor.Email,
	})
	s.activity.Record(actor, model.ActionUpdate, model.ResourceSale, sale.ID, saleName(sale), map[string]interface{}{
		"previous_total": previousTotal,
		"total_amount":   sale.TotalAmount,
		"status":         sale.Status,
	})
	return s.Get(id)
}

// UpdateStatus changes only the status, keeping sold in step with it.
func (s *saleService) UpdateStatus(actor Actor, id uint, status model.SaleStatus) (*model.Sale, error) {
	if !status.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"status": "Estado de venta inválido"}}
	}
	sale, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	previous := sale.Status

	if err := s.saleRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	sale.SetStatus(status)

	logger.Info("Sale status updated", map[string]interface{}{
		"sale_id":    id,
		"from":       previous,
		"to":         status,
		"user_email": actor.Email,
	})
	s.activity.Record(actor, model.ActionUpdate, model.ResourceSale, sale.ID, saleName(sale), map[string]interface{}{
		"previous_status": previous,
		"status":          status,
	})
	return sale, nil
}

func (s *saleService) Delete(actor Actor, id uint) error {
	sale, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.saleRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaleNotFound
		}
		return err
	}

	logger.Info("Sale deleted", map[string]interface{}{
		"sale_id":    id,
		"user_email": actor.Email,
	})
	s.activity.Record(actor, model.ActionDelete, model.ResourceSale, id, saleName(sale), map[string]interface{}{
		"total_amount": sale.TotalAmount,
	})
	return nil
}

// validate normalizes input and builds priced sale items. A line that keeps
// the product of its current item skips the product lookup and keeps its
// stored price, so sales of since-deleted products stay editable. New or
// re-pointed lines need a live product.
func (s *saleService) validate(input *SaleInput, current map[uint]model.SaleItem) ([]model.SaleItem, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	input.Notes = strings.TrimSpace(input.Notes)
	if input.Status == "" {
		input.Status = model.SaleStatusPending
	}

	errs := fieldErrors{}
	if input.CustomerName == "" {
		errs.add("customer_name", "El nombre del cliente es requerido")
	}
	if input.CustomerEmail != "" && !emailPattern.MatchString(input.CustomerEmail) {
		errs.add("customer_email", "Email inválido")
	}
	if !input.Status.Valid() {
		errs.add("status", "Estado de venta inválido")
	}
	if len(input.Items) == 0 {
		errs.add("items", "La venta debe tener al menos un producto")
	}

	items := make([]model.SaleItem, 0, len(input.Items))
	for i, line := range input.Items {
		field := fmt.Sprintf("items[%d]", i)
		if line.Quantity < 1 {
			errs.add(field+".quantity", "La cantidad debe ser al menos 1")
		}
		if line.UnitPrice != nil && *line.UnitPrice < 0 {
			errs.add(field+".unit_price", "El precio no puede ser negativo")
		}

		if line.ProductID == 0 {
			errs.add(field+".product_id", "El producto es requerido")
			continue
		}
		if prev, ok := current[line.ID]; ok && line.ID != 0 && prev.ProductID == line.ProductID {
			item := model.SaleItem{
				ID:        line.ID,
				ProductID: prev.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: prev.UnitPrice,
			}
			if line.UnitPrice != nil {
				item.UnitPrice = *line.UnitPrice
			}
			item.Recalculate()
			items = append(items, item)
			continue
		}
		product, err := s.productRepo.FindByID(line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs.add(field+".product_id", "El producto no existe")
				continue
			}
			return nil, err
		}

		item := model.SaleItem{
			ID:        line.ID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		}
		if line.UnitPrice != nil {
			item.UnitPrice = *line.UnitPrice
		}
		item.Recalculate()
		items = append(items, item)
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return items, nil
}
