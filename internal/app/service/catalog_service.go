package service

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gmp-artesanias/gmp-backend/config"
	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/internal/catalog"
	"github.com/gmp-artesanias/gmp-backend/internal/metrics"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"gorm.io/gorm"
)

type ContactLinks struct {
	WhatsApp  string `json:"whatsapp"`
	Instagram string `json:"instagram"`
}

// ProductDetail is a storefront product with its status copy and contact links.
type ProductDetail struct {
	model.Product
	Status  model.InventoryStatusInfo `json:"status_info"`
	Contact ContactLinks              `json:"contact"`
}

type CatalogService interface {
	catalog.Fetcher
	ListProducts(filters catalog.Filters) ([]model.Product, error)
	GetProduct(ref string) (*ProductDetail, error)
	Featured() ([]model.Product, error)
	Categories() ([]model.Category, error)
	NewSession(publish catalog.Publisher) *catalog.Session
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	metrics      *metrics.Metrics
	thresholds   catalog.Thresholds
	debounce     time.Duration
	featured     int
	contact      config.ContactConfig
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cfg *config.Config,
	m *metrics.Metrics,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		metrics:      m,
		thresholds:   catalog.Thresholds{Low: cfg.Catalog.PriceLow, High: cfg.Catalog.PriceHigh},
		debounce:     cfg.Catalog.SearchDebounce,
		featured:     cfg.Catalog.FeaturedLimit,
		contact:      cfg.Contact,
	}
}

// Browse runs a composed query as a single database round trip.
func (s *catalogService) Browse(q catalog.Query) ([]model.Product, error) {
	kind := "listing"
	if strings.TrimSpace(q.Search) != "" {
		kind = "search"
	}

	filter := repository.CatalogFilter{
		MainCategory: q.MainCategory,
		Statuses:     q.Statuses,
		Bands:        q.Bands,
		Search:       q.Search,
	}
	if q.Category != "" {
		category, err := s.categoryRepo.FindByName(q.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.metrics.RecordCatalogQuery(kind, ErrCategoryNotFound)
				return nil, ErrCategoryNotFound
			}
			s.metrics.RecordCatalogQuery(kind, err)
			return nil, err
		}
		filter.CategoryID = &category.ID
	}

	products, err := s.productRepo.FindCatalog(filter)
	s.metrics.RecordCatalogQuery(kind, err)
	if err != nil {
		return nil, err
	}

	logger.Debug("Catalog query served", map[string]interface{}{
		"kind":     kind,
		"statuses": len(q.Statuses),
		"bands":    len(q.Bands),
		"count":    len(products),
	})
	return products, nil
}

func (s *catalogService) ListProducts(filters catalog.Filters) ([]model.Product, error) {
	return s.Browse(filters.Query(s.thresholds))
}

// GetProduct resolves ref as a numeric id first, then as a slug. A numeric
// ref with no matching id is retried as a slug, since titles like "2024"
// produce all-digit slugs.
func (s *catalogService) GetProduct(ref string) (*ProductDetail, error) {
	var (
		product *model.Product
		err     error
	)
	if id, convErr := strconv.ParseUint(ref, 10, 32); convErr == nil {
		product, err = s.productRepo.FindVisibleByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			product, err = s.productRepo.FindVisibleBySlug(ref)
		}
	} else {
		product, err = s.productRepo.FindVisibleBySlug(ref)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return &ProductDetail{
		Product: *product,
		Status:  product.InventoryStatus.Info(),
		Contact: s.contactLinks(product.Title),
	}, nil
}

func (s *catalogService) contactLinks(title string) ContactLinks {
	links := ContactLinks{Instagram: s.contact.InstagramURL}
	if s.contact.WhatsAppNumber != "" {
		text := url.QueryEscape("Hola! Me interesa el producto: " + title)
		links.WhatsApp = fmt.Sprintf("https://wa.me/%s?text=%s", s.contact.WhatsAppNumber, text)
	}
	return links
}

func (s *catalogService) Featured() ([]model.Product, error) {
	products, err := s.productRepo.FindFeatured(s.featured)
	s.metrics.RecordCatalogQuery("featured", err)
	return products, err
}

// Categories lists every category with its count of storefront-visible products.
// The counts ignore inventory, price and search filters.
func (s *catalogService) Categories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	counts, err := s.productRepo.CountVisibleByCategory()
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ProductCount = counts[categories[i].ID]
	}
	return categories, nil
}

func (s *catalogService) NewSession(publish catalog.Publisher) *catalog.Session {
	return catalog.NewSession(s, s.thresholds, s.debounce, publish)
}
