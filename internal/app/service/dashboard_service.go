package service

import (
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
)

type DashboardStats struct {
	Products       int64 `json:"products"`
	Categories     int64 `json:"categories"`
	Sales          int64 `json:"sales"`
	Revenue        int64 `json:"revenue"` // completed sales only
	UnreadMessages int64 `json:"unread_messages"`
}

type DashboardService interface {
	Stats() (*DashboardStats, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	saleRepo     repository.SaleRepository
	messageRepo  repository.ContactMessageRepository
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	saleRepo repository.SaleRepository,
	messageRepo repository.ContactMessageRepository,
) DashboardService {
	return &dashboardService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		saleRepo:     saleRepo,
		messageRepo:  messageRepo,
	}
}

func (s *dashboardService) Stats() (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.Products, err = s.productRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Categories, err = s.categoryRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Sales, err = s.saleRepo.Count(); err != nil {
		return nil, err
	}
	if stats.Revenue, err = s.saleRepo.SumCompleted(); err != nil {
		return nil, err
	}
	if stats.UnreadMessages, err = s.messageRepo.CountUnread(); err != nil {
		return nil, err
	}
	return &stats, nil
}
