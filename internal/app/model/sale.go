package model

import "time"

type SaleStatus string

const (
	SaleStatusPending    SaleStatus = "pendiente"
	SaleStatusInProgress SaleStatus = "en_proceso"
	SaleStatusCompleted  SaleStatus = "completado"
	SaleStatusCancelled  SaleStatus = "cancelado"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusPending, SaleStatusInProgress, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// Label returns the dashboard wording for the status.
func (s SaleStatus) Label() string {
	switch s {
	case SaleStatusPending:
		return "Pendiente"
	case SaleStatusInProgress:
		return "En proceso"
	case SaleStatusCompleted:
		return "Completado"
	case SaleStatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

type Sale struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	CustomerName  string     `gorm:"type:varchar(150);not null;index" json:"customer_name"`
	CustomerEmail string     `gorm:"type:varchar(150)" json:"customer_email"`
	CustomerPhone string     `gorm:"type:varchar(50)" json:"customer_phone"`
	TotalAmount   int64      `gorm:"not null;default:0" json:"total_amount"`
	Status        SaleStatus `gorm:"type:varchar(20);not null;default:'pendiente';index" json:"status"`
	Notes         string     `gorm:"type:text" json:"notes"`
	Sold          bool       `gorm:"not null;default:false" json:"sold"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Sale) TableName() string {
	return "sales"
}

// SetStatus changes the status and keeps Sold in step with it.
func (s *Sale) SetStatus(status SaleStatus) {
	s.Status = status
	s.Sold = status == SaleStatusCompleted
}

// RecalculateTotal recomputes every item subtotal and the sale total.
func (s *Sale) RecalculateTotal() int64 {
	var total int64
	for i := range s.Items {
		total += s.Items[i].Recalculate()
	}
	s.TotalAmount = total
	return total
}

type SaleItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SaleID    uint      `gorm:"not null;index" json:"sale_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Subtotal  int64     `gorm:"not null" json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
}

func (SaleItem) TableName() string {
	return "sales_items"
}

// Recalculate sets Subtotal to Quantity × UnitPrice and returns it.
func (i *SaleItem) Recalculate() int64 {
	i.Subtotal = int64(i.Quantity) * i.UnitPrice
	return i.Subtotal
}
