package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InventoryStatus string // fulfillment mode of a product

const (
	InventoryUniquePiece              InventoryStatus = "disponible_pieza_unica"                // ready to ship, one of a kind
	InventoryOnOrderSameMaterial      InventoryStatus = "disponible_encargo_mismo_material"     // made to order, same material
	InventoryOnOrderDifferentMaterial InventoryStatus = "disponible_encargo_diferente_material" // made to order, customer picks material
	InventoryUnavailable              InventoryStatus = "no_disponible"                         // hidden from the storefront
)

func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryUniquePiece, InventoryOnOrderSameMaterial, InventoryOnOrderDifferentMaterial, InventoryUnavailable:
		return true
	}
	return false
}

// InventoryStatusInfo is the customer-facing copy for a status.
type InventoryStatusInfo struct {
	Label   string `json:"label"`
	Message string `json:"message,omitempty"`
}

func (s InventoryStatus) Info() InventoryStatusInfo {
	switch s {
	case InventoryUniquePiece:
		return InventoryStatusInfo{Label: "Pieza Única", Message: "Entrega inmediata - Pieza única"}
	case InventoryOnOrderSameMaterial:
		return InventoryStatusInfo{Label: "Encargo Mismo Material", Message: "Encargalo, se hace igual en 3-4 días o más dependiendo complejidad"}
	case InventoryOnOrderDifferentMaterial:
		return InventoryStatusInfo{Label: "Encargo Diferente Material", Message: "Se hace a medida, elegí el material en contacto por WhatsApp/Instagram"}
	case InventoryUnavailable:
		return InventoryStatusInfo{Label: "No Disponible", Message: "Temporalmente no disponible"}
	default:
		return InventoryStatusInfo{Label: "Estado Desconocido"}
	}
}

type MainCategory string // artisan domain

const (
	MainCategoryLeather MainCategory = "cuero"
	MainCategoryMacrame MainCategory = "macrame"
)

func (m MainCategory) Valid() bool {
	return m == MainCategoryLeather || m == MainCategoryMacrame
}

type Product struct {
	ID               uint                        `gorm:"primarykey" json:"id"`
	Title            string                      `gorm:"type:varchar(200);not null" json:"title"`
	Slug             string                      `gorm:"type:varchar(220);uniqueIndex" json:"slug"`
	Description      string                      `gorm:"type:text;not null" json:"description"`
	ShortDescription string                      `gorm:"type:varchar(500)" json:"short_description"`
	Price            int64                       `gorm:"not null" json:"price"` // whole pesos, no cents
	CategoryID       uint                        `gorm:"not null;index" json:"category_id"`
	Available        bool                        `gorm:"not null;index" json:"available"`
	Featured         bool                        `gorm:"not null;default:false" json:"featured"`
	InventoryStatus  InventoryStatus             `gorm:"type:varchar(50);not null;default:'disponible_pieza_unica';index" json:"inventory_status"`
	MainCategory     MainCategory                `gorm:"type:varchar(20);not null;index" json:"main_category"`
	Images           datatypes.JSONSlice[string] `json:"images"`
	CreatedAt        time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	DeletedAt        gorm.DeletedAt              `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// Visible reports whether the storefront may show the product.
func (p *Product) Visible() bool {
	return p.Available && p.InventoryStatus != InventoryUnavailable
}
