package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type ActionType string
type ResourceType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"

	ResourceProduct  ResourceType = "PRODUCT"
	ResourceCategory ResourceType = "CATEGORY"
	ResourceSale     ResourceType = "SALE"
	ResourceUser     ResourceType = "USER"
)

func (a ActionType) Valid() bool {
	return a == ActionCreate || a == ActionUpdate || a == ActionDelete
}

// ActivityLog is an append-only audit row. Rows are never updated.
type ActivityLog struct {
	ID           uint              `gorm:"primarykey" json:"id"`
	UserID       uint              `gorm:"index" json:"user_id"`
	UserEmail    string            `gorm:"type:varchar(150);index" json:"user_email"`
	ActionType   ActionType        `gorm:"type:varchar(10);not null;index" json:"action_type"`
	ResourceType ResourceType      `gorm:"type:varchar(20);not null;index" json:"resource_type"`
	ResourceID   uint              `json:"resource_id"`
	ResourceName string            `gorm:"type:varchar(200)" json:"resource_name"`
	Details      datatypes.JSONMap `json:"details"`
	CreatedAt    time.Time         `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

var actionVerbs = map[ActionType]string{
	ActionCreate: "Creó",
	ActionUpdate: "Actualizó",
	ActionDelete: "Eliminó",
}

var resourceNouns = map[ResourceType]string{
	ResourceProduct:  "Producto",
	ResourceCategory: "Categoría",
	ResourceUser:     "Usuario",
	ResourceSale:     "Venta",
}

// Summary renders the entry as a dashboard sentence, e.g. `Creó Producto: "Billetera"`.
func (a *ActivityLog) Summary() string {
	verb, ok := actionVerbs[a.ActionType]
	if !ok {
		verb = string(a.ActionType)
	}
	noun, ok := resourceNouns[a.ResourceType]
	if !ok {
		noun = string(a.ResourceType)
	}
	if a.ResourceName != "" {
		return fmt.Sprintf("%s %s: %q", verb, noun, a.ResourceName)
	}
	return verb + " " + noun
}
