package model

import "time"

type Category struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	Name         string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description  string       `gorm:"type:text" json:"description"`
	MainCategory MainCategory `gorm:"type:varchar(20);not null;index" json:"main_category"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// ProductCount is computed by a count query and never stored.
	ProductCount int64 `gorm:"-" json:"product_count"`
}

func (Category) TableName() string {
	return "categories"
}
