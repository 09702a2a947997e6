package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"record not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), "get product", ResourceNotFound},
		{"postgres duplicate category", fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_categories_name"`), "create category", CategoryAlreadyExists},
		{"sqlite duplicate slug", fmt.Errorf("UNIQUE constraint failed: products.slug"), "create product", ResourceAlreadyExists},
		{"still referenced", fmt.Errorf(`update or delete on table "categories" violates foreign key constraint on table "products": Key is still referenced`), "delete category", ResourceConflict},
		{"missing product", fmt.Errorf(`insert violates foreign key constraint "fk_sales_items_product" (product_id)`), "create sale", ProductNotFound},
		{"timeout", fmt.Errorf("dial tcp: i/o timeout"), "list", InternalExternalAPI},
		{"unknown", fmt.Errorf("boom"), "update sale", InternalServerError},
		{"nil", nil, "", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_NotFoundMessageUsesContext(t *testing.T) {
	assert.Equal(t, "Venta no encontrada", ParseError(gorm.ErrRecordNotFound, "get sale").Message)
	assert.Equal(t, "Error al eliminar. Intentá de nuevo en unos minutos", ParseError(fmt.Errorf("x"), "delete product").Message)
}
