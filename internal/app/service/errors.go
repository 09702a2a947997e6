package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryHasProducts = errors.New("category has products")
	ErrCategoryExists      = errors.New("category already exists")
	ErrSaleNotFound        = errors.New("sale not found")
	ErrSaleItemNotFound    = errors.New("sale item does not belong to sale")
	ErrMessageNotFound     = errors.New("contact message not found")
	ErrActivityNotFound    = errors.New("activity log not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAdminNotFound       = errors.New("admin user not found")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenRevoked        = errors.New("token revoked")
	ErrStorageUnavailable  = errors.New("image storage is not configured")
)

// ValidationError maps form fields to Spanish messages shown next to them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors collects messages and turns into a *ValidationError when non-empty.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// CategoryInUseError is returned when deleting a category that still has
// products. InSales marks deleted products kept for sales history.
type CategoryInUseError struct {
	Name    string
	Count   int64
	InSales bool
}

func (e *CategoryInUseError) Error() string {
	if e.InSales {
		return fmt.Sprintf("No se puede eliminar la categoría %q porque tiene %d producto(s) eliminado(s) que figuran en ventas", e.Name, e.Count)
	}
	return fmt.Sprintf("No se puede eliminar la categoría %q porque tiene %d producto(s) asociado(s)", e.Name, e.Count)
}

func (e *CategoryInUseError) Unwrap() error {
	return ErrCategoryHasProducts
}
