package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductController_CRUD(t *testing.T) {
	s := setupControllerTest(t, nil)
	category := s.category(t, "Carteras", model.MainCategoryLeather)

	input := service.ProductInput{
		Title:            "Cartera Sol",
		Description:      "Cartera de cuero curtido vegetal",
		ShortDescription: "Cartera de cuero",
		Price:            85000,
		CategoryID:       category.ID,
		Images:           []string{"https://cdn.gmp.uy/products/sol.jpg"},
	}

	w := s.do(t, http.MethodPost, "/admin/products", input)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "cartera-sol", created["slug"])
	assert.Equal(t, string(model.MainCategoryLeather), created["main_category"])
	assert.Equal(t, string(model.InventoryUniquePiece), created["inventory_status"])
	assert.Equal(t, true, created["available"])
	id := uint(created["id"].(float64))

	w = s.do(t, http.MethodGet, fmt.Sprintf("/admin/products/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	input.Price = 90000
	input.Available = new(bool)
	w = s.do(t, http.MethodPut, fmt.Sprintf("/admin/products/%d", id), input)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)["product"].(map[string]interface{})
	assert.EqualValues(t, 90000, updated["price"])
	assert.Equal(t, false, updated["available"])

	w = s.do(t, http.MethodGet, "/admin/products?search=sol", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"], "admin list includes unavailable products")

	w = s.do(t, http.MethodGet, "/catalog/products", nil)
	assert.EqualValues(t, 0, decode(t, w)["count"])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/admin/products/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ProductNotFound, decode(t, w)["error"])
}

func TestProductController_Validation(t *testing.T) {
	s := setupControllerTest(t, nil)

	w := s.do(t, http.MethodPost, "/admin/products", service.ProductInput{Title: "Sin precio"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	response := decode(t, w)
	assert.Equal(t, apperrors.ValidationError, response["error"])
	fields := response["fields"].(map[string]interface{})
	for _, field := range []string{"description", "short_description", "price", "category_id"} {
		assert.Contains(t, fields, field)
	}
	assert.NotContains(t, fields, "title")
}

func TestProductController_Authorization(t *testing.T) {
	s := setupControllerTest(t, nil)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"admin token", s.token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.doWithToken(t, http.MethodGet, "/admin/products", nil, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
