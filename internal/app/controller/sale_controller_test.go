package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"testing"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func createSale(t *testing.T, s *testServer) map[string]interface{} {
	t.Helper()
	category := s.category(t, "Billeteras", model.MainCategoryLeather)
	billetera := s.product(t, category, "billetera", 30000, model.InventoryUniquePiece)
	llavero := s.product(t, category, "llavero", 8000, model.InventoryUniquePiece)
	price := int64(7000)

	w := s.do(t, http.MethodPost, "/admin/sales", service.SaleInput{
		CustomerName:  "Lucía Pérez",
		CustomerEmail: "lucia@mail.com",
		Items: []service.SaleItemInput{
			{ProductID: billetera.ID, Quantity: 2},
			{ProductID: llavero.ID, Quantity: 3, UnitPrice: &price},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["sale"].(map[string]interface{})
}

func TestSaleController_Create(t *testing.T) {
	s := setupControllerTest(t, nil)
	sale := createSale(t, s)

	assert.EqualValues(t, 2*30000+3*7000, sale["total_amount"])
	assert.Equal(t, string(model.SaleStatusPending), sale["status"])
	assert.Equal(t, false, sale["sold"])
	assert.Len(t, sale["items"], 2)

	w := s.do(t, http.MethodGet, "/admin/sales?search=luc%C3%ADa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])
}

func TestSaleController_Validation(t *testing.T) {
	s := setupControllerTest(t, nil)

	w := s.do(t, http.MethodPost, "/admin/sales", service.SaleInput{Status: "perdida"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "customer_name")
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "items")
}

func TestSaleController_UpdateStatus(t *testing.T) {
	s := setupControllerTest(t, nil)
	sale := createSale(t, s)
	path := fmt.Sprintf("/admin/sales/%d/status", uint(sale["id"].(float64)))

	tests := []struct {
		status model.SaleStatus
		sold   bool
	}{
		{model.SaleStatusCompleted, true},
		{model.SaleStatusCancelled, false},
		{model.SaleStatusCompleted, true},
		{model.SaleStatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			w := s.do(t, http.MethodPatch, path, UpdateSaleStatusRequest{Status: tt.status})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			updated := decode(t, w)["sale"].(map[string]interface{})
			assert.Equal(t, string(tt.status), updated["status"])
			assert.Equal(t, tt.sold, updated["sold"])
		})
	}

	w := s.do(t, http.MethodPatch, path, UpdateSaleStatusRequest{Status: "perdida"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, "/admin/sales/999/status", UpdateSaleStatusRequest{Status: model.SaleStatusCompleted})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.SaleNotFound, decode(t, w)["error"])
}

func TestSaleController_UpdateAndDelete(t *testing.T) {
	s := setupControllerTest(t, nil)
	sale := createSale(t, s)
	id := uint(sale["id"].(float64))
	items := sale["items"].([]interface{})
	first := items[0].(map[string]interface{})

	w := s.do(t, http.MethodPut, fmt.Sprintf("/admin/sales/%d", id), service.SaleInput{
		CustomerName: "Lucía Pérez",
		Status:       model.SaleStatusCompleted,
		Items: []service.SaleItemInput{
			{ID: uint(first["id"].(float64)), ProductID: uint(first["product_id"].(float64)), Quantity: 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)["sale"].(map[string]interface{})
	assert.EqualValues(t, 30000, updated["total_amount"])
	assert.Equal(t, true, updated["sold"])
	assert.Len(t, updated["items"], 1)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/admin/sales/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/admin/sales/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaleController_Export(t *testing.T) {
	s := setupControllerTest(t, nil)
	createSale(t, s)

	t.Run("csv", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/admin/sales/export?format=csv", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

		rows, err := csv.NewReader(bytes.NewReader(w.Body.Bytes())).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Cliente", rows[0][2])
		assert.Equal(t, "Lucía Pérez", rows[1][2])
		assert.Equal(t, "2x billetera, 3x llavero", rows[1][7])
	})

	t.Run("xlsx", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/admin/sales/export?format=xlsx", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, service.ExportXLSX.ContentType(), w.Header().Get("Content-Type"))

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Ventas")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("unknown format", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/admin/sales/export?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
