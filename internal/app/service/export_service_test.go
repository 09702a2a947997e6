package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedExportSales(t *testing.T) (*testEnv, ExportService) {
	f := setupSaleService(t)
	_, err := f.svc.Create(testActor, SaleInput{
		CustomerName:  "Ana",
		CustomerEmail: "ana@gmp.uy",
		Status:        model.SaleStatusCompleted,
		Items: []SaleItemInput{
			{ProductID: f.wallet.ID, Quantity: 2},
			{ProductID: f.handbag.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return f.env, NewExportService(f.env.sales)
}

func TestExportService_CSV(t *testing.T) {
	_, svc := seedExportSales(t)

	var buf bytes.Buffer
	n, err := svc.ExportSales(&buf, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, saleExportHeader, records[0])
	assert.Equal(t, "Ana", records[1][2])
	assert.Equal(t, "Completado", records[1][5])
	assert.Equal(t, "210000", records[1][6])
	assert.Equal(t, "2x Billetera, 1x Cartera", records[1][7])
}

func TestExportService_XLSX(t *testing.T) {
	_, svc := seedExportSales(t)

	var buf bytes.Buffer
	_, err := svc.ExportSales(&buf, ExportXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(salesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cliente", rows[0][2])
	assert.Equal(t, "210000", rows[1][6])
}

func TestExportService_UnknownFormat(t *testing.T) {
	_, svc := seedExportSales(t)

	_, err := svc.ExportSales(&bytes.Buffer{}, "pdf")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
