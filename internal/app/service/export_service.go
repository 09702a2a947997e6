package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

const salesSheet = "Ventas"

var saleExportHeader = []string{"ID", "Fecha", "Cliente", "Email", "Teléfono", "Estado", "Total", "Productos"}

type ExportService interface {
	ExportSales(w io.Writer, format ExportFormat) (int, error)
}

type exportService struct {
	saleRepo repository.SaleRepository
}

func NewExportService(saleRepo repository.SaleRepository) ExportService {
	return &exportService{saleRepo: saleRepo}
}

// ExportSales writes one row per sale and returns the number of rows written.
func (s *exportService) ExportSales(w io.Writer, format ExportFormat) (int, error) {
	sales, err := s.saleRepo.FindAll("")
	if err != nil {
		return 0, err
	}

	rows := make([][]string, 0, len(sales))
	for i := range sales {
		rows = append(rows, saleRow(&sales[i]))
	}

	switch format {
	case ExportCSV:
		return len(rows), writeCSV(w, rows)
	case ExportXLSX:
		return len(rows), writeXLSX(w, sales, rows)
	default:
		return 0, &ValidationError{Fields: map[string]string{"format": "Formato inválido, use csv o xlsx"}}
	}
}

func saleRow(sale *model.Sale) []string {
	return []string{
		strconv.FormatUint(uint64(sale.ID), 10),
		sale.CreatedAt.Format("2006-01-02 15:04"),
		sale.CustomerName,
		sale.CustomerEmail,
		sale.CustomerPhone,
		sale.Status.Label(),
		strconv.FormatInt(sale.TotalAmount, 10),
		itemSummary(sale.Items),
	}
}

// itemSummary renders "2x Billetera, 1x Cartera".
func itemSummary(items []model.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := fmt.Sprintf("producto #%d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Title
		}
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, name))
	}
	return strings.Join(parts, ", ")
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(saleExportHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, sales []model.Sale, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), salesSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(salesSheet, "A1", &saleExportHeader); err != nil {
		return err
	}
	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		// keep id and total numeric so the sheet can sum them
		values[0] = sales[i].ID
		values[6] = sales[i].TotalAmount

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(salesSheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(salesSheet, "B", "C", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(salesSheet, "H", "H", 60); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
