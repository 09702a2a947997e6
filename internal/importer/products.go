// Package importer loads products in bulk from a spreadsheet.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
	"github.com/gmp-artesanias/gmp-backend/internal/app/repository"
	"github.com/gmp-artesanias/gmp-backend/internal/app/service"
	"github.com/gmp-artesanias/gmp-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Columns lists the header names the sheet must carry, in any order.
var Columns = []string{"title", "description", "short_description", "price", "category", "inventory_status", "featured", "images"}

var requiredColumns = []string{"title", "description", "short_description", "price", "category"}

// Row is one product line of the sheet. Line is the 1-based sheet row.
type Row struct {
	Line             int
	Title            string
	Description      string
	ShortDescription string
	Price            int64
	Category         string
	InventoryStatus  model.InventoryStatus
	Featured         bool
	Images           []string
}

// RowError reports a line that could not be read or imported.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

// ReadProducts parses the first sheet of an xlsx workbook. Lines with bad
// values are returned as RowErrors and do not stop the read.
func ReadProducts(r io.Reader) ([]Row, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, errors.New("no sheets found in XLSX file")
	}

	lines, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil, errors.New("no data found in XLSX file")
	}

	index, err := headerIndex(lines[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		rows    []Row
		invalid []RowError
	)
	for i, line := range lines[1:] {
		lineNo := i + 2
		cell := func(name string) string {
			pos, ok := index[name]
			if !ok || pos >= len(line) {
				return ""
			}
			return strings.TrimSpace(line[pos])
		}
		if cell("title") == "" && cell("price") == "" {
			continue
		}

		row, err := parseRow(cell)
		if err != nil {
			invalid = append(invalid, RowError{Line: lineNo, Err: err})
			continue
		}
		row.Line = lineNo
		rows = append(rows, row)
	}

	logger.Info("Product sheet read", map[string]interface{}{
		"sheet":   sheet,
		"rows":    len(rows),
		"invalid": len(invalid),
	})
	return rows, invalid, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(cell func(string) string) (Row, error) {
	row := Row{
		Title:            cell("title"),
		Description:      cell("description"),
		ShortDescription: cell("short_description"),
		Category:         cell("category"),
		InventoryStatus:  model.InventoryStatus(cell("inventory_status")),
	}

	price := strings.NewReplacer(".", "", ",", "", "$", "", " ", "").Replace(cell("price"))
	n, err := strconv.ParseInt(price, 10, 64)
	if err != nil {
		return row, fmt.Errorf("invalid price %q", cell("price"))
	}
	row.Price = n

	if raw := cell("featured"); raw != "" {
		switch strings.ToLower(raw) {
		case "1", "true", "si", "sí", "yes", "x":
			row.Featured = true
		case "0", "false", "no":
		default:
			return row, fmt.Errorf("invalid featured value %q", raw)
		}
	}

	for _, url := range strings.FieldsFunc(cell("images"), func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}) {
		if url = strings.TrimSpace(url); url != "" {
			row.Images = append(row.Images, url)
		}
	}
	return row, nil
}

// Importer creates products through the product service so slugs, domain
// and activity logging follow the same rules as the dashboard.
type Importer struct {
	products   service.ProductService
	categories repository.CategoryRepository
	actor      service.Actor
}

func New(products service.ProductService, categories repository.CategoryRepository, actor service.Actor) *Importer {
	return &Importer{products: products, categories: categories, actor: actor}
}

// Import creates every row and returns how many were created. Failed rows
// are reported and skipped.
func (im *Importer) Import(rows []Row) (int, []RowError) {
	var (
		created int
		failed  []RowError
	)
	categoryIDs := make(map[string]uint)

	for _, row := range rows {
		id, ok := categoryIDs[row.Category]
		if !ok {
			category, err := im.categories.FindByName(row.Category)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					err = fmt.Errorf("category %q does not exist", row.Category)
				}
				failed = append(failed, RowError{Line: row.Line, Err: err})
				continue
			}
			id = category.ID
			categoryIDs[row.Category] = id
		}

		_, err := im.products.Create(im.actor, service.ProductInput{
			Title:            row.Title,
			Description:      row.Description,
			ShortDescription: row.ShortDescription,
			Price:            row.Price,
			CategoryID:       id,
			Featured:         row.Featured,
			InventoryStatus:  row.InventoryStatus,
			Images:           row.Images,
		})
		if err != nil {
			failed = append(failed, RowError{Line: row.Line, Err: err})
			continue
		}
		created++
	}

	logger.Info("Product import finished", map[string]interface{}{
		"created": created,
		"failed":  len(failed),
	})
	return created, failed
}
