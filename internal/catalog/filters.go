// Package catalog composes storefront filter selections into a single
// product query and keeps per-visitor browsing sessions.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gmp-artesanias/gmp-backend/internal/app/model"
)

// InventoryFlag is a storefront checkbox. Each flag maps to one status.
type InventoryFlag string

const (
	FlagUniquePiece      InventoryFlag = "pieza_unica"
	FlagOnOrderWithStock InventoryFlag = "por_encargue_con_stock"
	FlagOnOrderNoStock   InventoryFlag = "por_encargue_sin_stock"
	FlagOutOfStock       InventoryFlag = "sin_stock"
	FlagInStock          InventoryFlag = "en_stock" // alias of pieza_unica
)

var inventoryFlagStatus = map[InventoryFlag]model.InventoryStatus{
	FlagUniquePiece:      model.InventoryUniquePiece,
	FlagOnOrderWithStock: model.InventoryOnOrderSameMaterial,
	FlagOnOrderNoStock:   model.InventoryOnOrderDifferentMaterial,
	FlagOutOfStock:       model.InventoryUnavailable,
	FlagInStock:          model.InventoryUniquePiece,
}

// AllInventoryFlags lists the flags in display order.
var AllInventoryFlags = []InventoryFlag{FlagUniquePiece, FlagOnOrderWithStock, FlagOnOrderNoStock, FlagOutOfStock, FlagInStock}

func (f InventoryFlag) Status() (model.InventoryStatus, bool) {
	status, ok := inventoryFlagStatus[f]
	return status, ok
}

// PriceRange is a storefront price checkbox.
type PriceRange string

const (
	PriceBelowLow  PriceRange = "menos_50k"
	PriceLowToHigh PriceRange = "50k_100k"
	PriceAboveHigh PriceRange = "mas_100k"
)

// AllPriceRanges lists the ranges in display order.
var AllPriceRanges = []PriceRange{PriceBelowLow, PriceLowToHigh, PriceAboveHigh}

func (r PriceRange) Valid() bool {
	return r == PriceBelowLow || r == PriceLowToHigh || r == PriceAboveHigh
}

// Thresholds split prices into the three ranges: below Low, Low..High
// inclusive, above High.
type Thresholds struct {
	Low  int64
	High int64
}

var DefaultThresholds = Thresholds{Low: 50000, High: 100000}

// Band is an inclusive integer price interval. A side without its Has flag is open.
type Band struct {
	Min    int64
	Max    int64
	HasMin bool
	HasMax bool
}

// Band returns the interval for r. Prices are whole units, so strict
// comparisons become inclusive ones shifted by one.
func (r PriceRange) Band(t Thresholds) Band {
	switch r {
	case PriceBelowLow:
		return Band{Max: t.Low - 1, HasMax: true}
	case PriceLowToHigh:
		return Band{Min: t.Low, Max: t.High, HasMin: true, HasMax: true}
	default:
		return Band{Min: t.High + 1, HasMin: true}
	}
}

// Filters is the full set of active storefront selections.
type Filters struct {
	MainCategory model.MainCategory `json:"main_category,omitempty"` // empty means all
	Category     string             `json:"category,omitempty"`      // sub-category name
	Inventory    []InventoryFlag    `json:"inventory,omitempty"`
	Prices       []PriceRange       `json:"prices,omitempty"`
	Search       string             `json:"search,omitempty"`
}

// SetMainCategory switches domain, resetting the sub-category and search.
func (f *Filters) SetMainCategory(main model.MainCategory) {
	f.MainCategory = main
	f.Category = ""
	f.Search = ""
}

// SetCategory selects a sub-category by name and clears the search.
func (f *Filters) SetCategory(name string) {
	f.Category = name
	f.Search = ""
}

// ToggleInventory flips one inventory flag and clears the search.
func (f *Filters) ToggleInventory(flag InventoryFlag) {
	f.Inventory = toggle(f.Inventory, flag)
	f.Search = ""
}

// TogglePrice flips one price range and clears the search.
func (f *Filters) TogglePrice(r PriceRange) {
	f.Prices = toggle(f.Prices, r)
	f.Search = ""
}

func (f *Filters) SetSearch(term string) {
	f.Search = strings.TrimSpace(term)
}

func toggle[T comparable](set []T, v T) []T {
	for i, existing := range set {
		if existing == v {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

// Statuses returns the deduplicated union of the statuses behind the active
// inventory flags. Nil means no restriction.
func (f Filters) Statuses() []model.InventoryStatus {
	if len(f.Inventory) == 0 {
		return nil
	}
	seen := make(map[model.InventoryStatus]bool, len(f.Inventory))
	var statuses []model.InventoryStatus
	for _, flag := range f.Inventory {
		status, ok := flag.Status()
		if !ok || seen[status] {
			continue
		}
		seen[status] = true
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}

// Query is the composed, storage-independent form of Filters.
type Query struct {
	MainCategory model.MainCategory
	Category     string
	Statuses     []model.InventoryStatus
	Bands        []Band
	Search       string
}

func (f Filters) Query(t Thresholds) Query {
	q := Query{
		MainCategory: f.MainCategory,
		Category:     f.Category,
		Statuses:     f.Statuses(),
		Search:       f.Search,
	}
	for _, r := range f.Prices {
		q.Bands = append(q.Bands, r.Band(t))
	}
	return q
}

// ParseMainCategory accepts "", "all" or a known domain.
func ParseMainCategory(s string) (model.MainCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", nil
	}
	main := model.MainCategory(s)
	if !main.Valid() {
		return "", fmt.Errorf("unknown main category %q", s)
	}
	return main, nil
}

// ParseCategory normalizes the sub-category selector; "all" means none.
func ParseCategory(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// ParseInventoryFlags reads a comma separated flag list.
func ParseInventoryFlags(csv string) ([]InventoryFlag, error) {
	var flags []InventoryFlag
	for _, part := range splitCSV(csv) {
		flag := InventoryFlag(part)
		if _, ok := flag.Status(); !ok {
			return nil, fmt.Errorf("unknown inventory filter %q", part)
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

// ParsePriceRanges reads a comma separated price range list.
func ParsePriceRanges(csv string) ([]PriceRange, error) {
	var ranges []PriceRange
	for _, part := range splitCSV(csv) {
		r := PriceRange(part)
		if !r.Valid() {
			return nil, fmt.Errorf("unknown price range %q", part)
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
