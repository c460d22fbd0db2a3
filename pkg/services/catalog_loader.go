package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"kirana-price-api/pkg/models"

	"github.com/xuri/excelize/v2"
)

// ErrDatasetUnavailable indicates the reference dataset could not be
// read or parsed at all. Individual malformed rows are not errors.
var ErrDatasetUnavailable = errors.New("reference dataset unavailable")

// DatasetLoader reads the tabular reference dataset (CSV or XLSX) and
// produces raw catalog records. Ingestion is best-effort: malformed
// numeric fields become 0 and are left for the catalog's positive-price
// filter to drop, so a few bad rows never abort the load.
type DatasetLoader struct {
	path string
}

// NewDatasetLoader creates a loader for the dataset at path.
func NewDatasetLoader(path string) *DatasetLoader {
	return &DatasetLoader{path: path}
}

// Load reads all rows from the dataset and converts them to records.
// Expected columns: index, product, category, sub_category, brand,
// sale_price, market_price, type, rating, description.
func (l *DatasetLoader) Load() ([]models.CatalogRecord, error) {
	rows, err := l.readRows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", ErrDatasetUnavailable)
	}

	header := rows[0]
	dataRows := rows[1:]

	indexCol := findColumn(header, "index", "sl_no", "id")
	productCol := findColumn(header, "product", "product_name", "name")
	categoryCol := findColumn(header, "category")
	subCategoryCol := findColumn(header, "sub_category", "subcategory")
	brandCol := findColumn(header, "brand")
	salePriceCol := findColumn(header, "sale_price", "saleprice", "selling_price")
	marketPriceCol := findColumn(header, "market_price", "marketprice", "mrp")
	typeCol := findColumn(header, "type")
	ratingCol := findColumn(header, "rating")
	descriptionCol := findColumn(header, "description", "desc")

	var missing []string
	if productCol == -1 {
		missing = append(missing, "product")
	}
	if categoryCol == -1 {
		missing = append(missing, "category")
	}
	if salePriceCol == -1 {
		missing = append(missing, "sale_price")
	}
	if marketPriceCol == -1 {
		missing = append(missing, "market_price")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrDatasetUnavailable, strings.Join(missing, ", "))
	}

	records := make([]models.CatalogRecord, 0, len(dataRows))
	for _, row := range dataRows {
		records = append(records, models.CatalogRecord{
			Index:       parseIntOrZero(cell(row, indexCol)),
			Product:     strings.TrimSpace(cell(row, productCol)),
			Category:    strings.TrimSpace(cell(row, categoryCol)),
			SubCategory: strings.TrimSpace(cell(row, subCategoryCol)),
			Brand:       strings.TrimSpace(cell(row, brandCol)),
			SalePrice:   parseFloatOrZero(cell(row, salePriceCol)),
			MarketPrice: parseFloatOrZero(cell(row, marketPriceCol)),
			Type:        strings.TrimSpace(cell(row, typeCol)),
			Rating:      parseFloatOrZero(cell(row, ratingCol)),
			Description: strings.TrimSpace(cell(row, descriptionCol)),
		})
	}

	return records, nil
}

// readRows reads the raw rows from the dataset file, dispatching on the
// file extension.
func (l *DatasetLoader) readRows() ([][]string, error) {
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(l.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	default:
		f, err := os.Open(l.path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1 // dataset rows are occasionally ragged
		return r.ReadAll()
	}
}

// findColumn finds the index of the first matching header candidate.
func findColumn(header []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range header {
			if strings.EqualFold(strings.TrimSpace(item), candidate) {
				return i
			}
		}
	}
	return -1
}

// cell returns the value at idx, or "" when the column is absent or the
// row is too short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseFloatOrZero converts a numeric field to float64, treating any
// parse failure as 0. Non-positive prices are filtered downstream.
func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseIntOrZero converts an integer field, treating failures as 0.
func parseIntOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
