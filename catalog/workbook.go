package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/thedevbrian1/thevervefashion-fly/models"
)

var workbookHeaders = []string{
	"ID", "Title", "Description", "Category", "Quantity",
	"Price", "ComparePrice", "PurchasePrice", "SKU", "Images",
}

// ImportRow is one product row read from a workbook. ID is zero for new
// products.
type ImportRow struct {
	ID            uint
	Title         string
	Description   string
	Category      string
	Quantity      int
	Price         decimal.Decimal
	ComparePrice  decimal.NullDecimal
	PurchasePrice decimal.Decimal
	SKU           string
	Images        []string
}

// WriteWorkbook writes products as a single "Products" sheet.
func WriteWorkbook(w io.Writer, products []models.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range workbookHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.Title)
		row.AddCell().SetString(p.Description)
		category := ""
		if p.Category != nil {
			category = p.Category.Title
		}
		row.AddCell().SetString(category)
		row.AddCell().SetInt(p.Item.Quantity)
		row.AddCell().SetString(p.Item.Price.StringFixed(2))
		compare := ""
		if p.Item.ComparePrice.Valid {
			compare = p.Item.ComparePrice.Decimal.StringFixed(2)
		}
		row.AddCell().SetString(compare)
		row.AddCell().SetString(p.Item.PurchasePrice.StringFixed(2))
		row.AddCell().SetString(p.Item.SKU)
		row.AddCell().SetString(strings.Join(p.ImageURLs(), ","))
	}

	return file.Write(w)
}

// ReadWorkbook parses the first sheet. Rows without a title or with an
// invalid price are counted as skipped.
func ReadWorkbook(r io.ReaderAt, size int64) (rows []ImportRow, skipped int, err error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, 0, fmt.Errorf("parse workbook: %w", err)
	}
	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, 0, fmt.Errorf("workbook is empty or missing header row")
	}

	sheet := file.Sheets[0]
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		if row == nil {
			continue
		}
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		parsed, ok := parseRow(get)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, parsed)
	}
	return rows, skipped, nil
}

func parseRow(get func(int) string) (ImportRow, bool) {
	title := get(1)
	price, err := decimal.NewFromString(get(5))
	if title == "" || err != nil || !price.IsPositive() {
		return ImportRow{}, false
	}

	row := ImportRow{
		Title:       title,
		Description: get(2),
		Category:    get(3),
		Price:       price,
		SKU:         get(8),
	}
	if id, err := strconv.ParseUint(get(0), 10, 64); err == nil {
		row.ID = uint(id)
	}
	if q, err := strconv.Atoi(get(4)); err == nil && q >= 0 {
		row.Quantity = q
	}
	if cp, err := decimal.NewFromString(get(6)); err == nil {
		row.ComparePrice = decimal.NewNullDecimal(cp)
	}
	if pp, err := decimal.NewFromString(get(7)); err == nil {
		row.PurchasePrice = pp
	}
	for _, img := range strings.Split(get(9), ",") {
		if img = strings.TrimSpace(img); img != "" {
			row.Images = append(row.Images, img)
		}
	}
	return row, true
}
