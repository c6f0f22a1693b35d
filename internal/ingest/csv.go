// Package ingest decodes planning-system CSV exports into normalized
// domain records. Header matching is tolerant: column names are compared
// after lowercasing and stripping separators, so "Item Code", "item_code"
// and "ItemCode" all resolve to the same column.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/supplyview/backend-go/internal/domain"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// dateLayouts covers the spreadsheet export formats seen in practice.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006/01/02",
	"2-Jan-2006",
}

// parseDate returns the calendar day (UTC midnight) and whether parsing
// succeeded. Invalid dates do not fail the row; the record is flagged so
// date-bounded queries can exclude it.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseValue coerces a numeric cell, defaulting to 0 for anything that is
// not a number. Thousands separators are tolerated.
func parseValue(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

// headerIndex builds a lookup from normalized column names to positions
// and resolves the first matching candidate name.
type headerIndex map[string]int

func newHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		name := normalizeColumnName(h)
		if _, exists := idx[name]; !exists {
			idx[name] = i
		}
	}
	return idx
}

func (h headerIndex) find(names ...string) int {
	for _, name := range names {
		if i, ok := h[normalizeColumnName(name)]; ok {
			return i
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ReadInventoryCSV parses an inventory time-series export. Rows with a
// column count different from the header are skipped; rows missing an item
// code or org are skipped. All other defects degrade to zero values.
func ReadInventoryCSV(r io.Reader) ([]domain.InventoryRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory header: %w", err)
	}
	idx := newHeaderIndex(header)

	idxFactory := idx.find("factory")
	idxType := idx.find("type")
	idxItem := idx.find("item code", "item")
	idxOrg := idx.find("inv org", "org", "location")
	idxClass := idx.find("item class", "class")
	idxUOM := idx.find("uom", "unit")
	idxStrategy := idx.find("strategy")
	idxMetric := idx.find("metric")
	idxDate := idx.find("date")
	idxValue := idx.find("value")

	records := make([]domain.InventoryRecord, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read inventory row: %w", err)
		}
		if len(record) != len(header) {
			continue
		}

		itemCode := cell(record, idxItem)
		invOrg := cell(record, idxOrg)
		if itemCode == "" || invOrg == "" {
			continue
		}

		date, valid := parseDate(cell(record, idxDate))
		records = append(records, domain.InventoryRecord{
			Factory:   cell(record, idxFactory),
			Type:      domain.RecordType(strings.ToUpper(cell(record, idxType))),
			ItemCode:  itemCode,
			InvOrg:    invOrg,
			ItemClass: cell(record, idxClass),
			UOM:       cell(record, idxUOM),
			Strategy:  cell(record, idxStrategy),
			Metric:    cell(record, idxMetric),
			Date:      date,
			DateValid: valid,
			Value:     parseValue(cell(record, idxValue)),
		})
	}

	return records, nil
}

// ReadBomCSV parses a BOM export. Parent/child/ratio columns come under
// several header spellings depending on which system exported the sheet.
// Rows missing a parent or child are malformed and skipped.
func ReadBomCSV(r io.Reader) ([]domain.BomEdge, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read BOM header: %w", err)
	}
	idx := newHeaderIndex(header)

	idxPlant := idx.find("plant")
	idxParent := idx.find("parent", "parent item")
	idxChild := idx.find("child", "child item")
	idxRatio := idx.find("ratio", "quantity per", "qty")

	edges := make([]domain.BomEdge, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read BOM row: %w", err)
		}

		parent := cell(record, idxParent)
		child := cell(record, idxChild)
		if parent == "" || child == "" {
			continue
		}

		edges = append(edges, domain.BomEdge{
			Parent: parent,
			Child:  child,
			Ratio:  parseValue(cell(record, idxRatio)),
			Plant:  cell(record, idxPlant),
		})
	}

	return edges, nil
}
