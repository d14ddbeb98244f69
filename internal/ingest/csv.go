package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/model"
)

// ParseCSV reads one table. The header must contain a month or date column;
// an optional category column is kept, and every other column is numeric.
// Empty cells are null.
func ParseCSV(r io.Reader, pack model.PackType) (model.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return model.Table{}, fmt.Errorf("%w: empty CSV", common.ErrInvalidDataset)
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	monthCol, dateCol, categoryCol := -1, -1, -1
	columns := make([]string, len(header))
	for i, h := range header {
		name := CanonicalColumn(h)
		columns[i] = name
		switch name {
		case "month", "period":
			monthCol = i
		case "date", "transaction_date":
			dateCol = i
		case "category":
			categoryCol = i
		}
	}
	if monthCol < 0 && dateCol < 0 {
		return model.Table{}, fmt.Errorf("%w: CSV needs a month or date column", common.ErrInvalidDataset)
	}

	table := model.Table{Pack: pack}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return model.Table{}, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		row := model.Row{Values: map[string]float64{}}
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			cell = strings.TrimSpace(cell)
			switch i {
			case monthCol:
				if cell == "" {
					continue
				}
				m, err := model.ParseMonth(cell)
				if err != nil {
					return model.Table{}, fmt.Errorf("%w: line %d: %v", common.ErrInvalidDataset, line, err)
				}
				row.Month = m
			case dateCol:
				if cell == "" {
					continue
				}
				d, err := parseDate(cell)
				if err != nil {
					return model.Table{}, fmt.Errorf("%w: line %d: %v", common.ErrInvalidDataset, line, err)
				}
				row.Date = d
			case categoryCol:
				row.Category = cell
			default:
				if cell == "" {
					continue
				}
				v, err := ParseAmount(cell)
				if err != nil {
					return model.Table{}, fmt.Errorf("%w: line %d column %s: %v", common.ErrInvalidDataset, line, columns[i], err)
				}
				row.Values[columns[i]] = v
			}
		}
		if row.Period().IsZero() {
			return model.Table{}, fmt.Errorf("%w: line %d has no month or date", common.ErrInvalidDataset, line)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ParseAmount parses numbers such as "1,234.50", "$99" and "(120.00)".
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if neg {
		v = -v
	}
	return v, nil
}
