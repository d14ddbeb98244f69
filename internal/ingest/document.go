package ingest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/model"
)

type documentFile struct {
	Tables []tableEntry `yaml:"tables" json:"tables"`
}

type tableEntry struct {
	Pack string     `yaml:"pack" json:"pack"`
	Rows []rowEntry `yaml:"rows" json:"rows"`
}

type rowEntry struct {
	Values   map[string]float64 `yaml:"values" json:"values"`
	Month    string             `yaml:"month" json:"month"`
	Date     string             `yaml:"transaction_date" json:"transaction_date"`
	Category string             `yaml:"category" json:"category"`
}

// ParseDocumentYAML parses a multi-pack dataset document.
func ParseDocumentYAML(data []byte) (model.Dataset, error) {
	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %v", common.ErrInvalidDataset, err)
	}
	return doc.dataset()
}

// ParseDocumentJSON parses the JSON form of a dataset document.
func ParseDocumentJSON(data []byte) (model.Dataset, error) {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %v", common.ErrInvalidDataset, err)
	}
	return doc.dataset()
}

func (doc documentFile) dataset() (model.Dataset, error) {
	if len(doc.Tables) == 0 {
		return model.Dataset{}, fmt.Errorf("%w: document has no tables", common.ErrInvalidDataset)
	}
	ds := model.Dataset{Tables: make([]model.Table, 0, len(doc.Tables))}
	for i, te := range doc.Tables {
		pack, err := ParsePack(te.Pack)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("table %d: %w", i, err)
		}
		table := model.Table{Pack: pack, Rows: make([]model.Row, 0, len(te.Rows))}
		for j, re := range te.Rows {
			row, err := re.row()
			if err != nil {
				return model.Dataset{}, fmt.Errorf("table %d row %d: %w", i, j, err)
			}
			table.Rows = append(table.Rows, row)
		}
		ds.Tables = append(ds.Tables, table)
	}
	return ds, nil
}

func (re rowEntry) row() (model.Row, error) {
	row := model.Row{
		Category: re.Category,
		Values:   make(map[string]float64, len(re.Values)),
	}
	for col, v := range re.Values {
		row.Values[CanonicalColumn(col)] = v
	}

	if re.Month != "" {
		m, err := model.ParseMonth(re.Month)
		if err != nil {
			return model.Row{}, fmt.Errorf("%w: %v", common.ErrInvalidDataset, err)
		}
		row.Month = m
	}
	if re.Date != "" {
		d, err := parseDate(re.Date)
		if err != nil {
			return model.Row{}, fmt.Errorf("%w: %v", common.ErrInvalidDataset, err)
		}
		row.Date = d
	}
	if row.Period().IsZero() {
		return model.Row{}, fmt.Errorf("%w: row needs a month or transaction_date", common.ErrInvalidDataset)
	}
	return row, nil
}
