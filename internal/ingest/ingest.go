// Package ingest turns input files into a model.Dataset. It is the only
// place that knows about file formats; the analysis core sees tables only.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/model"
)

// Source is one input file and the pack it should be read as. Pack may be
// empty for formats that carry their own pack information.
type Source struct {
	Path string
	Pack model.PackType
}

// ParseSource parses a command-line input of the form "PACK=path" or "path".
func ParseSource(arg string) (Source, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Source{}, fmt.Errorf("%w: empty input", common.ErrInvalidDataset)
	}
	pack, path, found := strings.Cut(arg, "=")
	if !found {
		return Source{Path: arg}, nil
	}
	p, err := ParsePack(pack)
	if err != nil {
		return Source{}, err
	}
	if strings.TrimSpace(path) == "" {
		return Source{}, fmt.Errorf("%w: missing path for %s", common.ErrInvalidDataset, p)
	}
	return Source{Pack: p, Path: path}, nil
}

// ParsePack resolves a pack name case-insensitively.
func ParsePack(name string) (model.PackType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case string(model.PackPNL), "P&L", "PL":
		return model.PackPNL, nil
	case string(model.PackRevenue), "SALES":
		return model.PackRevenue, nil
	case string(model.PackLabor), "LABOUR", "PAYROLL":
		return model.PackLabor, nil
	default:
		return "", fmt.Errorf("%w: unknown data pack %q", common.ErrInvalidDataset, name)
	}
}

// Load reads every source in order and concatenates the resulting tables.
// Source order is precedence order in the panel.
func Load(sources ...Source) (model.Dataset, error) {
	var ds model.Dataset
	for _, src := range sources {
		part, err := LoadFile(src.Path, src.Pack)
		if err != nil {
			return model.Dataset{}, err
		}
		common.LogDebug("Loaded input", common.Fields{
			"path":   src.Path,
			"pack":   string(src.Pack),
			"tables": len(part.Tables),
		})
		ds.Tables = append(ds.Tables, part.Tables...)
	}
	return ds, nil
}

// LoadFile reads one file, dispatching on its extension.
func LoadFile(path string, pack model.PackType) (model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var ds model.Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		ds, err = ParseDocumentYAML(data)
	case ".json":
		ds, err = ParseDocumentJSON(data)
	case ".csv":
		if pack == "" {
			pack = model.PackPNL
		}
		var table model.Table
		table, err = ParseCSV(strings.NewReader(string(data)), pack)
		ds = model.Dataset{Tables: []model.Table{table}}
	case ".ofx", ".qfx":
		if pack != "" && pack != model.PackRevenue {
			return model.Dataset{}, fmt.Errorf("%w: OFX statements can only be read as %s", common.ErrInvalidDataset, model.PackRevenue)
		}
		var table model.Table
		table, err = ParseOFX(strings.NewReader(string(data)))
		ds = model.Dataset{Tables: []model.Table{table}}
	default:
		return model.Dataset{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if pack != "" {
		for i := range ds.Tables {
			ds.Tables[i].Pack = pack
		}
	}
	return ds, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

var columnAliases = map[string]string{
	"revenue":            model.ColRevenue,
	"sales":              model.ColRevenue,
	"net_sales":          model.ColRevenue,
	"total_revenue":      model.ColRevenue,
	"labor":              model.ColLabor,
	"labour":             model.ColLabor,
	"payroll":            model.ColLabor,
	"labor_cost":         model.ColLabor,
	"cost_of_goods_sold": model.ColCOGS,
	"cost_of_sales":      model.ColCOGS,
	"food_cost":          model.ColCOGS,
	"occupancy":          model.ColRent,
	"other":              model.ColOtherExpenses,
}

// CanonicalColumn normalizes a column name and resolves common aliases.
func CanonicalColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), "_")
	name = strings.ReplaceAll(name, "-", "_")
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}
