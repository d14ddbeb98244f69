package reference

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/ledgerlens/internal/common"
	"github.com/Veraticus/ledgerlens/internal/model"
)

// Vertical bundles the reference data for one industry vertical. It is
// read-only once constructed and safe to share across analyses.
type Vertical struct {
	Benchmarks  *model.BenchmarkTable
	ID          string
	Name        string
	Initiatives []model.Initiative
	Signals     []model.Signal
}

func isRestaurant(id string) bool {
	return strings.HasPrefix(strings.ToLower(id), VerticalRestaurant)
}

// Builtin returns the built-in reference data for a vertical id.
func Builtin(id string) *Vertical {
	if id == "" {
		id = VerticalRestaurant
	}
	name := "General Business"
	if isRestaurant(id) {
		name = "Restaurant"
	}
	return &Vertical{
		ID:          id,
		Name:        name,
		Benchmarks:  model.NewBenchmarkTable(id, builtinBenchmarks(id)),
		Initiatives: DefaultCatalog(),
		Signals:     DefaultSignals(),
	}
}

type verticalFile struct {
	VerticalID   string            `yaml:"vertical_id"`
	VerticalName string            `yaml:"vertical_name"`
	Benchmarks   []model.Benchmark `yaml:"benchmarks"`
	Initiatives  []initiativeEntry `yaml:"initiatives"`
	Signals      []model.Signal    `yaml:"signals"`
}

type initiativeEntry struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Category    string            `yaml:"category"`
	Description string            `yaml:"description"`
	Type        string            `yaml:"type"`
	Eligibility model.Eligibility `yaml:"eligibility"`
	Sizing      model.SizingHint  `yaml:"sizing"`
}

// Load reads a YAML reference file. Sections the file omits fall back to the
// built-in data for its vertical. Any malformed entry fails the whole load.
func Load(path string) (*Vertical, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML reference data.
func Parse(data []byte) (*Vertical, error) {
	var file verticalFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	v := Builtin(file.VerticalID)
	if file.VerticalName != "" {
		v.Name = file.VerticalName
	}

	if len(file.Benchmarks) > 0 {
		for i, b := range file.Benchmarks {
			if err := validateBenchmark(b); err != nil {
				return nil, fmt.Errorf("%w: benchmarks[%d]: %v", common.ErrInvalidConfig, i, err)
			}
		}
		v.Benchmarks = model.NewBenchmarkTable(v.ID, file.Benchmarks)
	}

	if len(file.Initiatives) > 0 {
		initiatives, err := convertInitiatives(file.Initiatives)
		if err != nil {
			return nil, err
		}
		v.Initiatives = initiatives
	}

	if len(file.Signals) > 0 {
		seen := make(map[string]bool)
		for i, s := range file.Signals {
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("%w: signals[%d]: %v", common.ErrInvalidConfig, i, err)
			}
			if seen[s.ID] {
				return nil, fmt.Errorf("%w: signals[%d]: duplicate id %q", common.ErrInvalidConfig, i, s.ID)
			}
			seen[s.ID] = true
		}
		v.Signals = file.Signals
	}

	return v, nil
}

func validateBenchmark(b model.Benchmark) error {
	if b.MetricID == "" {
		return fmt.Errorf("metric_id is required")
	}
	if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
		return fmt.Errorf("%s: value must be finite", b.MetricID)
	}
	if b.Unit == "" {
		return fmt.Errorf("%s: unit is required", b.MetricID)
	}
	if b.Source == "" {
		return fmt.Errorf("%s: source is required", b.MetricID)
	}
	if b.Confidence < 0 || b.Confidence > 1 {
		return fmt.Errorf("%s: confidence must be between 0 and 1", b.MetricID)
	}
	return nil
}

func convertInitiatives(entries []initiativeEntry) ([]model.Initiative, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]model.Initiative, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: initiatives[%d]: id is required", common.ErrInvalidConfig, i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: initiatives[%d]: duplicate id %q", common.ErrInvalidConfig, i, e.ID)
		}
		seen[e.ID] = true
		if e.Title == "" {
			return nil, fmt.Errorf("%w: initiative %s: title is required", common.ErrInvalidConfig, e.ID)
		}
		typeName := e.Type
		if typeName == "" {
			typeName = e.Category
		}
		t, err := ParseInitiativeType(typeName)
		if err != nil {
			return nil, fmt.Errorf("%w: initiative %s: %v", common.ErrInvalidConfig, e.ID, err)
		}
		if e.Eligibility.MinMonths < 0 {
			return nil, fmt.Errorf("%w: initiative %s: min_months must not be negative", common.ErrInvalidConfig, e.ID)
		}
		for _, p := range e.Eligibility.RequiresData {
			if p != model.PackPNL && p != model.PackRevenue && p != model.PackLabor {
				return nil, fmt.Errorf("%w: initiative %s: unknown data pack %q", common.ErrInvalidConfig, e.ID, p)
			}
		}
		category := e.Category
		if category == "" {
			category = string(t)
		}
		out = append(out, model.Initiative{
			ID:          e.ID,
			Title:       e.Title,
			Category:    category,
			Description: e.Description,
			Type:        t,
			Eligibility: e.Eligibility,
			Sizing:      e.Sizing,
		})
	}
	return out, nil
}
