package model

// InitiativeType is the canonical kind of improvement initiative.
type InitiativeType string

// Canonical initiative types.
const (
	InitiativeLabor      InitiativeType = "LABOR_OPTIMIZATION"
	InitiativePricing    InitiativeType = "PRICING"
	InitiativeCost       InitiativeType = "COST_REDUCTION"
	InitiativeThroughput InitiativeType = "THROUGHPUT"
	InitiativeDiscount   InitiativeType = "DISCOUNT_CONTROL"
	InitiativeWaste      InitiativeType = "WASTE_REDUCTION"
	InitiativeMarketing  InitiativeType = "MARKETING"
	InitiativeOperations InitiativeType = "OPERATIONS"
)

// InitiativeTypes lists every canonical type.
var InitiativeTypes = []InitiativeType{
	InitiativeLabor,
	InitiativePricing,
	InitiativeCost,
	InitiativeThroughput,
	InitiativeDiscount,
	InitiativeWaste,
	InitiativeMarketing,
	InitiativeOperations,
}

// Valid reports whether t is a canonical type.
func (t InitiativeType) Valid() bool {
	for _, c := range InitiativeTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Eligibility gates an initiative on data availability.
type Eligibility struct {
	RequiresData []PackType `json:"requires_data,omitempty" yaml:"requires_data,omitempty"`
	MinMonths    int        `json:"min_months,omitempty" yaml:"min_months,omitempty"`
}

// Allows reports whether a run with the given months and packs qualifies.
func (e Eligibility) Allows(months int, packs []PackType) bool {
	if months < e.MinMonths {
		return false
	}
	for _, required := range e.RequiresData {
		found := false
		for _, p := range packs {
			if p == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SizingHint is the catalog's rough sizing guidance for an initiative.
type SizingHint struct {
	Method string  `json:"method,omitempty" yaml:"method,omitempty"`
	Low    float64 `json:"low,omitempty" yaml:"low,omitempty"`
	Mid    float64 `json:"mid,omitempty" yaml:"mid,omitempty"`
	High   float64 `json:"high,omitempty" yaml:"high,omitempty"`
}

// Initiative is a catalog template that the scorer evaluates.
type Initiative struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Category    string         `json:"category"`
	Description string         `json:"description,omitempty"`
	Type        InitiativeType `json:"type"`
	Sizing      SizingHint     `json:"sizing"`
	Eligibility Eligibility    `json:"eligibility"`
}
