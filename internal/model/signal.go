package model

import "fmt"

// SignalOp is one of the closed set of named computations a signal may use.
type SignalOp string

// Supported signal operations.
const (
	SignalRatio      SignalOp = "ratio"
	SignalDifference SignalOp = "difference"
	SignalProduct    SignalOp = "product"
)

// Valid reports whether op is a supported operation.
func (op SignalOp) Valid() bool {
	switch op {
	case SignalRatio, SignalDifference, SignalProduct:
		return true
	default:
		return false
	}
}

// Apply evaluates the operation. Ratios with a zero denominator report false.
func (op SignalOp) Apply(a, b float64) (float64, bool) {
	switch op {
	case SignalRatio:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case SignalDifference:
		return a - b, true
	case SignalProduct:
		return a * b, true
	default:
		return 0, false
	}
}

// Symbol returns the operator used when describing a computation.
func (op SignalOp) Symbol() string {
	switch op {
	case SignalRatio:
		return "/"
	case SignalDifference:
		return "-"
	case SignalProduct:
		return "×"
	default:
		return "?"
	}
}

// Signal is a vertical-specific derived value over two panel columns.
type Signal struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Unit     string   `json:"unit" yaml:"unit"`
	Op       SignalOp `json:"op" yaml:"op"`
	Operands []string `json:"operands" yaml:"operands"`
	Scale    float64  `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// Validate checks the signal definition.
func (s Signal) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("signal id is required")
	}
	if !s.Op.Valid() {
		return fmt.Errorf("signal %s: unsupported op %q", s.ID, s.Op)
	}
	if len(s.Operands) != 2 || s.Operands[0] == "" || s.Operands[1] == "" {
		return fmt.Errorf("signal %s: exactly two operand columns are required", s.ID)
	}
	if s.Scale < 0 {
		return fmt.Errorf("signal %s: scale must not be negative", s.ID)
	}
	return nil
}

// Factor returns the scale to multiply results by, defaulting to 1.
func (s Signal) Factor() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}
