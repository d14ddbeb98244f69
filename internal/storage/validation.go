package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/ledgerlens/internal/analysis"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateReport ensures a report can be stored.
func validateReport(r *analysis.Report) error {
	if r == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}
	if err := validateString(r.ID, "report.ID"); err != nil {
		return err
	}
	if r.GeneratedAt.IsZero() {
		return fmt.Errorf("%w: report.GeneratedAt", ErrNilParameter)
	}
	return nil
}
