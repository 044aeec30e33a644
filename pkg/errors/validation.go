package errors

import (
	"math"
	"strings"
)

// ValidateIndex rejects negative row or column indices.
// name is used in the message, e.g. "row" or "column".
func ValidateIndex(name string, index int) error {
	if index < 0 {
		return Precondition("%s index must be non-negative, got %d", name, index)
	}
	return nil
}

// ValidateNonNegative rejects negative, NaN and infinite values.
// It is used for weights, minimums and paddings.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Precondition("%s must be a finite value, got %v", name, v)
	}
	if v < 0 {
		return Precondition("%s must be non-negative, got %v", name, v)
	}
	return nil
}

// ValidateSize validates frame dimensions at the pipeline boundary.
//
// Validation rules:
//   - Both dimensions must be finite
//   - Both dimensions must be positive
//   - Neither may exceed 100000 units
func ValidateSize(width, height float64) error {
	const maxDimension = 100000
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidSize, "%s must be finite", d.name)
		}
		if d.v <= 0 {
			return New(ErrCodeInvalidSize, "%s must be positive, got %v", d.name, d.v)
		}
		if d.v > maxDimension {
			return New(ErrCodeInvalidSize, "%s too large (max %d)", d.name, maxDimension)
		}
	}
	return nil
}

// ValidateName validates a component name used in region ids and snapshots.
// Names may be empty; non-empty names cannot contain whitespace or quotes,
// since they end up in SVG id attributes and DOT identifiers.
func ValidateName(name string) error {
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "name too long (max 128 characters)")
	}
	if strings.ContainsAny(name, " \t\r\n\"'<>&") {
		return New(ErrCodeInvalidInput, "name %q contains invalid characters", name)
	}
	return nil
}
