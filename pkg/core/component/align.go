package component

import (
	"strings"

	"github.com/matzehuels/plotgrid/pkg/errors"
)

// Alignment places a component inside the part of its offer it does not use.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

// Proportion returns the share of unused space placed before the component.
func (a Alignment) Proportion() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignEnd:
		return 1
	default:
		return 0
	}
}

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "start"
	}
}

// ParseXAlign parses a horizontal alignment keyword: left, start, center,
// right or end. Matching is case-insensitive.
func ParseXAlign(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "right", "end":
		return AlignEnd, nil
	}
	return AlignStart, errors.Configuration("unsupported x alignment %q (want left, center or right)", s)
}

// ParseYAlign parses a vertical alignment keyword: top, start, center,
// bottom or end. Matching is case-insensitive.
func ParseYAlign(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "start":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "bottom", "end":
		return AlignEnd, nil
	}
	return AlignStart, errors.Configuration("unsupported y alignment %q (want top, center or bottom)", s)
}
