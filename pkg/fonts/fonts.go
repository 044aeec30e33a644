// Package fonts provides the font families charts can be measured and
// rendered with.
//
// All families come from the Go font set in golang.org/x/image, so they are
// available without system fonts.
package fonts

import (
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Family is a font usable for both measurement and SVG output.
type Family struct {
	// Name is the key used in chart files, e.g. "mono".
	Name string
	// CSS is the font-family value written into SVG, fallbacks included.
	CSS string
	// Weight is the CSS font-weight.
	Weight string
	// TTF is the data parsed for measurement.
	TTF []byte
}

// DefaultFamily is used when a chart names no font.
const DefaultFamily = "go"

var families = map[string]Family{
	"go": {
		Name:   "go",
		CSS:    `'Go', 'Helvetica Neue', Arial, sans-serif`,
		Weight: "normal",
		TTF:    goregular.TTF,
	},
	"bold": {
		Name:   "bold",
		CSS:    `'Go', 'Helvetica Neue', Arial, sans-serif`,
		Weight: "bold",
		TTF:    gobold.TTF,
	},
	"mono": {
		Name:   "mono",
		CSS:    `'Go Mono', Menlo, Consolas, monospace`,
		Weight: "normal",
		TTF:    gomono.TTF,
	},
}

// Lookup returns the family registered under name. Matching is
// case-insensitive; an empty name selects DefaultFamily.
func Lookup(name string) (Family, bool) {
	if name == "" {
		name = DefaultFamily
	}
	f, ok := families[strings.ToLower(name)]
	return f, ok
}

// Names returns the registered family names, sorted.
func Names() []string {
	names := make([]string, 0, len(families))
	for n := range families {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FaceName returns the first entry of the CSS family list, unquoted.
func (f Family) FaceName() string {
	first, _, _ := strings.Cut(f.CSS, ",")
	return strings.Trim(strings.TrimSpace(first), `'"`)
}
