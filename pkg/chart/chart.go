// Package chart reads chart description files.
//
// A chart file is TOML. The top level sets the frame and the font; the
// [root] table describes the component tree:
//
//	title  = "Quarterly revenue"
//	width  = 800
//	height = 480
//	font   = "go"
//
//	[root]
//	type = "table"
//	row_padding = 8
//
//	[[root.rows]]
//	index  = 1
//	weight = 3
//
//	[[root.cells]]
//	row = 0
//	col = 0
//	[root.cells.node]
//	type = "label"
//	text = "Quarterly revenue"
//
// Unknown keys are rejected so that typos surface as errors instead of
// silently ignored settings.
package chart

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/fonts"
)

// Node types.
const (
	TypeTable  = "table"
	TypeGroup  = "group"
	TypeLabel  = "label"
	TypePanel  = "panel"
	TypeLegend = "legend"
	TypeFixed  = "fixed"
	TypeFill   = "fill"
)

var nodeTypes = []string{TypeTable, TypeGroup, TypeLabel, TypePanel, TypeLegend, TypeFixed, TypeFill}

// Spec is a parsed chart file.
type Spec struct {
	Title      string  `toml:"title"`
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Font       string  `toml:"font"`
	Background string  `toml:"background"`
	Root       Node    `toml:"root"`
}

// Node is one component. Which fields apply depends on Type.
type Node struct {
	Type    string   `toml:"type"`
	Name    string   `toml:"name"`
	Classes []string `toml:"classes"`
	XAlign  string   `toml:"x_align"`
	YAlign  string   `toml:"y_align"`
	XOffset float64  `toml:"x_offset"`
	YOffset float64  `toml:"y_offset"`
	Clip    bool     `toml:"clip"`

	// fixed, panel
	Width  *float64 `toml:"width"`
	Height *float64 `toml:"height"`

	// label, legend
	Text     string  `toml:"text"`
	Wrap     bool    `toml:"wrap"`
	FontSize float64 `toml:"font_size"`
	Color    string  `toml:"color"`
	Padding  float64 `toml:"padding"`
	Entries  []Entry `toml:"entries"`

	// panel
	Fill   string `toml:"fill"`
	Stroke string `toml:"stroke"`

	// group
	Children []Node `toml:"children"`

	// table
	Cells         []Cell  `toml:"cells"`
	Rows          []Track `toml:"rows"`
	Columns       []Track `toml:"columns"`
	RowPadding    float64 `toml:"row_padding"`
	ColumnPadding float64 `toml:"column_padding"`
}

// Cell places a node in a table.
type Cell struct {
	Row  int  `toml:"row"`
	Col  int  `toml:"col"`
	Node Node `toml:"node"`
}

// Track configures one table row or column.
type Track struct {
	Index   int      `toml:"index"`
	Weight  *float64 `toml:"weight"`
	Minimum float64  `toml:"minimum"`
}

// Entry is one legend row.
type Entry struct {
	Label string `toml:"label"`
	Color string `toml:"color"`
}

// Parse decodes and validates a chart file.
func Parse(data []byte) (*Spec, error) {
	var s Spec
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse chart")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Configuration("unknown chart keys: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the chart file at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "chart file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read chart %s", path)
	}
	return Parse(data)
}

// Validate checks the frame, the font and every node.
func (s *Spec) Validate() error {
	if err := errors.ValidateSize(s.Width, s.Height); err != nil {
		return err
	}
	if _, ok := fonts.Lookup(s.Font); !ok {
		return errors.Configuration("unknown font %q (available: %s)", s.Font, strings.Join(fonts.Names(), ", "))
	}
	return s.Root.validate("root")
}

// Count returns the number of nodes in the tree.
func (s *Spec) Count() int { return s.Root.count() }

func (n *Node) validate(path string) error {
	if n.Type == "" {
		return errors.Configuration("%s: missing node type", path)
	}
	if !slices.Contains(nodeTypes, n.Type) {
		return errors.Configuration("%s: unknown node type %q", path, n.Type)
	}
	if n.Name != "" {
		if err := errors.ValidateName(n.Name); err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "%s", path)
		}
	}
	if n.Type == TypeFixed && (n.Width == nil || n.Height == nil) {
		return errors.Configuration("%s: fixed node needs width and height", path)
	}
	for _, v := range []struct {
		name string
		p    *float64
	}{{"width", n.Width}, {"height", n.Height}} {
		if v.p == nil {
			continue
		}
		if err := errors.ValidateNonNegative(v.name, *v.p); err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "%s", path)
		}
	}
	for i := range n.Children {
		if err := n.Children[i].validate(path + ".children[" + itoa(i) + "]"); err != nil {
			return err
		}
	}
	for i := range n.Cells {
		c := &n.Cells[i]
		if c.Row < 0 || c.Col < 0 {
			return errors.Configuration("%s.cells[%d]: negative position (%d,%d)", path, i, c.Row, c.Col)
		}
		if err := c.Node.validate(path + ".cells[" + itoa(i) + "].node"); err != nil {
			return err
		}
	}
	if n.Type != TypeGroup && len(n.Children) > 0 {
		return errors.Configuration("%s: only groups have children", path)
	}
	if n.Type != TypeTable && (len(n.Cells) > 0 || len(n.Rows) > 0 || len(n.Columns) > 0) {
		return errors.Configuration("%s: only tables have cells, rows or columns", path)
	}
	return nil
}

func (n *Node) count() int {
	total := 1
	for i := range n.Children {
		total += n.Children[i].count()
	}
	for i := range n.Cells {
		total += n.Cells[i].Node.count()
	}
	return total
}
