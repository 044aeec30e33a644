package chart

import (
	"strconv"

	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/core/text"
	"github.com/matzehuels/plotgrid/pkg/core/widget"
	"github.com/matzehuels/plotgrid/pkg/errors"
)

// Build turns the chart's root node into an unanchored component tree.
// Text is measured with m; a nil m measures with the chart's font.
func Build(s *Spec, m text.Measurer) (component.Component, error) {
	if m == nil {
		fm, err := text.ForFamily(s.Font)
		if err != nil {
			return nil, err
		}
		m = fm
	}
	b := builder{measurer: m}
	return b.node(&s.Root, "root")
}

type builder struct {
	measurer text.Measurer
}

// common is the part of component.Base the builder configures.
type common interface {
	component.Component
	SetName(string) error
	AddClass(...string)
	SetXAlign(string) error
	SetYAlign(string) error
	SetXOffset(float64)
	SetYOffset(float64)
	SetClipOverflow(bool)
}

func (b *builder) node(n *Node, path string) (component.Component, error) {
	c, err := b.create(n, path)
	if err != nil {
		return nil, err
	}
	if err := configure(c, n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "%s", path)
	}
	return c, nil
}

func (b *builder) create(n *Node, path string) (common, error) {
	switch n.Type {
	case TypeTable:
		return b.table(n, path)
	case TypeGroup:
		g := component.NewGroup()
		for i := range n.Children {
			child, err := b.node(&n.Children[i], path+".children["+itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			if err := g.Append(child); err != nil {
				return nil, err
			}
		}
		return g, nil
	case TypeLabel:
		l := widget.NewLabel(n.Text, b.measurer)
		if n.FontSize > 0 {
			l.SetFontSize(n.FontSize)
		}
		if n.Color != "" {
			l.SetColor(n.Color)
		}
		l.SetWrap(n.Wrap)
		l.SetPadding(n.Padding)
		return l, nil
	case TypePanel:
		p := widget.NewPanel(n.Fill)
		if n.Stroke != "" {
			p.SetStroke(n.Stroke)
		}
		if n.Width != nil && n.Height != nil {
			p.SetSize(*n.Width, *n.Height)
		}
		return p, nil
	case TypeLegend:
		entries := make([]widget.Entry, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = widget.Entry{Label: e.Label, Color: e.Color}
		}
		l := widget.NewLegend(b.measurer, entries...)
		if n.FontSize > 0 {
			l.SetFontSize(n.FontSize)
		}
		return l, nil
	case TypeFixed:
		return component.NewFixed(*n.Width, *n.Height), nil
	case TypeFill:
		return component.NewFill(), nil
	}
	return nil, errors.Configuration("%s: unknown node type %q", path, n.Type)
}

func (b *builder) table(n *Node, path string) (*component.Table, error) {
	t := component.NewTable()
	for i := range n.Cells {
		cell := &n.Cells[i]
		child, err := b.node(&cell.Node, path+".cells["+itoa(i)+"].node")
		if err != nil {
			return nil, err
		}
		if err := t.Add(child, cell.Row, cell.Col); err != nil {
			return nil, err
		}
	}
	for _, tr := range n.Rows {
		if err := applyTrack(tr, t.SetRowWeight, t.SetRowMinimum); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "%s.rows", path)
		}
	}
	for _, tr := range n.Columns {
		if err := applyTrack(tr, t.SetColumnWeight, t.SetColumnMinimum); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "%s.columns", path)
		}
	}
	if err := t.SetRowPadding(n.RowPadding); err != nil {
		return nil, err
	}
	if err := t.SetColumnPadding(n.ColumnPadding); err != nil {
		return nil, err
	}
	return t, nil
}

func applyTrack(tr Track, setWeight, setMinimum func(int, float64) error) error {
	if tr.Weight != nil {
		if err := setWeight(tr.Index, *tr.Weight); err != nil {
			return err
		}
	}
	if tr.Minimum != 0 {
		return setMinimum(tr.Index, tr.Minimum)
	}
	return nil
}

func configure(c common, n *Node) error {
	if n.Name != "" {
		if err := c.SetName(n.Name); err != nil {
			return err
		}
	}
	c.AddClass(n.Classes...)
	if n.XAlign != "" {
		if err := c.SetXAlign(n.XAlign); err != nil {
			return err
		}
	}
	if n.YAlign != "" {
		if err := c.SetYAlign(n.YAlign); err != nil {
			return err
		}
	}
	c.SetXOffset(n.XOffset)
	c.SetYOffset(n.YOffset)
	c.SetClipOverflow(n.Clip)
	return nil
}

func itoa(i int) string { return strconv.Itoa(i) }
