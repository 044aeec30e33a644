package component

import (
	stderrors "errors"
	"math"

	"github.com/matzehuels/plotgrid/pkg/errors"
)

// Table lays out components in a grid of rows and columns.
//
// Space is allocated iteratively: each row and column is first guaranteed
// the largest request of its occupants, then the remaining space is shared
// by weight. A column whose weight was never set gets weight 0 when all its
// occupants are fixed-width and 1 otherwise; rows are symmetric.
type Table struct {
	Base
	solver
	alloc Allocation
}

// NewTable returns an empty table.
func NewTable() *Table {
	t := &Table{}
	t.Init(t)
	return t
}

// Add places c at (row, col), growing the grid as needed. If the cell is
// occupied, the occupants are merged into a Group. A component the table
// already holds in another cell is moved; adding it at its own cell is a
// no-op.
func (t *Table) Add(c Component, row, col int) error {
	if c == nil {
		return errors.Configuration("cannot add nil to table cell (%d,%d)", row, col)
	}
	if err := errors.ValidateIndex("row", row); err != nil {
		return err
	}
	if err := errors.ValidateIndex("column", col); err != nil {
		return err
	}
	if err := t.canAdopt(c); err != nil {
		return err
	}
	t.grow(row+1, col+1)
	if r, cl, ok := t.position(c); ok {
		if r == row && cl == col {
			return nil
		}
		if t.cells[row][col] == nil {
			t.cells[r][cl] = nil
			t.cells[row][col] = c
			t.RequestLayout()
			return nil
		}
	}
	if occupant := t.cells[row][col]; occupant != nil {
		g, ok := occupant.(*Group)
		if !ok || !g.auto {
			g = NewGroup()
			g.auto = true
			occupant.Detach()
			if err := g.Append(occupant); err != nil {
				return err
			}
			t.cells[row][col] = g
			if err := t.attach(g); err != nil {
				return err
			}
		}
		return g.Append(c)
	}

	c.Detach()
	t.cells[row][col] = c
	return t.attach(c)
}

// Remove detaches c. The cell becomes empty; the grid never shrinks.
func (t *Table) Remove(c Component) {
	if t.Has(c) {
		c.Detach()
	}
}

// Has reports whether c occupies a cell directly.
func (t *Table) Has(c Component) bool {
	_, _, ok := t.position(c)
	return ok
}

// ComponentAt returns the occupant of (row, col), or nil.
func (t *Table) ComponentAt(row, col int) Component {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.cols) {
		return nil
	}
	return t.cells[row][col]
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.rows) }

// Columns returns the number of columns.
func (t *Table) Columns() int { return len(t.cols) }

// Components returns the occupants in row-major order.
func (t *Table) Components() []Component {
	var out []Component
	for _, row := range t.cells {
		for _, c := range row {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

func (t *Table) release(c Component) {
	if r, col, ok := t.position(c); ok {
		t.cells[r][col] = nil
	}
}

func (t *Table) position(c Component) (row, col int, ok bool) {
	for r, cells := range t.cells {
		for col, o := range cells {
			if o != nil && o == c {
				return r, col, true
			}
		}
	}
	return 0, 0, false
}

func (t *Table) grow(rows, cols int) {
	for len(t.cols) < cols {
		t.cols = append(t.cols, track{})
	}
	for len(t.rows) < rows {
		t.rows = append(t.rows, track{})
		t.cells = append(t.cells, nil)
	}
	for r := range t.cells {
		for len(t.cells[r]) < len(t.cols) {
			t.cells[r] = append(t.cells[r], nil)
		}
	}
}

// =============================================================================
// Track settings
// =============================================================================

// RowWeight returns the explicit weight of row, and whether one was set.
func (t *Table) RowWeight(row int) (float64, bool) {
	if row < 0 || row >= len(t.rows) {
		return 0, false
	}
	return t.rows[row].weight, t.rows[row].weightSet
}

// ColumnWeight returns the explicit weight of col, and whether one was set.
func (t *Table) ColumnWeight(col int) (float64, bool) {
	if col < 0 || col >= len(t.cols) {
		return 0, false
	}
	return t.cols[col].weight, t.cols[col].weightSet
}

// SetRowWeight sets the share of free height row receives.
func (t *Table) SetRowWeight(row int, weight float64) error {
	if err := t.checkTrack("row", row, "row weight", weight); err != nil {
		return err
	}
	t.grow(row+1, 0)
	t.rows[row].weight, t.rows[row].weightSet = weight, true
	t.RequestLayout()
	return nil
}

// SetColumnWeight sets the share of free width col receives.
func (t *Table) SetColumnWeight(col int, weight float64) error {
	if err := t.checkTrack("column", col, "column weight", weight); err != nil {
		return err
	}
	t.grow(0, col+1)
	t.cols[col].weight, t.cols[col].weightSet = weight, true
	t.RequestLayout()
	return nil
}

// SetRowMinimum guarantees row at least height.
func (t *Table) SetRowMinimum(row int, height float64) error {
	if err := t.checkTrack("row", row, "row minimum", height); err != nil {
		return err
	}
	t.grow(row+1, 0)
	t.rows[row].minimum = height
	t.RequestLayout()
	return nil
}

// SetColumnMinimum guarantees col at least width.
func (t *Table) SetColumnMinimum(col int, width float64) error {
	if err := t.checkTrack("column", col, "column minimum", width); err != nil {
		return err
	}
	t.grow(0, col+1)
	t.cols[col].minimum = width
	t.RequestLayout()
	return nil
}

// RowPadding returns the gap between rows.
func (t *Table) RowPadding() float64 { return t.rowPadding }

// ColumnPadding returns the gap between columns.
func (t *Table) ColumnPadding() float64 { return t.colPadding }

// SetRowPadding sets the gap between rows.
func (t *Table) SetRowPadding(p float64) error {
	if err := errors.ValidateNonNegative("row padding", p); err != nil {
		return err
	}
	t.rowPadding = p
	t.RequestLayout()
	return nil
}

// SetColumnPadding sets the gap between columns.
func (t *Table) SetColumnPadding(p float64) error {
	if err := errors.ValidateNonNegative("column padding", p); err != nil {
		return err
	}
	t.colPadding = p
	t.RequestLayout()
	return nil
}

func (t *Table) checkTrack(kind string, index int, name string, v float64) error {
	if err := errors.ValidateIndex(kind, index); err != nil {
		return err
	}
	return errors.ValidateNonNegative(name, v)
}

// =============================================================================
// Layout
// =============================================================================

// Allocation returns the allocation used by the last ComputeLayout.
func (t *Table) Allocation() Allocation { return t.alloc }

// Solve runs the allocator against an offer without touching layout state.
func (t *Table) Solve(offeredWidth, offeredHeight float64) Allocation {
	return t.solve(offeredWidth, offeredHeight)
}

// RequestedSpace asks for the sum of the guarantees plus padding.
func (t *Table) RequestedSpace(offeredWidth, offeredHeight float64) SpaceRequest {
	a := t.solve(offeredWidth, offeredHeight)
	return SpaceRequest{
		Width:           sum(a.GuaranteedWidths) + t.paddingWidth(),
		Height:          sum(a.GuaranteedHeights) + t.paddingHeight(),
		WantsMoreWidth:  a.WantsWidth,
		WantsMoreHeight: a.WantsHeight,
	}
}

// FixedWidth reports whether every occupant is fixed-width.
func (t *Table) FixedWidth() bool {
	for _, c := range t.Components() {
		if !c.FixedWidth() {
			return false
		}
	}
	return true
}

// FixedHeight reports whether every occupant is fixed-height.
func (t *Table) FixedHeight() bool {
	for _, c := range t.Components() {
		if !c.FixedHeight() {
			return false
		}
	}
	return true
}

// ComputeLayout solves against the granted size and places every occupant
// at its cell. Guarantees that overflow the size are granted anyway; the
// overflowing cells extend past the table's bounds.
func (t *Table) ComputeLayout(origin Point, availableWidth, availableHeight float64) error {
	if err := t.Base.ComputeLayout(origin, availableWidth, availableHeight); err != nil {
		return err
	}
	a := t.solve(t.width, t.height)
	t.alloc = a

	env := t.env
	env.hooks.OnSolve(len(t.rows), len(t.cols), a.Iterations, a.Capped)
	if a.Capped {
		env.logger.Warn("table solver hit iteration cap", "table", Describe(t), "iterations", a.Iterations)
	}

	widths, heights := a.ColumnWidths(), a.RowHeights()
	var errs []error
	y := 0.0
	for r, row := range t.cells {
		x := 0.0
		for c, cell := range row {
			if cell != nil {
				if err := cell.ComputeLayout(Point{X: x, Y: y}, widths[c], heights[r]); err != nil {
					errs = append(errs, err)
				}
			}
			x += widths[c] + t.colPadding
		}
		y += heights[r] + t.rowPadding
	}
	return stderrors.Join(errs...)
}

func (t *Table) paddingWidth() float64 {
	return t.colPadding * math.Max(float64(len(t.cols)-1), 0)
}

func (t *Table) paddingHeight() float64 {
	return t.rowPadding * math.Max(float64(len(t.rows)-1), 0)
}
