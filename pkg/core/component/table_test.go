package component_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/errors"
)

func grid(t *testing.T, cells [][]component.Component) *component.Table {
	t.Helper()
	table := component.NewTable()
	for r, row := range cells {
		for c, cell := range row {
			if cell == nil {
				continue
			}
			if err := table.Add(cell, r, c); err != nil {
				t.Fatalf("Add(%d,%d): %v", r, c, err)
			}
		}
	}
	return table
}

func TestTableFixedGrid(t *testing.T) {
	cells := [][]component.Component{
		{component.NewFixed(50, 50), component.NewFixed(50, 50)},
		{component.NewFixed(50, 50), component.NewFixed(50, 50)},
	}
	table := grid(t, cells)
	render(t, table, 100, 100)

	want := [][]component.Rect{
		{rect(0, 0, 50, 50), rect(50, 0, 50, 50)},
		{rect(0, 50, 50, 50), rect(50, 50, 50, 50)},
	}
	for r := range cells {
		for c := range cells[r] {
			got := cells[r][c].(*component.Fixed).Bounds()
			if d := diffRect(want[r][c], got); d != "" {
				t.Errorf("cell (%d,%d) (-want +got):\n%s", r, c, d)
			}
		}
	}
}

func TestTableWeightedColumnGetsRemainder(t *testing.T) {
	flex := component.NewFill()
	fixed := component.NewFixed(300, 10)
	table := grid(t, [][]component.Component{{flex, fixed}})
	render(t, table, 500, 100)

	widths := table.Allocation().ColumnWidths()
	if diff := cmp.Diff([]float64{200, 300}, widths, approx); diff != "" {
		t.Errorf("column widths (-want +got):\n%s", diff)
	}
	if d := diffRect(rect(0, 0, 200, 100), flex.Bounds()); d != "" {
		t.Errorf("flex bounds (-want +got):\n%s", d)
	}
	if d := diffRect(rect(200, 0, 300, 10), fixed.Bounds()); d != "" {
		t.Errorf("fixed bounds (-want +got):\n%s", d)
	}
}

func TestTableSolveMixedGrid(t *testing.T) {
	table := grid(t, [][]component.Component{
		{component.NewFixed(50, 50), component.NewFill()},
		{component.NewFill(), component.NewFixed(20, 10)},
	})
	got := table.Solve(500, 500)

	tests := []struct {
		name string
		got  []float64
		want []float64
	}{
		{"proportional widths", got.ProportionalWidths, []float64{215, 215}},
		{"proportional heights", got.ProportionalHeights, []float64{220, 220}},
		{"guaranteed widths", got.GuaranteedWidths, []float64{50, 20}},
		{"guaranteed heights", got.GuaranteedHeights, []float64{50, 10}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.got, approx); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tt.name, diff)
		}
	}
	if got.WantsWidth || got.WantsHeight {
		t.Errorf("wants = %v/%v, want false/false", got.WantsWidth, got.WantsHeight)
	}
}

func TestTableWrappedTextConverges(t *testing.T) {
	text := newWrapText(300, 20)
	table := grid(t, [][]component.Component{{text, component.NewFixed(100, 50)}})
	render(t, table, 400, 200)

	a := table.Allocation()
	if a.Capped {
		t.Fatalf("solver hit the iteration cap after %d iterations", a.Iterations)
	}
	if a.Iterations > 5+table.Rows()+table.Columns() {
		t.Errorf("iterations = %d", a.Iterations)
	}
	widths := a.ColumnWidths()
	req := text.RequestedSpace(widths[0], a.RowHeights()[0])
	if widths[0] < req.Width {
		t.Errorf("final width %v below last request %v", widths[0], req.Width)
	}
	if diff := cmp.Diff([]float64{300, 100}, widths, approx); diff != "" {
		t.Errorf("column widths (-want +got):\n%s", diff)
	}
}

func TestTableConservation(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*component.Table)
		width  float64
		height float64
	}{
		{
			name: "inferred weights",
			setup: func(tb *component.Table) {
				_ = tb.Add(component.NewFixed(40, 20), 0, 0)
				_ = tb.Add(component.NewFill(), 0, 1)
				_ = tb.Add(component.NewFill(), 1, 2)
			},
			width: 333, height: 71,
		},
		{
			name: "explicit weights and minimums",
			setup: func(tb *component.Table) {
				_ = tb.Add(component.NewFill(), 0, 0)
				_ = tb.Add(component.NewFill(), 1, 1)
				_ = tb.Add(component.NewFill(), 2, 2)
				_ = tb.SetColumnWeight(0, 3)
				_ = tb.SetColumnWeight(1, 7)
				_ = tb.SetColumnWeight(2, 1)
				_ = tb.SetColumnMinimum(2, 50)
				_ = tb.SetRowWeight(1, 0)
				_ = tb.SetRowMinimum(1, 13)
			},
			width: 1000, height: 100,
		},
		{
			name: "zero weight fixed column",
			setup: func(tb *component.Table) {
				_ = tb.Add(component.NewFixed(17, 17), 0, 0)
				_ = tb.Add(component.NewFill(), 0, 1)
				_ = tb.SetColumnWeight(1, 0.3)
			},
			width: 101, height: 99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := component.NewTable()
			tt.setup(table)
			render(t, table, tt.width, tt.height)
			a := table.Allocation()
			if diff := cmp.Diff(tt.width, sum(a.ColumnWidths()), approx); diff != "" {
				t.Errorf("column sum (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.height, sum(a.RowHeights()), approx); diff != "" {
				t.Errorf("row sum (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableFixedExactness(t *testing.T) {
	for _, size := range []float64{60, 100, 250, 1000} {
		fixed := component.NewFixed(30, 40)
		_ = fixed.SetXAlign("center")
		table := grid(t, [][]component.Component{
			{component.NewFill(), fixed},
			{nil, component.NewFill()},
		})
		render(t, table, size, size)

		got := fixed.Bounds().Size
		if got != (component.Size{Width: 30, Height: 40}) {
			t.Errorf("offered %v: fixed size = %v, want 30x40", size, got)
		}
		if req := fixed.RequestedSpace(size, size); req.Width != 30 || req.Height != 40 {
			t.Errorf("offered %v: request = %+v", size, req)
		}
	}
}

func TestTableMonotonicity(t *testing.T) {
	table := component.NewTable()
	_ = table.Add(component.NewFixed(120, 30), 0, 0)
	_ = table.Add(component.NewFill(), 0, 1)
	_ = table.Add(component.NewFill(), 1, 2)
	_ = table.SetColumnWeight(2, 2)
	env, doc := render(t, table, 200, 100)

	prevW := table.Allocation().ColumnWidths()
	prevH := table.Allocation().RowHeights()
	for size := 250.0; size <= 1000; size += 50 {
		doc.Resize(size, size/2)
		env.Controller().RequestLayout(table)
		widths := table.Allocation().ColumnWidths()
		heights := table.Allocation().RowHeights()
		for i := range widths {
			if widths[i] < prevW[i]-1e-9 {
				t.Errorf("offered %v: column %d shrank from %v to %v", size, i, prevW[i], widths[i])
			}
		}
		for i := range heights {
			if heights[i] < prevH[i]-1e-9 {
				t.Errorf("offered %v: row %d shrank from %v to %v", size, i, prevH[i], heights[i])
			}
		}
		prevW, prevH = widths, heights
	}
}

func TestTableIdempotence(t *testing.T) {
	cells := []component.Component{
		component.NewFixed(40, 20), newWrapText(150, 12), component.NewFill(), component.NewFixed(10, 90),
	}
	table := grid(t, [][]component.Component{{cells[0], cells[1]}, {cells[2], cells[3]}})
	_ = table.SetRowPadding(3)
	render(t, table, 300, 200)

	bounds := func() []component.Rect {
		var out []component.Rect
		for _, c := range cells {
			out = append(out, boundsOf(c))
		}
		return out
	}
	first := bounds()
	if err := table.ComputeLayout(component.Point{}, 300, 200); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, bounds(), approx); diff != "" {
		t.Errorf("second layout differs (-first +second):\n%s", diff)
	}
}

func TestTableOverflowGrantsFloors(t *testing.T) {
	a, b := component.NewFixed(300, 10), component.NewFixed(300, 10)
	table := grid(t, [][]component.Component{{a, b}})

	req := table.RequestedSpace(500, 100)
	if req.Width != 600 || !req.WantsMoreWidth {
		t.Errorf("RequestedSpace = %+v, want width 600 wanting more", req)
	}
	render(t, table, 500, 100)

	alloc := table.Allocation()
	if !alloc.WantsWidth {
		t.Error("allocation should want width")
	}
	if diff := cmp.Diff([]float64{300, 300}, alloc.ColumnWidths(), approx); diff != "" {
		t.Errorf("column widths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0}, alloc.ProportionalWidths, approx); diff != "" {
		t.Errorf("proportional widths (-want +got):\n%s", diff)
	}
	if d := diffRect(rect(0, 0, 300, 10), a.Bounds()); d != "" {
		t.Errorf("a bounds (-want +got):\n%s", d)
	}
	if d := diffRect(rect(300, 0, 300, 10), b.Bounds()); d != "" {
		t.Errorf("b bounds (-want +got):\n%s", d)
	}
}

func TestTableFirstPassOffersWholeSpace(t *testing.T) {
	text := newWrapText(400, 10)
	text.SetFixedWidth(true)
	fill := component.NewFill()
	table := grid(t, [][]component.Component{{text, fill}})
	render(t, table, 500, 100)

	if diff := cmp.Diff([]float64{400, 100}, table.Allocation().ColumnWidths(), approx); diff != "" {
		t.Errorf("column widths (-want +got):\n%s", diff)
	}
	if got := text.Bounds().Size.Width; got != 400 {
		t.Errorf("text width = %v, want 400 without wrapping", got)
	}
	if d := diffRect(rect(400, 0, 100, 100), fill.Bounds()); d != "" {
		t.Errorf("fill bounds (-want +got):\n%s", d)
	}
}

func TestTablePadding(t *testing.T) {
	a, b := component.NewFill(), component.NewFill()
	table := grid(t, [][]component.Component{{a}, {b}})
	_ = table.SetRowPadding(10)
	render(t, table, 100, 110)

	if d := diffRect(rect(0, 0, 100, 50), a.Bounds()); d != "" {
		t.Errorf("top (-want +got):\n%s", d)
	}
	if d := diffRect(rect(0, 60, 100, 50), b.Bounds()); d != "" {
		t.Errorf("bottom (-want +got):\n%s", d)
	}
	if req := table.RequestedSpace(100, 110); req.Height != 10 {
		t.Errorf("request height = %v, want padding only", req.Height)
	}
}

func TestTableAddErrors(t *testing.T) {
	table := component.NewTable()
	tests := []struct {
		name string
		add  func() error
		code errors.Code
	}{
		{"nil component", func() error { return table.Add(nil, 0, 0) }, errors.ErrCodeConfiguration},
		{"negative row", func() error { return table.Add(component.NewFill(), -1, 0) }, errors.ErrCodePrecondition},
		{"negative column", func() error { return table.Add(component.NewFill(), 0, -2) }, errors.ErrCodePrecondition},
		{"negative weight", func() error { return table.SetRowWeight(0, -1) }, errors.ErrCodePrecondition},
		{"negative minimum", func() error { return table.SetColumnMinimum(0, -5) }, errors.ErrCodePrecondition},
		{"negative padding", func() error { return table.SetColumnPadding(-1) }, errors.ErrCodePrecondition},
		{"negative track index", func() error { return table.SetColumnWeight(-1, 1) }, errors.ErrCodePrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.add(); !errors.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestTableGrowAndRemove(t *testing.T) {
	table := component.NewTable()
	f := component.NewFill()
	_ = table.Add(f, 2, 3)
	if table.Rows() != 3 || table.Columns() != 4 {
		t.Fatalf("grid = %dx%d, want 3x4", table.Rows(), table.Columns())
	}
	if table.ComponentAt(2, 3) != component.Component(f) || table.ComponentAt(0, 0) != nil || table.ComponentAt(9, 9) != nil {
		t.Error("ComponentAt mismatch")
	}

	table.Remove(f)
	table.Remove(f)
	if table.Has(f) || table.ComponentAt(2, 3) != nil {
		t.Error("Remove should empty the cell")
	}
	if table.Rows() != 3 || table.Columns() != 4 {
		t.Error("grid must not shrink")
	}
}

func TestTableMergesOccupiedCell(t *testing.T) {
	table := component.NewTable()
	a := component.NewFixed(10, 40)
	b := component.NewFixed(30, 20)
	c := component.NewFill()
	_ = table.Add(a, 0, 0)
	_ = table.Add(b, 0, 0)

	g, ok := table.ComponentAt(0, 0).(*component.Group)
	if !ok {
		t.Fatalf("cell holds %T, want *Group", table.ComponentAt(0, 0))
	}
	_ = table.Add(c, 0, 0)
	if table.ComponentAt(0, 0) != component.Component(g) {
		t.Error("third component should join the existing group")
	}
	if len(g.Components()) != 3 {
		t.Errorf("group has %d children", len(g.Components()))
	}

	render(t, table, 100, 100)
	if !a.Anchored() || !c.Anchored() {
		t.Error("merged components should be anchored with the table")
	}
}

func TestTableAddMovesWithinTable(t *testing.T) {
	table := component.NewTable()
	a := component.NewFixed(10, 10)
	b := component.NewFixed(20, 20)
	_ = table.Add(a, 0, 0)
	_ = table.Add(b, 1, 1)
	render(t, table, 100, 100)

	tests := []struct {
		name     string
		row, col int
		check    func(t *testing.T)
	}{
		{"same cell", 0, 0, func(t *testing.T) {
			if table.ComponentAt(0, 0) != component.Component(a) {
				t.Error("a should stay at (0,0)")
			}
		}},
		{"empty cell", 0, 1, func(t *testing.T) {
			if table.ComponentAt(0, 0) != nil || table.ComponentAt(0, 1) != component.Component(a) {
				t.Error("a should move from (0,0) to (0,1)")
			}
		}},
		{"occupied cell", 1, 1, func(t *testing.T) {
			g, ok := table.ComponentAt(1, 1).(*component.Group)
			if !ok {
				t.Fatalf("cell holds %T, want *Group", table.ComponentAt(1, 1))
			}
			if len(g.Components()) != 2 || table.ComponentAt(0, 1) != nil {
				t.Errorf("group has %d children, (0,1) = %v", len(g.Components()), table.ComponentAt(0, 1))
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := table.Add(a, tt.row, tt.col); err != nil {
				t.Fatal(err)
			}
			tt.check(t)
			if !a.Anchored() {
				t.Error("moved component should stay anchored")
			}
		})
	}
}

func TestTableWeightAccessors(t *testing.T) {
	table := component.NewTable()
	if _, ok := table.RowWeight(0); ok {
		t.Error("unset weight reported as set")
	}
	_ = table.SetRowWeight(1, 2)
	if w, ok := table.RowWeight(1); !ok || w != 2 {
		t.Errorf("RowWeight(1) = %v, %v", w, ok)
	}
	if table.Rows() != 2 {
		t.Errorf("setting a weight should grow the grid, rows = %d", table.Rows())
	}
}

func TestTableSolverHooks(t *testing.T) {
	hooks := &hookRecorder{}
	table := grid(t, [][]component.Component{{component.NewFill()}})
	render(t, table, 10, 10, component.WithHooks(hooks))
	if hooks.solves == 0 {
		t.Error("OnSolve not called")
	}
	if hooks.capped != 0 {
		t.Error("simple grid should not hit the cap")
	}
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func boundsOf(c component.Component) component.Rect {
	type bounded interface{ Bounds() component.Rect }
	return c.(bounded).Bounds()
}
