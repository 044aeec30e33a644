package component

import "math"

// Allocation is the outcome of one table solve.
//
// The final size of column c is GuaranteedWidths[c] + ProportionalWidths[c];
// rows are symmetric. Sizes exclude padding.
type Allocation struct {
	GuaranteedWidths    []float64 `json:"guaranteed_widths"`
	GuaranteedHeights   []float64 `json:"guaranteed_heights"`
	ProportionalWidths  []float64 `json:"proportional_widths"`
	ProportionalHeights []float64 `json:"proportional_heights"`
	WantsWidth          bool      `json:"wants_width"`
	WantsHeight         bool      `json:"wants_height"`
	Iterations          int       `json:"iterations"`
	Capped              bool      `json:"capped,omitempty"`
}

// ColumnWidths returns the final column widths.
func (a Allocation) ColumnWidths() []float64 {
	return addVectors(a.GuaranteedWidths, a.ProportionalWidths)
}

// RowHeights returns the final row heights.
func (a Allocation) RowHeights() []float64 {
	return addVectors(a.GuaranteedHeights, a.ProportionalHeights)
}

// track holds per-row or per-column settings.
type track struct {
	weight    float64
	weightSet bool
	minimum   float64
}

// solver allocates a grid. It only reads the cells.
type solver struct {
	cells      [][]Component
	rows, cols []track
	rowPadding float64
	colPadding float64
}

// iterationCap bounds the refinement loop. Each pass can at most settle one
// more row or column, so the cap grows with the grid.
func (s *solver) iterationCap() int {
	return 5 + len(s.rows) + len(s.cols)
}

type guarantees struct {
	widths, heights         []float64
	wantsWidth, wantsHeight []bool
}

// solve allocates offeredWidth x offeredHeight. Guarantees are never
// shrunk to fit: when they overflow the offer, every track keeps its
// guarantee, no proportional space is handed out and the allocation wants
// more in that dimension.
func (s *solver) solve(offeredWidth, offeredHeight float64) Allocation {
	nRows, nCols := len(s.rows), len(s.cols)
	availWidth := offeredWidth - s.colPadding*float64(max(nCols-1, 0))
	availHeight := offeredHeight - s.rowPadding*float64(max(nRows-1, 0))

	colWeights := s.columnWeights()
	rowWeights := s.rowWeights()

	// The first pass offers every cell the whole space.
	offeredWidths := filled(nCols, availWidth)
	offeredHeights := filled(nRows, availHeight)

	var (
		guaranteedWidths        []float64
		guaranteedHeights       []float64
		g                       guarantees
		freeWidth, freeHeight   float64
		wantsWidth, wantsHeight bool
		iterations              int
		capped                  bool
	)
	lastFreeWidth, lastFreeHeight := math.NaN(), math.NaN()
	for {
		g = s.guarantees(offeredWidths, offeredHeights)
		guaranteedWidths, guaranteedHeights = g.widths, g.heights
		wantsWidth, wantsHeight = anyTrue(g.wantsWidth), anyTrue(g.wantsHeight)

		freeWidth = availWidth - sum(guaranteedWidths)
		freeHeight = availHeight - sum(guaranteedHeights)
		colProportional := proportional(boosted(colWeights, g.wantsWidth), math.Max(freeWidth, 0))
		rowProportional := proportional(boosted(rowWeights, g.wantsHeight), math.Max(freeHeight, 0))
		offeredWidths = addVectors(guaranteedWidths, colProportional)
		offeredHeights = addVectors(guaranteedHeights, rowProportional)
		iterations++

		improveWidth := freeWidth > 0 && freeWidth != lastFreeWidth
		improveHeight := freeHeight > 0 && freeHeight != lastFreeHeight
		if !improveWidth && !improveHeight {
			break
		}
		if iterations >= s.iterationCap() {
			capped = true
			break
		}
		lastFreeWidth, lastFreeHeight = freeWidth, freeHeight
	}

	// Final shares use the real weights.
	return Allocation{
		GuaranteedWidths:    guaranteedWidths,
		GuaranteedHeights:   guaranteedHeights,
		ProportionalWidths:  share(colWeights, freeWidth),
		ProportionalHeights: share(rowWeights, freeHeight),
		WantsWidth:          wantsWidth || freeWidth < 0,
		WantsHeight:         wantsHeight || freeHeight < 0,
		Iterations:          iterations,
		Capped:              capped,
	}
}

// columnWeights returns explicit weights, inferring unset ones: 0 when
// every occupant of the column is fixed-width, otherwise 1.
func (s *solver) columnWeights() []float64 {
	out := make([]float64, len(s.cols))
	for c, t := range s.cols {
		if t.weightSet {
			out[c] = t.weight
			continue
		}
		for r := range s.cells {
			if cell := s.cells[r][c]; cell != nil && !cell.FixedWidth() {
				out[c] = 1
				break
			}
		}
	}
	return out
}

// rowWeights is columnWeights for rows and heights.
func (s *solver) rowWeights() []float64 {
	out := make([]float64, len(s.rows))
	for r, t := range s.rows {
		if t.weightSet {
			out[r] = t.weight
			continue
		}
		for _, cell := range s.cells[r] {
			if cell != nil && !cell.FixedHeight() {
				out[r] = 1
				break
			}
		}
	}
	return out
}

// guarantees offers every cell its track sizes and records the largest
// request per track, floored by the track minimum.
func (s *solver) guarantees(offeredWidths, offeredHeights []float64) guarantees {
	g := guarantees{
		widths:      make([]float64, len(s.cols)),
		heights:     make([]float64, len(s.rows)),
		wantsWidth:  make([]bool, len(s.cols)),
		wantsHeight: make([]bool, len(s.rows)),
	}
	for c, t := range s.cols {
		g.widths[c] = t.minimum
	}
	for r, t := range s.rows {
		g.heights[r] = t.minimum
	}
	for r, row := range s.cells {
		for c, cell := range row {
			if cell == nil {
				continue
			}
			req := cell.RequestedSpace(offeredWidths[c], offeredHeights[r])
			g.widths[c] = math.Max(g.widths[c], req.Width)
			g.heights[r] = math.Max(g.heights[r], req.Height)
			g.wantsWidth[c] = g.wantsWidth[c] || req.Width > offeredWidths[c]
			g.wantsHeight[r] = g.wantsHeight[r] || req.Height > offeredHeights[r]
		}
	}
	return g
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// boosted adds 0.1 to the weight of every track that wants more space.
func boosted(weights []float64, wants []bool) []float64 {
	out := make([]float64, len(weights))
	for i, w := range weights {
		if wants[i] {
			w += 0.1
		}
		out[i] = w
	}
	return out
}

func proportional(weights []float64, free float64) []float64 {
	out := make([]float64, len(weights))
	total := sum(weights)
	if total == 0 {
		return out
	}
	for i, w := range weights {
		out[i] = free * w / total
	}
	return out
}

// share distributes non-negative free space by weight. The rounding residue
// goes to the last weighted track so the shares add up to free exactly.
func share(weights []float64, free float64) []float64 {
	free = math.Max(free, 0)
	shares := proportional(weights, free)
	last := -1
	for i, w := range weights {
		if w > 0 {
			last = i
		}
	}
	if last < 0 {
		return shares
	}
	var rest float64
	for i, v := range shares {
		if i != last {
			rest += v
		}
	}
	shares[last] = free - rest
	return shares
}

func addVectors(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func anyTrue(v []bool) bool {
	for _, b := range v {
		if b {
			return true
		}
	}
	return false
}
