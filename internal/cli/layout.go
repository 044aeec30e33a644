package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/pipeline"
	"github.com/matzehuels/plotgrid/pkg/snapshot"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	frame  frameFlags
	json   bool // write the snapshot as JSON instead of tables
	tracks bool // include table track allocations
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{tracks: true}

	cmd := &cobra.Command{
		Use:   "layout <chart.toml>",
		Short: "Print the computed layout of a chart",
		Long: `Layout builds the chart's component tree, lays it out once and prints the
rectangle of every component together with how each table divided its
space between rows and columns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the layout snapshot as JSON")
	cmd.Flags().BoolVar(&opts.tracks, "tracks", opts.tracks, "print row and column allocations of each table")
	opts.frame.bind(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	logger := loggerFromContext(ctx)

	source, err := readChart(input)
	if err != nil {
		return err
	}

	popts := opts.frame.options(input)
	popts.Logger = logger

	prog := newProgress(logger)
	spec, err := pipeline.ParseChart(ctx, source, popts)
	if err != nil {
		return err
	}
	scene, err := pipeline.Layout(ctx, spec, popts)
	if err != nil {
		return err
	}
	defer scene.Close()
	snap := scene.Snapshot()
	prog.done(fmt.Sprintf("Laid out %d components", len(snap.Nodes)))

	if opts.json {
		return snapshot.WriteJSON(snap, c.Out)
	}

	printSuccess(c.Out, "Laid out %s", chartLabel(spec.Title, input))
	printStats(c.Out, len(snap.Nodes), scene.Width, scene.Height, false)
	fmt.Fprintln(c.Out, componentTable(snap))

	if !opts.tracks {
		return nil
	}
	walkTables(scene.Root, func(name string, t *component.Table) {
		fmt.Fprintln(c.Out, StyleTitle.Render(fmt.Sprintf("table %s", name))+
			StyleDim.Render(fmt.Sprintf(" %d×%d", t.Rows(), t.Columns())))
		a := t.Allocation()
		fmt.Fprintln(c.Out, trackTable(a))
		if a.WantsWidth || a.WantsHeight {
			printWarning(c.Out, "needs more space (width: %t, height: %t)", a.WantsWidth, a.WantsHeight)
		}
		if a.Capped {
			printWarning(c.Out, "solver stopped after %d iterations", a.Iterations)
		}
	})
	return nil
}

// componentTable renders one row per snapshot node, indented by depth.
func componentTable(s snapshot.Snapshot) string {
	t := newTable("Component", "Name", "Classes", "Rect", "Absolute", "Clip")
	for _, n := range s.Nodes {
		t.Row(
			strings.Repeat("  ", n.Depth)+n.Type,
			n.Name,
			strings.Join(n.Classes, " "),
			n.Rect.String(),
			n.Absolute.String(),
			n.ClipID,
		)
	}
	return t.Render()
}

// trackTable renders the rows and columns of one table allocation.
func trackTable(a component.Allocation) string {
	t := newTable("Track", "Size", "Guaranteed", "Proportional")
	heights := a.RowHeights()
	for i := range heights {
		t.Row("row "+strconv.Itoa(i), num(heights[i]), num(a.GuaranteedHeights[i]), num(a.ProportionalHeights[i]))
	}
	widths := a.ColumnWidths()
	for i := range widths {
		t.Row("col "+strconv.Itoa(i), num(widths[i]), num(a.GuaranteedWidths[i]), num(a.ProportionalWidths[i]))
	}
	return t.Render()
}

// walkTables calls fn for every table in the tree in pre-order.
func walkTables(c component.Component, fn func(name string, t *component.Table)) {
	if t, ok := c.(*component.Table); ok {
		name := "(unnamed)"
		if t.Name() != "" {
			name = strconv.Quote(t.Name())
		}
		fn(name, t)
	}
	if ct, ok := c.(component.Container); ok {
		for _, child := range ct.Components() {
			walkTables(child, fn)
		}
	}
}

// num formats v with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
