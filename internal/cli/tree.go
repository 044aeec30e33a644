package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/pipeline"
	"github.com/matzehuels/plotgrid/pkg/render/nodelink"
	"github.com/matzehuels/plotgrid/pkg/snapshot"
)

// treeFormats are the output formats of the tree command.
var treeFormats = []string{"dot", pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF}

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	frame    frameFlags
	output   string
	format   string
	detailed bool
	scale    float64
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{format: pipeline.FormatSVG, scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "tree <chart.toml|snapshot.json>",
		Short: "Draw the component tree of a chart as a node-link diagram",
		Long: `Tree lays out a chart and draws its component hierarchy with Graphviz.
Containers are shaded and clipped components have a dashed outline.

The input may also be a JSON layout snapshot written by
"plotgrid render -f json", in which case no layout is run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(treeFormats, opts.format) {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid tree format %q (must be one of %s)",
					opts.format, strings.Join(treeFormats, ", "))
			}
			return c.runTree(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.tree.<format>, \"-\" for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(treeFormats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with rectangles, classes and clip ids")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	opts.frame.bind(cmd)

	return cmd
}

func (c *CLI) runTree(ctx context.Context, input string, opts treeOpts) error {
	snap, err := c.treeSnapshot(ctx, input, opts.frame)
	if err != nil {
		return err
	}

	dot := nodelink.SnapshotToDOT(snap, nodelink.Options{Detailed: opts.detailed})
	data, err := drawTree(dot, opts.format, opts.scale)
	if err != nil {
		return err
	}

	if opts.output == stdioPath {
		_, err := c.Out.Write(data)
		return err
	}
	path := opts.output
	if path == "" {
		path = basePath("", input) + ".tree." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}

	printSuccess(c.Out, "Drew tree of %d components", len(snap.Nodes))
	printFile(c.Out, path)
	return nil
}

// treeSnapshot lays out a chart, or imports a snapshot for .json inputs.
func (c *CLI) treeSnapshot(ctx context.Context, input string, frame frameFlags) (snapshot.Snapshot, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		return snapshot.Import(input)
	}

	source, err := readChart(input)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	popts := frame.options(input)
	popts.Logger = loggerFromContext(ctx)

	spec, err := pipeline.ParseChart(ctx, source, popts)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	scene, err := pipeline.Layout(ctx, spec, popts)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	defer scene.Close()
	return scene.Snapshot(), nil
}

func drawTree(dot, format string, scale float64) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(dot), nil
	case pipeline.FormatSVG:
		return nodelink.RenderSVG(dot)
	case pipeline.FormatPNG:
		return nodelink.RenderPNG(dot, scale)
	case pipeline.FormatPDF:
		return nodelink.RenderPDF(dot)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported tree format: %s", format)
}
