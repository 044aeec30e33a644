package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/fonts"
	"github.com/matzehuels/plotgrid/pkg/pipeline"
)

// frameFlags override the chart's frame size and font.
type frameFlags struct {
	width  float64
	height float64
	font   string
}

func (f *frameFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "frame width (default: the chart's width)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "frame height (default: the chart's height)")
	cmd.Flags().StringVar(&f.font, "font", "", "font family: "+strings.Join(fonts.Names(), ", "))
}

func (f frameFlags) options(source string) pipeline.Options {
	return pipeline.Options{Source: source, Width: f.width, Height: f.height, Font: f.font}
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	frame   frameFlags
	cache   cacheFlags
	output  string   // output file (single format), base path, or "-" for stdout
	formats []string // svg, json, png, pdf
	scale   float64  // png scale factor
	refresh bool     // skip cache reads
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <chart.toml>",
		Short: "Render a chart to SVG, PNG, PDF or a JSON layout snapshot",
		Long: `Render lays out a chart description and writes one file per format.

With a single format, -o names the output file ("-" writes to stdout).
With several formats, -o is a base path and each file gets the format as
its extension. Results are cached by chart content and frame size.`,
		Example: `  plotgrid render examples/dashboard.toml
  plotgrid render chart.toml -f svg,png --scale 3 -o out/chart
  cat chart.toml | plotgrid render - -f json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == stdioPath && len(opts.formats) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(opts.formats))
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	opts.frame.bind(cmd)
	opts.cache.bind(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	source, err := readChart(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.frame.options(input)
	popts.Formats = opts.formats
	popts.Scale = opts.scale
	popts.Refresh = opts.refresh
	popts.Logger = logger

	var spin *Spinner
	if slices.Contains(opts.formats, pipeline.FormatPNG) || slices.Contains(opts.formats, pipeline.FormatPDF) {
		spin = newSpinner(ctx, os.Stderr, "Rendering "+input)
		spin.Start()
	}
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, source, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", input))

	if opts.output == stdioPath {
		_, err := c.Out.Write(result.Artifacts[opts.formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.formats, opts.output, input)
	if err != nil {
		return err
	}

	printSuccess(c.Out, "Rendered %s", chartLabel(result.Title, input))
	printStats(c.Out, result.Stats.ComponentCount, result.Stats.Width, result.Stats.Height, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(c.Out, p)
	}
	if input != stdioPath {
		printNextStep(c.Out, "Inspect the layout", appName+" layout "+input)
	}
	return nil
}

// writeArtifacts writes one file per format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
			path = output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the output path without extension. An empty output
// uses the input path; a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == stdioPath {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func chartLabel(title, input string) string {
	if title != "" {
		return fmt.Sprintf("%q", title)
	}
	if input == stdioPath {
		return "chart from stdin"
	}
	return input
}
