package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotgrid/pkg/chart"
	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/core/text"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/observability"
	"github.com/matzehuels/plotgrid/pkg/pipeline"
	"github.com/matzehuels/plotgrid/pkg/surface/cells"
)

const (
	// frameInterval is how often deferred layout work is flushed.
	frameInterval = 50 * time.Millisecond
	// watchInterval is how often the chart file is checked for changes.
	watchInterval = 500 * time.Millisecond
	// footerLines is the number of rows below the chart.
	footerLines = 1
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var outlines, watch bool

	cmd := &cobra.Command{
		Use:   "preview <chart.toml>",
		Short: "Preview a chart's layout in the terminal",
		Long: `Preview lays a chart out in the terminal, one unit per cell, and lays it
out again whenever the window is resized. With --watch the chart is
reloaded when the file changes.

Keys: q quit · r relayout · o toggle region outlines`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == stdioPath && watch {
				return errors.New(errors.ErrCodeInvalidInput, "--watch needs a chart file")
			}
			load := func() (component.Component, *chart.Spec, error) {
				return loadPreview(cmd.Context(), args[0])
			}
			m, err := newPreviewModel(args[0], load, outlines, watch)
			if err != nil {
				return err
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			fm, ok := final.(previewModel)
			if !ok {
				fm = m
			}
			fm.close()
			if err != nil {
				return err
			}
			return fm.err
		},
	}

	cmd.Flags().BoolVar(&outlines, "outlines", false, "draw the border of every region")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the chart when the file changes")

	return cmd
}

// loadPreview reads and builds a chart measured in terminal cells.
func loadPreview(ctx context.Context, path string) (component.Component, *chart.Spec, error) {
	source, err := readChart(path)
	if err != nil {
		return nil, nil, err
	}
	spec, err := pipeline.ParseChart(ctx, source, pipeline.Options{Source: path})
	if err != nil {
		return nil, nil, err
	}
	root, err := chart.Build(spec, text.Monospace{})
	if err != nil {
		return nil, nil, err
	}
	return root, spec, nil
}

// =============================================================================
// Preview model
// =============================================================================

// previewRoot is the part of component.Base the preview drives.
type previewRoot interface {
	component.Component
	RenderTo(env *component.Env, surface component.RootSurface) error
	RequestLayout()
}

// previewStats counts flushes through the layout hooks.
type previewStats struct {
	observability.NoopLayoutHooks
	flushes   int
	laidOut   int
	lastError string
}

func (s *previewStats) OnFlushComplete(laidOut, rendered int, _ time.Duration) {
	s.flushes++
	s.laidOut = laidOut
}

func (s *previewStats) OnRenderError(name string, err error) {
	s.lastError = fmt.Sprintf("%s: %v", name, err)
}

type frameMsg time.Time

type watchMsg time.Time

// reloadMsg carries a freshly built chart.
type reloadMsg struct {
	root component.Component
	spec *chart.Spec
	err  error
}

// previewModel is the bubbletea model for the preview command. Layout work
// is queued on a Deferred policy and flushed on frame ticks, so a burst of
// resize events costs one layout.
type previewModel struct {
	path   string
	load   func() (component.Component, *chart.Spec, error)
	watch  bool
	mtime  time.Time
	root   previewRoot
	spec   *chart.Spec
	doc    *cells.Document
	policy *component.Deferred
	env    *component.Env
	stats  *previewStats
	ready  bool
	err    error
}

func newPreviewModel(path string, load func() (component.Component, *chart.Spec, error), outlines, watch bool) (previewModel, error) {
	root, spec, err := load()
	if err != nil {
		return previewModel{}, err
	}
	r, ok := root.(previewRoot)
	if !ok {
		return previewModel{}, errors.New(errors.ErrCodeInternal, "%T cannot be previewed", root)
	}

	var opts []cells.Option
	if outlines {
		opts = append(opts, cells.WithOutlines())
	}
	policy := &component.Deferred{}
	stats := &previewStats{}
	m := previewModel{
		path:   path,
		load:   load,
		watch:  watch,
		root:   r,
		spec:   spec,
		doc:    cells.New(0, 0, opts...),
		policy: policy,
		env:    component.NewEnv(component.WithPolicy(policy), component.WithHooks(stats)),
		stats:  stats,
	}
	if watch {
		m.mtime = modTime(path)
	}
	return m, nil
}

func (m previewModel) Init() tea.Cmd {
	cmds := []tea.Cmd{frameTick()}
	if m.watch {
		cmds = append(cmds, watchTick())
	}
	return tea.Batch(cmds...)
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.root.RequestLayout()
		case "o":
			m.doc.SetOutlines(!m.doc.Outlines())
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.doc.Resize(msg.Width, max(msg.Height-footerLines, 0))
		if !m.ready {
			m.ready = true
			if err := m.root.RenderTo(m.env, m.doc); err != nil {
				m.err = err
				return m, tea.Quit
			}
			return m, nil
		}
		m.root.RequestLayout()
		return m, nil

	case frameMsg:
		m.policy.RunPending()
		return m, frameTick()

	case watchMsg:
		if mt := modTime(m.path); mt.After(m.mtime) {
			m.mtime = mt
			return m, tea.Batch(m.reload, watchTick())
		}
		return m, watchTick()

	case reloadMsg:
		if msg.err != nil {
			m.stats.lastError = errors.UserMessage(msg.err)
			return m, nil
		}
		r, ok := msg.root.(previewRoot)
		if !ok {
			return m, nil
		}
		m.root.Destroy()
		m.root, m.spec = r, msg.spec
		m.stats.lastError = ""
		if m.ready {
			if err := m.root.RenderTo(m.env, m.doc); err != nil {
				m.stats.lastError = errors.UserMessage(err)
			}
		}
		return m, nil
	}
	return m, nil
}

func (m previewModel) reload() tea.Msg {
	root, spec, err := m.load()
	return reloadMsg{root: root, spec: spec, err: err}
}

func (m previewModel) View() string {
	if !m.ready {
		return StyleDim.Render("  Measuring terminal...")
	}
	return m.doc.String() + "\n" + m.footer()
}

func (m previewModel) footer() string {
	size := m.doc.Size()
	parts := []string{
		fmt.Sprintf("%gx%g", size.Width, size.Height),
		fmt.Sprintf("flush %d (%d laid out)", m.stats.flushes, m.stats.laidOut),
	}
	if m.policy.Pending() {
		parts = append(parts, "pending")
	}
	status := StyleDim.Render(strings.Join(parts, " · ") + " · q quit · r relayout · o outlines")
	if m.stats.lastError != "" {
		status = lipgloss.NewStyle().Foreground(colorRed).Render(iconError + " " + m.stats.lastError)
	}
	title := m.spec.Title
	if title == "" {
		title = m.path
	}
	return StyleTitle.Render(title) + " " + status
}

func (m previewModel) close() {
	if m.root != nil {
		m.root.Destroy()
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func watchTick() tea.Cmd {
	return tea.Tick(watchInterval, func(t time.Time) tea.Msg { return watchMsg(t) })
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
