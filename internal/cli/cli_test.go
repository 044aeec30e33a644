package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/plotgrid/pkg/snapshot"
)

const cliChart = `
title = "CLI"
width = 200
height = 100

[root]
type = "table"
name = "grid"

[[root.rows]]
index = 0
weight = 0

[[root.cells]]
row = 0
col = 0
[root.cells.node]
type = "fixed"
name = "header"
width = 200
height = 20

[[root.cells]]
row = 1
col = 0
[root.cells.node]
type = "panel"
name = "bg"
fill = "#ff0000"
`

// testCLI returns a CLI writing to a buffer and a chart file in a fresh
// directory. The cache lives in the test's temp dir.
func testCLI(t *testing.T) (*CLI, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	path := filepath.Join(dir, "chart.toml")
	if err := os.WriteFile(path, []byte(cliChart), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return &CLI{Logger: newLogger(io.Discard, LogInfo), Out: &out}, &out, path
}

func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,json,pdf", []string{"svg", "json", "pdf"}},
		{"spaces and empties", " svg, ,json ", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "charts/sales.toml", "charts/sales"},
		{"", "-", "chart"},
		{"out/sales.svg", "sales.toml", "out/sales"},
		{"out/sales", "sales.toml", "out/sales"},
		{"out/sales.v2", "sales.toml", "out/sales.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	c, out, path := testCLI(t)
	base := filepath.Join(filepath.Dir(path), "out", "chart")

	if err := run(t, c, "render", path, "-f", "svg,json", "-o", base); err != nil {
		t.Fatal(err)
	}
	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`<svg`)) {
		t.Errorf("svg output does not start a document:\n%s", svg)
	}
	snap, err := snapshot.Import(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := snap.Find("bg"); !ok || n.Absolute.Origin.Y != 20 || n.Rect.Size.Height != 80 {
		t.Errorf("bg = %+v, %v", n, ok)
	}
	if s := out.String(); !strings.Contains(s, `Rendered "CLI"`) || !strings.Contains(s, iconFresh) {
		t.Errorf("first run output:\n%s", s)
	}

	out.Reset()
	if err := run(t, c, "render", path, "-f", "svg,json", "-o", base); err != nil {
		t.Fatal(err)
	}
	if s := out.String(); !strings.Contains(s, iconCached) {
		t.Errorf("second run should be served from cache:\n%s", s)
	}
}

func TestRenderToStdout(t *testing.T) {
	c, out, path := testCLI(t)
	if err := run(t, c, "render", path, "-f", "json", "-o", "-", "--no-cache", "--width", "400"); err != nil {
		t.Fatal(err)
	}
	snap, err := snapshot.ReadJSON(out)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Width != 400 || len(snap.Nodes) != 3 {
		t.Errorf("snapshot %vx%v with %d nodes", snap.Width, snap.Height, len(snap.Nodes))
	}
}

func TestRenderErrors(t *testing.T) {
	c, _, path := testCLI(t)
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"render", path, "-f", "gif"}},
		{"stdout with two formats", []string{"render", path, "-f", "svg,json", "-o", "-"}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.toml")}},
		{"negative width", []string{"render", path, "--width", "-1", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, c, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	c, out, path := testCLI(t)
	if err := run(t, c, "layout", path); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, want := range []string{"header", "bg", `table "grid"`, "row 0", "row 1", "col 0", "80"} {
		if !strings.Contains(s, want) {
			t.Errorf("layout output lacks %q:\n%s", want, s)
		}
	}

	out.Reset()
	if err := run(t, c, "layout", path, "--json"); err != nil {
		t.Fatal(err)
	}
	if _, err := snapshot.ReadJSON(out); err != nil {
		t.Errorf("--json output is not a snapshot: %v", err)
	}
}

func TestTreeCommand(t *testing.T) {
	c, out, path := testCLI(t)
	if err := run(t, c, "tree", path, "-f", "dot", "-o", "-"); err != nil {
		t.Fatal(err)
	}
	dot := out.String()
	for _, want := range []string{`label="table grid"`, `label="fixed header"`, `label="panel bg"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot lacks %q:\n%s", want, dot)
		}
	}

	t.Run("from snapshot", func(t *testing.T) {
		jsonPath := filepath.Join(filepath.Dir(path), "chart.json")
		if err := run(t, c, "render", path, "-f", "json", "-o", jsonPath, "--no-cache"); err != nil {
			t.Fatal(err)
		}
		out.Reset()
		if err := run(t, c, "tree", jsonPath, "-f", "dot", "-o", "-", "--detailed"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "rect: 200x80@(0,20)") {
			t.Errorf("detailed dot lacks bg rect:\n%s", out.String())
		}
	})

	if err := run(t, c, "tree", path, "-f", "gif"); err == nil {
		t.Error("tree -f gif should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	c, out, path := testCLI(t)

	if err := run(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("clear on a fresh cache:\n%s", out.String())
	}

	if err := run(t, c, "render", path, "-f", "svg,json", "-o", filepath.Join(t.TempDir(), "c")); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := run(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 2 cached entries") {
		t.Errorf("clear after render:\n%s", out.String())
	}

	out.Reset()
	if err := run(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCompletionCommand(t *testing.T) {
	c, out, _ := testCLI(t)
	if err := run(t, c, "completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("bash completion does not mention the program")
	}
}
