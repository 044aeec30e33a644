package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/snapshot"
	"github.com/matzehuels/plotgrid/pkg/surface/record"
)

func tree(t *testing.T) component.Component {
	t.Helper()
	table := component.NewTable()
	plot := component.NewFill()
	if err := plot.SetName("plot"); err != nil {
		t.Fatal(err)
	}
	plot.SetClipOverflow(true)
	if err := table.Add(plot, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := table.Add(component.NewFixed(20, 10), 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := table.RenderTo(component.NewEnv(), record.New(100, 100)); err != nil {
		t.Fatal(err)
	}
	return table
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(tree(t), Options{})

	for _, want := range []string{
		"digraph G",
		`"n0" [label="table", fillcolor=lightgrey]`,
		`"n1" [label="fill plot", style="rounded,filled,dashed"]`,
		`"n2" [label="fixed"]`,
		`"n0" -> "n1"`,
		`"n0" -> "n2"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(tree(t), Options{Detailed: true})

	if !strings.Contains(dot, "clip: clip-1") {
		t.Error("ToDOT() detailed output missing clip id")
	}
	if !strings.Contains(dot, "rect: 20x10@(0,90)") {
		t.Errorf("ToDOT() detailed output missing fixed rect\n%s", dot)
	}
}

func TestSnapshotToDOT_Empty(t *testing.T) {
	dot := SnapshotToDOT(snapshot.Snapshot{}, Options{})
	if strings.Contains(dot, "->") {
		t.Error("empty snapshot should have no edges")
	}
}
