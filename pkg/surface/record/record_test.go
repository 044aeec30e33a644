package record

import (
	"testing"

	"github.com/matzehuels/plotgrid/pkg/core/component"
)

func TestRegionTree(t *testing.T) {
	doc := New(200, 100)
	a := doc.CreateChild("axis.left").(*Region)
	b := a.CreateChild("ticks").(*Region)
	a.SetRect(component.Rect{Origin: component.Point{X: 10, Y: 20}, Size: component.Size{Width: 50, Height: 50}})
	b.SetRect(component.Rect{Origin: component.Point{X: 5, Y: 5}, Size: component.Size{Width: 10, Height: 10}})

	if got := doc.Find("ticks"); got != b {
		t.Fatalf("Find(ticks) = %v", got)
	}
	if got := a.ID(); got != "axis" {
		t.Errorf("ID() = %q", got)
	}
	if got := a.Classes(); len(got) != 1 || got[0] != "left" {
		t.Errorf("Classes() = %v", got)
	}
	want := component.Point{X: 15, Y: 25}
	if got := b.Absolute().Origin; got != want {
		t.Errorf("Absolute() origin = %v, want %v", got, want)
	}
	if n := len(doc.Regions()); n != 2 {
		t.Errorf("Regions() = %d, want 2", n)
	}

	a.Remove()
	if doc.Find("ticks") != nil || b.Live() {
		t.Error("removing a region should remove its subtree")
	}
	if doc.Count(EventRemove, "axis") != 1 {
		t.Errorf("remove events = %d", doc.Count(EventRemove, "axis"))
	}
}

func TestCanvasOps(t *testing.T) {
	doc := New(10, 10)
	r := doc.CreateChild("label").(*Region)
	r.FillRect(component.Rect{Size: component.Size{Width: 5, Height: 5}}, "#fff")
	r.Text(component.Point{X: 1, Y: 8}, "hi", component.TextStyle{Size: 12})
	if len(r.Ops) != 2 || r.Ops[1].Text != "hi" {
		t.Fatalf("ops = %+v", r.Ops)
	}
	r.Clear()
	if len(r.Ops) != 0 {
		t.Error("Clear should drop ops")
	}
}

func TestResize(t *testing.T) {
	doc := New(10, 10)
	doc.Resize(30, 40)
	if got := doc.Size(); got != (component.Size{Width: 30, Height: 40}) {
		t.Errorf("Size() = %v", got)
	}
}
