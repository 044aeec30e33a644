// Package snapshot captures a laid-out component tree as plain data.
//
// A [Snapshot] lists every component in paint order with its rectangle
// relative to the parent and relative to the root. It is what the json
// output format writes and what golden tests compare against.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/plotgrid/pkg/core/component"
)

// Snapshot is the captured tree.
type Snapshot struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Nodes  []Node  `json:"nodes"`
}

// Node is one component. Parent is the index of the parent node, -1 for
// the root.
type Node struct {
	Type     string         `json:"type"`
	Name     string         `json:"name,omitempty"`
	Classes  []string       `json:"classes,omitempty"`
	Parent   int            `json:"parent"`
	Depth    int            `json:"depth"`
	Rect     component.Rect `json:"rect"`
	Absolute component.Rect `json:"absolute"`
	ClipID   string         `json:"clip,omitempty"`
}

// geometry is satisfied by every component embedding component.Base.
type geometry interface {
	Name() string
	Classes() []string
	Bounds() component.Rect
	OriginToRoot() component.Point
	ClipID() string
}

// Capture walks root in pre-order. The snapshot size is the root's
// computed size.
func Capture(root component.Component) Snapshot {
	var s Snapshot
	if g, ok := root.(geometry); ok {
		s.Width, s.Height = g.Bounds().Size.Width, g.Bounds().Size.Height
	}
	s.capture(root, -1, 0)
	return s
}

func (s *Snapshot) capture(c component.Component, parent, depth int) {
	n := Node{Type: TypeName(c), Parent: parent, Depth: depth}
	if g, ok := c.(geometry); ok {
		n.Name = g.Name()
		n.Classes = g.Classes()
		n.Rect = g.Bounds()
		n.Absolute = component.Rect{Origin: g.OriginToRoot(), Size: n.Rect.Size}
		n.ClipID = g.ClipID()
	}
	index := len(s.Nodes)
	s.Nodes = append(s.Nodes, n)
	if ct, ok := c.(component.Container); ok {
		for _, child := range ct.Components() {
			s.capture(child, index, depth+1)
		}
	}
}

// TypeName returns the lowercase type name of c without package or
// pointer, e.g. "table" for *component.Table.
func TypeName(c component.Component) string {
	name := fmt.Sprintf("%T", c)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimPrefix(name, "*"))
}

// Find returns the first node with the given name.
func (s Snapshot) Find(name string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the indices of the direct children of node i.
func (s Snapshot) Children(i int) []int {
	var out []int
	for j, n := range s.Nodes {
		if n.Parent == i {
			out = append(out, j)
		}
	}
	return out
}

// WriteJSON encodes s as indented JSON.
func WriteJSON(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a snapshot written by WriteJSON.
func ReadJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	for i, n := range s.Nodes {
		if n.Parent < -1 || n.Parent >= i {
			return Snapshot{}, fmt.Errorf("node %d: parent %d out of range", i, n.Parent)
		}
	}
	return s, nil
}

// Export writes s to a JSON file at path.
func Export(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}

// Import reads a snapshot from a JSON file at path.
func Import(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
