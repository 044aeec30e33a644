package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/plotgrid/pkg/chart"
	"github.com/matzehuels/plotgrid/pkg/core/component"
)

const previewChart = `
title = "Preview"
width = 10
height = 10

[root]
type = "table"

[[root.cells]]
row = 0
col = 0
[root.cells.node]
type = "label"
text = "hi"
`

func newTestPreview(t *testing.T) (previewModel, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preview.toml")
	if err := os.WriteFile(path, []byte(previewChart), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := newPreviewModel(path, func() (component.Component, *chart.Spec, error) {
		return loadPreview(context.Background(), path)
	}, false, false)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.close)
	return m, path
}

func update(t *testing.T, m previewModel, msg tea.Msg) (previewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(previewModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm, cmd
}

func TestPreviewFirstSize(t *testing.T) {
	m, _ := newTestPreview(t)
	if !strings.Contains(m.View(), "Measuring") {
		t.Errorf("view before sizing = %q", m.View())
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 6})
	if !m.ready || m.stats.flushes != 1 {
		t.Fatalf("ready=%v flushes=%d after first size", m.ready, m.stats.flushes)
	}
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 6 {
		t.Fatalf("view has %d lines, want 5 chart rows and a footer", len(lines))
	}
	if !strings.HasPrefix(lines[0], "hi") {
		t.Errorf("first row = %q", lines[0])
	}
	if !strings.Contains(lines[5], "Preview") || !strings.Contains(lines[5], "20x5") {
		t.Errorf("footer = %q", lines[5])
	}
}

func TestPreviewResizeIsDeferred(t *testing.T) {
	m, _ := newTestPreview(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 6})

	for _, w := range []int{30, 40, 50} {
		m, _ = update(t, m, tea.WindowSizeMsg{Width: w, Height: 11})
	}
	if !m.policy.Pending() || m.stats.flushes != 1 {
		t.Fatalf("pending=%v flushes=%d before the frame tick", m.policy.Pending(), m.stats.flushes)
	}

	m, cmd := update(t, m, frameMsg{})
	if cmd == nil {
		t.Error("frame tick should schedule the next tick")
	}
	if m.policy.Pending() || m.stats.flushes != 2 {
		t.Errorf("pending=%v flushes=%d after the frame tick", m.policy.Pending(), m.stats.flushes)
	}
	if got := m.root.(interface{ Width() float64 }).Width(); got != 50 {
		t.Errorf("root width = %v, want 50", got)
	}
}

func TestPreviewKeys(t *testing.T) {
	m, _ := newTestPreview(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 6})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	if !m.doc.Outlines() {
		t.Error("o should toggle outlines on")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !m.policy.Pending() {
		t.Error("r should queue a layout")
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPreviewReload(t *testing.T) {
	m, path := newTestPreview(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 6})

	if err := os.WriteFile(path, []byte(strings.Replace(previewChart, `"hi"`, `"bye"`, 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	msg := m.reload()
	m, _ = update(t, m, msg)
	if lines := strings.Split(m.View(), "\n"); !strings.HasPrefix(lines[0], "bye") {
		t.Errorf("first row after reload = %q", lines[0])
	}

	if err := os.WriteFile(path, []byte("title = "), 0o644); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, m.reload())
	if m.stats.lastError == "" {
		t.Error("a broken chart should be reported in the footer")
	}
	if lines := strings.Split(m.View(), "\n"); !strings.HasPrefix(lines[0], "bye") {
		t.Errorf("previous chart should stay on screen, got %q", lines[0])
	}
}
