package component_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/surface/record"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// spy is a configurable component that counts protocol calls.
type spy struct {
	component.Base
	req         component.SpaceRequest
	layouts     int
	renders     int
	renderErr   error
	onRender    func()
	afterLayout func()
}

func newSpy() *spy {
	p := &spy{}
	p.Init(p)
	return p
}

func (p *spy) RequestedSpace(offeredWidth, offeredHeight float64) component.SpaceRequest {
	return p.req
}

func (p *spy) ComputeLayout(origin component.Point, w, h float64) error {
	p.layouts++
	err := p.Base.ComputeLayout(origin, w, h)
	if p.afterLayout != nil {
		p.afterLayout()
	}
	return err
}

func (p *spy) RenderImmediately() error {
	p.renders++
	if p.onRender != nil {
		p.onRender()
	}
	return p.renderErr
}

// wrapText behaves like word-wrapped text: narrower offers make it taller.
type wrapText struct {
	component.Base
	natural    float64
	lineHeight float64
}

func newWrapText(natural, lineHeight float64) *wrapText {
	w := &wrapText{natural: natural, lineHeight: lineHeight}
	w.Init(w)
	return w
}

func (w *wrapText) RequestedSpace(offeredWidth, offeredHeight float64) component.SpaceRequest {
	width := min(offeredWidth, w.natural)
	if width <= 0 {
		return component.SpaceRequest{Width: w.natural, Height: w.lineHeight, WantsMoreWidth: true}
	}
	lines := 1
	for float64(lines)*width < w.natural {
		lines++
	}
	return component.SpaceRequest{
		Width:           width,
		Height:          float64(lines) * w.lineHeight,
		WantsMoreHeight: float64(lines)*w.lineHeight > offeredHeight,
	}
}

// hookRecorder records layout hook calls.
type hookRecorder struct {
	flushes      int
	solves       int
	capped       int
	renderErrors []string
}

func (h *hookRecorder) OnFlushStart(layoutCount, renderCount int) {}

func (h *hookRecorder) OnFlushComplete(laidOut, rendered int, d time.Duration) { h.flushes++ }

func (h *hookRecorder) OnSolve(rows, cols, iterations int, capped bool) {
	h.solves++
	if capped {
		h.capped++
	}
}

func (h *hookRecorder) OnRenderError(name string, err error) {
	h.renderErrors = append(h.renderErrors, name)
}

// render anchors root onto a fresh document with an immediate Env.
func render(t *testing.T, root interface {
	component.Component
	RenderTo(*component.Env, component.RootSurface) error
}, width, height float64, opts ...component.Option) (*component.Env, *record.Document) {
	t.Helper()
	env := component.NewEnv(opts...)
	doc := record.New(width, height)
	if err := root.RenderTo(env, doc); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	return env, doc
}

func rect(x, y, w, h float64) component.Rect {
	return component.Rect{Origin: component.Point{X: x, Y: y}, Size: component.Size{Width: w, Height: h}}
}

func diffRect(want, got component.Rect) string {
	return cmp.Diff(want, got, approx)
}
