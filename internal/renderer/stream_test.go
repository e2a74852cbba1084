// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package renderer

import (
	"testing"
	"time"
)

type fakeSurface struct {
	geom     Rect
	alpha    float64
	rendered []Rect
}

func (s *fakeSurface) IsMapped() bool           { return true }
func (s *fakeSurface) OutputGeometry() Rect      { return s.geom }
func (s *fakeSurface) Alpha() float64            { return s.alpha }
func (s *fakeSurface) SubtractOpaque(reg *Region, x, y int) {
	reg.Subtract(s.geom.Translate(x, y))
}
func (s *fakeSurface) RenderFB(damage *Region, target *Framebuffer) {
	s.rendered = append(s.rendered, damage.Rectangles()...)
}
func (s *fakeSurface) SendFrameDone(t time.Time) {}

type fakeView struct {
	surf *fakeSurface
}

func (v *fakeView) IsMapped() bool        { return true }
func (v *fakeView) IsVisible() bool       { return true }
func (v *fakeView) HasTransformer() bool  { return false }
func (v *fakeView) IsShell() bool         { return false }
func (v *fakeView) BoundingBox() Rect     { return v.surf.geom }
func (v *fakeView) ForEachSurface(fn func(Surface)) { fn(v.surf) }

type fakeWorkspaceManager struct {
	cx, cy int
	views  []View
}

func (m *fakeWorkspaceManager) CurrentWorkspace() (int, int) { return m.cx, m.cy }
func (m *fakeWorkspaceManager) ViewsOnWorkspace(vx, vy int, layers LayerMask, reverse bool) []View {
	if reverse {
		out := make([]View, len(m.views))
		for i, v := range m.views {
			out[len(m.views)-1-i] = v
		}
		return out
	}
	return append([]View(nil), m.views...)
}
func (m *fakeWorkspaceManager) ForEachView(fn func(View), layers LayerMask) {
	for _, v := range m.views {
		fn(v)
	}
}

func newTestCompositor(views []View) (*Compositor, *Accumulator, *Stream) {
	dm := &fakeDamageManager{}
	accum := NewAccumulator(dm, nil)
	accum.Resize(200, 200)
	ws := &fakeWorkspaceManager{views: views}
	grid := NewStreamGrid(1, 1)
	comp := NewCompositor(grid, accum, ws, Rect{0, 0, 200, 200}, nil)
	return comp, accum, grid.At(0, 0)
}

type fakeDamageManager struct{}

func (fakeDamageManager) AddBox(Rect)                      {}
func (fakeDamageManager) AddRegion(*Region)                {}
func (fakeDamageManager) MakeCurrent() (*Region, bool)     { return NewRegion(), true }
func (fakeDamageManager) SwapBuffers(time.Time, *Region)   {}

func TestCompositorOcclusionCorrectness(t *testing.T) {
	a := &fakeSurface{geom: Rect{0, 0, 200, 200}, alpha: 1.0}
	b := &fakeSurface{geom: Rect{50, 50, 50, 50}, alpha: 1.0}
	c := &fakeSurface{geom: Rect{60, 60, 10, 10}, alpha: 1.0}

	comp, accum, stream := newTestCompositor([]View{&fakeView{surf: a}, &fakeView{surf: b}, &fakeView{surf: c}})
	accum.DamageRegion(nil)
	comp.Start(stream)

	if len(a.rendered) == 0 {
		t.Fatalf("expected front surface A to be drawn")
	}
	if len(b.rendered) != 0 {
		t.Fatalf("expected fully-occluded surface B to be discarded, got %v", b.rendered)
	}
	if len(c.rendered) != 0 {
		t.Fatalf("expected fully-occluded surface C to be discarded, got %v", c.rendered)
	}
}

type orderedSurface struct {
	fakeSurface
	name  string
	order *[]string
}

func (s *orderedSurface) RenderFB(damage *Region, target *Framebuffer) {
	*s.order = append(*s.order, s.name)
	s.fakeSurface.RenderFB(damage, target)
}

// TestCompositorReverseDrawOrder checks the front-to-back list [A,B,C]
// (non-overlapping, so none get occluded) draws back-to-front: C,B,A.
func TestCompositorReverseDrawOrder(t *testing.T) {
	var order []string
	a := &orderedSurface{fakeSurface: fakeSurface{geom: Rect{0, 0, 10, 10}, alpha: 0}, name: "A", order: &order}
	b := &orderedSurface{fakeSurface: fakeSurface{geom: Rect{100, 0, 10, 10}, alpha: 0}, name: "B", order: &order}
	c := &orderedSurface{fakeSurface: fakeSurface{geom: Rect{0, 100, 10, 10}, alpha: 0}, name: "C", order: &order}

	comp, accum, stream := newTestCompositor([]View{&fakeViewSurface{s: a}, &fakeViewSurface{s: b}, &fakeViewSurface{s: c}})
	accum.DamageRegion(nil)
	comp.Start(stream)

	want := []string{"C", "B", "A"}
	if len(order) != len(want) {
		t.Fatalf("expected draw order %v, got %v", want, order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected draw order %v, got %v", want, order)
		}
	}
}

type fakeViewSurface struct {
	s *orderedSurface
}

func (v *fakeViewSurface) IsMapped() bool          { return true }
func (v *fakeViewSurface) IsVisible() bool         { return true }
func (v *fakeViewSurface) HasTransformer() bool    { return false }
func (v *fakeViewSurface) IsShell() bool           { return false }
func (v *fakeViewSurface) BoundingBox() Rect       { return v.s.geom }
func (v *fakeViewSurface) ForEachSurface(fn func(Surface)) { fn(v.s) }

func TestCompositorUpdateNoOpWhenDamageEmpty(t *testing.T) {
	a := &fakeSurface{geom: Rect{0, 0, 10, 10}, alpha: 1}
	comp, _, stream := newTestCompositor([]View{&fakeView{surf: a}})
	comp.Update(stream, 1, 1)
	if len(a.rendered) != 0 {
		t.Fatalf("expected no render when workspace damage is empty")
	}
}
