// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package renderer

import (
	"testing"
)

type fakeOutput struct {
	w, h      int
	scheduled int
}

func (o *fakeOutput) Size() (int, int)         { return o.w, o.h }
func (o *fakeOutput) Scale() float64           { return 1 }
func (o *fakeOutput) Transform() Transform     { return TransformNormal }
func (o *fakeOutput) ScheduleFrame()           { o.scheduled++ }

type fakeGPU struct {
	bound     bool
	cleared   []Rect
	renderEnds int
}

func (g *fakeGPU) BindOutput(Output) error       { g.bound = true; return nil }
func (g *fakeGPU) UnbindOutput(Output)           { g.bound = false }
func (g *fakeGPU) RenderBegin(*Framebuffer)      {}
func (g *fakeGPU) RenderEnd(*Framebuffer)        { g.renderEnds++ }
func (g *fakeGPU) Clear(target *Framebuffer, r Rect, c Cell) {
	g.cleared = append(g.cleared, r)
	target.Clear(r, c)
}

func newTestManager(t *testing.T, views []View) (*Manager, *fakeOutput, *fakeWorkspaceManager, *fakeEventLoop) {
	t.Helper()
	out := &fakeOutput{w: 40, h: 20}
	gpu := &fakeGPU{}
	ws := &fakeWorkspaceManager{views: views}
	loop := &fakeEventLoop{}
	m := NewManager(out, gpu, ws, loop, nil, Config{VWidth: 2, VHeight: 2})
	return m, out, ws, loop
}

func TestManagerEmptyDamageNoSwap(t *testing.T) {
	m, _, _, _ := newTestManager(t, nil)
	m.DamageRegion(nil)
	m.Paint() // first paint establishes current stream, consumes initial full damage
	gpu := m.gpu.(*fakeGPU)
	before := gpu.renderEnds
	// second paint with no new damage and no constant redraw should not re-render
	m.Paint()
	if gpu.renderEnds != before {
		t.Fatalf("expected no swap on a paint with empty damage: renderEnds went from %d to %d", before, gpu.renderEnds)
	}
}

func TestManagerPartialDamageRendersOneSurface(t *testing.T) {
	surf := &fakeSurface{geom: Rect{0, 0, 200, 200}, alpha: 1.0}
	m, _, _, _ := newTestManager(t, []View{&fakeView{surf: surf}})
	m.Damage(Rect{5, 5, 10, 10})
	m.Paint()

	if len(surf.rendered) == 0 {
		t.Fatalf("expected the covering surface to be rendered")
	}
}

func TestManagerAddPostForcesDamageOnNextPaint(t *testing.T) {
	m, _, _, _ := newTestManager(t, nil)
	m.DamageRegion(nil)
	m.Paint() // drain initial damage so the next Paint would otherwise no-op

	gpu := m.gpu.(*fakeGPU)
	before := gpu.renderEnds

	m.AddPost(func(src, dst *Framebuffer) {})
	m.Paint()

	if gpu.renderEnds <= before {
		t.Fatalf("expected add_post to force a swap on the next paint: renderEnds stayed at %d", gpu.renderEnds)
	}
}

func TestManagerSteadyStateAppliesEachFramesPartialDamage(t *testing.T) {
	surf := &fakeSurface{geom: Rect{0, 0, 40, 20}, alpha: 1.0}
	m, _, _, _ := newTestManager(t, []View{&fakeView{surf: surf}})

	m.DamageRegion(nil)
	m.Paint() // establishes the current stream via compositor.Start's forced full damage
	firstRenders := len(surf.rendered)
	if firstRenders == 0 {
		t.Fatalf("expected first paint to render the surface")
	}

	m.Damage(Rect{1, 1, 5, 5})
	m.Paint()
	if len(surf.rendered) <= firstRenders {
		t.Fatalf("expected steady-state partial damage to render again: got %d renders after first paint's %d", len(surf.rendered), firstRenders)
	}

	afterSecond := len(surf.rendered)
	m.Damage(Rect{20, 10, 5, 5})
	m.Paint()
	if len(surf.rendered) <= afterSecond {
		t.Fatalf("expected a second successive partial-damage paint on the same workspace to render again: got %d renders after second paint's %d", len(surf.rendered), afterSecond)
	}
}

func TestManagerPostChainInvariantAfterAddRemove(t *testing.T) {
	m, _, _, _ := newTestManager(t, nil)
	h1 := m.AddPost(func(src, dst *Framebuffer) {})
	if !m.chain.TerminalIsDisplay() {
		t.Fatalf("expected terminal invariant after add_post")
	}
	m.AddPost(func(src, dst *Framebuffer) {})
	if !m.chain.TerminalIsDisplay() {
		t.Fatalf("expected terminal invariant after second add_post")
	}
	m.RemPost(h1)
	m.Paint()
	if !m.chain.TerminalIsDisplay() {
		t.Fatalf("expected terminal invariant restored after frame-boundary cleanup")
	}
}

func TestManagerInhibitCycle(t *testing.T) {
	m, _, _, _ := newTestManager(t, nil)
	m.AddInhibit(true)
	m.Paint()
	if !m.scheduler.Inhibited() {
		t.Fatalf("expected manager to be inhibited")
	}

	started := false
	m.signals = signalFunc(func(name string, data any) {
		if name == "start-rendering" {
			started = true
		}
	})
	m.AddInhibit(false)
	if !started {
		t.Fatalf("expected start-rendering signal on inhibit release")
	}
}

func TestManagerConstantRedrawReschedules(t *testing.T) {
	m, _, _, loop := newTestManager(t, nil)
	m.AutoRedraw(true)
	// the rising-edge redraw fires before the frame it requested is painted
	loop.pump()
	m.Paint()
	if len(loop.queued) == 0 {
		// post_paint schedules a fresh redraw every frame while constant_redraw > 0
		t.Fatalf("expected post_paint to have scheduled another redraw")
	}
}

type signalFunc func(name string, data any)

func (f signalFunc) Emit(name string, data any) { f(name, data) }

func TestManagerWorkspaceSwitchRestartsStream(t *testing.T) {
	ws := &fakeWorkspaceManager{}
	out := &fakeOutput{w: 40, h: 20}
	gpu := &fakeGPU{}
	loop := &fakeEventLoop{}
	m := NewManager(out, gpu, ws, loop, nil, Config{VWidth: 2, VHeight: 2})

	m.DamageRegion(nil)
	m.Paint()
	first := m.current
	if first == nil {
		t.Fatalf("expected first paint to establish a current stream")
	}

	ws.cx, ws.cy = 1, 0
	m.DamageRegion(nil)
	m.Paint()
	if m.current == first {
		t.Fatalf("expected a workspace switch to install a new current stream")
	}
	if m.current.Running != true {
		t.Fatalf("expected new stream to be running")
	}
}
