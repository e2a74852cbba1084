// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/renderd-demo/scene.go
// Summary: A tiny static scene graph (one solid-color pane on each of
// two workspaces) exercising the render manager's WorkspaceManager/View/
// Surface collaborator contracts end to end.

package main

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/renderd/internal/renderer"
)

// demoPane is a static, single-color rectangle.
type demoPane struct {
	geom  renderer.Rect
	style tcell.Style
	ch    rune
}

func (p *demoPane) IsMapped() bool               { return true }
func (p *demoPane) OutputGeometry() renderer.Rect { return p.geom }
func (p *demoPane) Alpha() float64                { return 1.0 }

func (p *demoPane) SubtractOpaque(reg *renderer.Region, x, y int) {
	reg.Subtract(p.geom.Translate(x, y))
}

func (p *demoPane) RenderFB(damage *renderer.Region, target *renderer.Framebuffer) {
	for _, r := range damage.Rectangles() {
		target.Clear(r, renderer.Cell{Ch: p.ch, Style: p.style})
	}
}

func (p *demoPane) SendFrameDone(time.Time) {}

type demoView struct {
	pane *demoPane
}

func (v *demoView) IsMapped() bool              { return true }
func (v *demoView) IsVisible() bool              { return true }
func (v *demoView) HasTransformer() bool         { return false }
func (v *demoView) IsShell() bool                { return false }
func (v *demoView) BoundingBox() renderer.Rect    { return v.pane.geom }
func (v *demoView) ForEachSurface(fn func(renderer.Surface)) { fn(v.pane) }

// demoWorkspace hosts two workspaces, each with one pane, and toggles
// between them on Tab (see pollInput in main.go).
type demoWorkspace struct {
	mu      sync.Mutex
	current int
	views   [2][]renderer.View
}

func newDemoWorkspace() *demoWorkspace {
	return &demoWorkspace{
		views: [2][]renderer.View{
			{&demoView{pane: &demoPane{geom: renderer.Rect{X: 0, Y: 0, W: 40, H: 20}, style: tcell.StyleDefault.Background(tcell.ColorBlue), ch: ' '}}},
			{&demoView{pane: &demoPane{geom: renderer.Rect{X: 0, Y: 0, W: 40, H: 20}, style: tcell.StyleDefault.Background(tcell.ColorGreen), ch: ' '}}},
		},
	}
}

func (w *demoWorkspace) switchWorkspace() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = (w.current + 1) % len(w.views)
}

func (w *demoWorkspace) CurrentWorkspace() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, 0
}

func (w *demoWorkspace) ViewsOnWorkspace(vx, vy int, layers renderer.LayerMask, reverse bool) []renderer.View {
	w.mu.Lock()
	defer w.mu.Unlock()
	if vx < 0 || vx >= len(w.views) || vy != 0 {
		return nil
	}
	views := append([]renderer.View(nil), w.views[vx]...)
	if reverse {
		for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
			views[i], views[j] = views[j], views[i]
		}
	}
	return views
}

func (w *demoWorkspace) ForEachView(fn func(renderer.View), layers renderer.LayerMask) {
	w.mu.Lock()
	all := append(append([]renderer.View(nil), w.views[0]...), w.views[1]...)
	w.mu.Unlock()
	for _, v := range all {
		fn(v)
	}
}
