// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/tcelloutput.go
// Summary: A concrete Output + GPUContext pair backed by tcell.Screen, so
// the render core is exercisable end-to-end without a real GPU/Wayland
// backend. Grounded on texel/driver_tcell.go's screen wrapper and
// texel/screen.go's blit/blitDiff cell-pushing.

package renderer

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// TcellOutput adapts a tcell.Screen to the Output handle contract: its
// size is the full terminal, scale is always 1, and frame scheduling is
// driven by the owning event loop rather than a real vsync signal.
type TcellOutput struct {
	screen    tcell.Screen
	transform Transform
	loop      EventLoop
	onFrame   func()
}

// NewTcellOutput initializes screen and wraps it as an Output. onFrame is
// invoked from ScheduleFrame via loop's idle source, matching the way a
// real compositor defers paint() to the next idle tick rather than
// calling it synchronously from the requester.
func NewTcellOutput(screen tcell.Screen, loop EventLoop, onFrame func()) (*TcellOutput, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	defStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	screen.SetStyle(defStyle)
	screen.HideCursor()

	return &TcellOutput{screen: screen, loop: loop, onFrame: onFrame}, nil
}

func (o *TcellOutput) Size() (int, int) { return o.screen.Size() }

func (o *TcellOutput) Scale() float64 { return 1 }

func (o *TcellOutput) Transform() Transform { return o.transform }

// SetTransform installs a logical rotation/flip for GetTargetFramebuffer
// consumers; the tcell backend itself never rotates its own blit.
func (o *TcellOutput) SetTransform(t Transform) { o.transform = t }

// ScheduleFrame requests a frame on the event loop's idle source, the way
// a real output's frame-done event arms the next paint from its driver
// callback rather than being invoked inline.
func (o *TcellOutput) ScheduleFrame() {
	if o.loop == nil || o.onFrame == nil {
		return
	}
	o.loop.AddIdle(o.onFrame)
}

// Sync forces tcell to redraw every cell, matching the SIGWINCH handling
// in texel/screen.go's Run loop.
func (o *TcellOutput) Sync() { o.screen.Sync() }

// Fini tears down the underlying tcell screen.
func (o *TcellOutput) Fini() { o.screen.Fini() }

// Underlying exposes the wrapped tcell.Screen for callers that need to
// poll its event stream directly (e.g. the demo's input loop).
func (o *TcellOutput) Underlying() tcell.Screen { return o.screen }

// TcellGPUContext is the render manager's GPUContext, implemented as a
// direct blit-to-terminal pass: render_begin/render_end bracket nothing
// but the allocation of the target buffer, since there is no real GPU
// context to bind.
type TcellGPUContext struct {
	out     *TcellOutput
	lastBuf map[*Framebuffer][][]Cell
}

// NewTcellGPUContext wires a GPUContext against the given output.
func NewTcellGPUContext(out *TcellOutput) *TcellGPUContext {
	return &TcellGPUContext{out: out, lastBuf: make(map[*Framebuffer][][]Cell)}
}

func (g *TcellGPUContext) BindOutput(o Output) error { return nil }

func (g *TcellGPUContext) UnbindOutput(o Output) {}

func (g *TcellGPUContext) RenderBegin(target *Framebuffer) {}

// RenderEnd presents display, the frame's final composited image, to the
// terminal. There is no separate page-flip to wait on for this backend,
// so render_end and swap_buffers collapse into one direct blit.
func (g *TcellGPUContext) RenderEnd(display *Framebuffer) {
	if display != nil {
		g.present(display)
	}
}

func (g *TcellGPUContext) Clear(target *Framebuffer, r Rect, c Cell) {
	target.Clear(r, c)
}

// present blits target's cell grid onto the tcell screen and calls Show,
// diffing against the previous frame's grid the way texel/screen.go's
// blitDiff only repaints changed cells.
func (g *TcellGPUContext) present(target *Framebuffer) {
	prev := g.lastBuf[target]
	for y, row := range target.Cells {
		for x, cell := range row {
			if prev == nil || y >= len(prev) || x >= len(prev[y]) || cell != prev[y][x] {
				g.out.screen.SetContent(x, y, cell.Ch, nil, cell.Style)
			}
		}
	}
	g.out.screen.Show()

	frozen := make([][]Cell, len(target.Cells))
	for y, row := range target.Cells {
		frozen[y] = append([]Cell(nil), row...)
	}
	g.lastBuf[target] = frozen
}

// IdleFrameLoop is a minimal EventLoop built on a time.Ticker, mirroring
// texel/screen.go's Run loop: one goroutine owns all mutable state and
// selects between the ticker and a request channel, the same way that
// loop's eventChan/refreshChan let other goroutines hand in work without
// touching loop state directly. AddIdle is the only method safe to call
// from outside the Run goroutine.
type IdleFrameLoop struct {
	tick    *time.Ticker
	reqs    chan func()
	pending []func()
	quit    chan struct{}
}

// NewIdleFrameLoop constructs a ticker-driven event loop at the given
// period. Call Run to start it; Run blocks, so the caller typically runs
// it in its own goroutine or as the program's main loop.
func NewIdleFrameLoop(period time.Duration) *IdleFrameLoop {
	return &IdleFrameLoop{
		tick: time.NewTicker(period),
		reqs: make(chan func(), 16),
		quit: make(chan struct{}),
	}
}

// Run drives the select loop until Stop is called, draining queued idle
// callbacks on every tick the way texel/screen.go's Run loop gates
// draw() behind its ticker.
func (l *IdleFrameLoop) Run() {
	for {
		select {
		case <-l.quit:
			return
		case fn := <-l.reqs:
			l.pending = append(l.pending, fn)
		case <-l.tick.C:
			pending := l.pending
			l.pending = nil
			for _, fn := range pending {
				fn()
			}
		}
	}
}

// AddIdle queues fn to run on the next tick. Safe to call from any
// goroutine; the request is handed to the Run goroutine over a channel
// rather than appended to shared state directly. The returned source is
// never nil.
func (l *IdleFrameLoop) AddIdle(fn func()) any {
	select {
	case l.reqs <- fn:
	case <-l.quit:
	}
	return &fn
}

func (l *IdleFrameLoop) Remove(any) {}

// Stop ends a running Run loop and stops the ticker.
func (l *IdleFrameLoop) Stop() {
	close(l.quit)
	l.tick.Stop()
}
