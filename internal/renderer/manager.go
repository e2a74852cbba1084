// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/manager.go
// Summary: Render Manager (top) — orchestrates A-F into one frame on
// Paint(), mirroring Wayfire's render-manager paint()/post_paint() split.

package renderer

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

var (
	yellowCell = Cell{Style: tcell.StyleDefault.Background(tcell.ColorYellow)}
	blackCell  = Cell{Style: tcell.StyleDefault.Background(tcell.ColorBlack)}
)

// Manager is the per-output render manager: the top-level orchestrator of
// the damage accumulator, framebuffer resources, workspace streams, the
// post-effect chain, effect hooks, and the frame scheduler.
type Manager struct {
	output Output
	gpu    GPUContext
	ws     WorkspaceManager

	accum      *Accumulator
	defaultBuf Framebuffer
	streams    *StreamGrid
	compositor *Compositor
	current    *Stream
	chain      *PostEffectChain
	hooks      *HookRegistry
	scheduler  *Scheduler
	cursors    CursorRenderer
	signals    SignalEmitter

	damageDebug   bool
	noDamageTrack bool

	usedCustomRendererLastFrame bool
}

// Config bundles the runtime flags and grid dimensions a Manager needs at
// construction (spec's RenderFlags: no_damage_track, damage_debug, plus
// the vwidth x vheight stream grid size).
type Config struct {
	VWidth, VHeight int
	NoDamageTrack   bool
	DamageDebug     bool
}

// NewManager wires a Render Manager from its external collaborators. The
// stream grid, accumulator, scheduler, and post-effect chain are all
// created here and owned for the manager's lifetime, matching spec §9's
// "streams live for the manager's lifetime; no per-paint allocation".
func NewManager(output Output, gpu GPUContext, ws WorkspaceManager, loop EventLoop, signals SignalEmitter, cfg Config) *Manager {
	m := &Manager{
		output:  output,
		gpu:     gpu,
		ws:      ws,
		signals: signals,
		hooks:   NewHookRegistry(),
		chain:   NewPostEffectChain(),
	}

	m.scheduler = NewScheduler(loop, output)
	m.scheduler.SetForceFullDamageFunc(func() { m.accum.DamageRegion(nil) })

	m.noDamageTrack = cfg.NoDamageTrack
	m.accum = NewAccumulator(&outputDamageManager{}, m.scheduler)
	m.accum.SetNoDamageTrack(m.noDamageTrack)
	m.damageDebug = cfg.DamageDebug

	m.streams = NewStreamGrid(cfg.VWidth, cfg.VHeight)

	w, h := output.Size()
	m.accum.Resize(w, h)
	m.chain.Resize(w, h)

	geometry := Rect{0, 0, w, h}
	m.compositor = NewCompositor(m.streams, m.accum, ws, geometry, signals)

	return m
}

// outputDamageManager is the default DamageManager when the caller doesn't
// bring its own: damage is tracked purely by the accumulator's own frame
// region, and MakeCurrent always succeeds with an empty display-side
// contribution. Concrete Output implementations (e.g. TcellOutput's
// underlying display) can replace this via SetDamageManager.
type outputDamageManager struct{}

func (outputDamageManager) AddBox(Rect)                    {}
func (outputDamageManager) AddRegion(*Region)               {}
func (outputDamageManager) MakeCurrent() (*Region, bool)    { return NewRegion(), true }
func (outputDamageManager) SwapBuffers(time.Time, *Region)  {}

// SetDamageManager replaces the display-side damage manager bridge.
func (m *Manager) SetDamageManager(dm DamageManager) {
	geometry := m.compositorGeometry()
	m.accum = NewAccumulator(dm, m.scheduler)
	m.accum.SetNoDamageTrack(m.noDamageTrack)
	w, h := m.output.Size()
	m.accum.Resize(w, h)
	m.compositor = NewCompositor(m.streams, m.accum, m.ws, geometry, m.signals)
}

func (m *Manager) compositorGeometry() Rect {
	w, h := m.output.Size()
	return Rect{0, 0, w, h}
}

// SetCursorRenderer installs the software cursor pass.
func (m *Manager) SetCursorRenderer(c CursorRenderer) { m.cursors = c }

// Damage unions box into frame damage (spec's damage(box)).
func (m *Manager) Damage(box Rect) { m.accum.DamageRect(box) }

// DamageRegion unions region into frame damage, or the whole output if nil
// (spec's damage(region_or_null)).
func (m *Manager) DamageRegion(region *Region) { m.accum.DamageRegion(region) }

// AddEffect registers an effect hook at phase.
func (m *Manager) AddEffect(phase Phase, fn func()) EffectHookID {
	return m.hooks.AddEffect(phase, fn)
}

// RemEffect removes a previously registered effect hook.
func (m *Manager) RemEffect(phase Phase, id EffectHookID) { m.hooks.RemEffect(phase, id) }

// AddPost appends a post-effect pass to the chain and forces full damage,
// matching the original's damage(NULL) in add_post: without it, a newly
// installed pass would sit unapplied until unrelated damage arrived.
func (m *Manager) AddPost(hook PostHook) PostEffectID {
	id := m.chain.AddPost(hook)
	m.accum.DamageRegion(nil)
	return id
}

// RemPost marks a post-effect pass for deferred removal.
func (m *Manager) RemPost(id PostEffectID) { m.chain.RemPost(id) }

// SetRenderer installs a custom full-frame renderer.
func (m *Manager) SetRenderer(fn CustomRenderer) { m.scheduler.SetRenderer(fn) }

// ResetRenderer clears any custom renderer and forces a full repaint.
func (m *Manager) ResetRenderer() { m.scheduler.ResetRenderer() }

// AutoRedraw toggles the constant-redraw reference count.
func (m *Manager) AutoRedraw(on bool) { m.scheduler.AutoRedraw(on) }

// AddInhibit toggles the output-inhibit reference count. Releasing the
// count back to zero forces full damage and emits "start-rendering".
func (m *Manager) AddInhibit(on bool) {
	if released := m.scheduler.AddInhibit(on); released {
		w, h := m.output.Size()
		m.accum.DamageRect(Rect{0, 0, w, h})
		if m.signals != nil {
			m.signals.Emit("start-rendering", nil)
		}
	}
}

// GetTargetFramebuffer returns the current default framebuffer's target
// descriptor (spec's get_target_framebuffer()).
func (m *Manager) GetTargetFramebuffer() TargetDescriptor {
	w, h := m.output.Size()
	transform := m.output.Transform()
	return TargetDescriptor{
		Geometry:  Rect{0, 0, w, h},
		Transform: transform,
		Matrix:    transform.Matrix(),
		Viewport:  struct{ W, H int }{w, h},
		Fb:        m.defaultBuf.Fb,
		Tex:       m.defaultBuf.Tex,
	}
}

// Paint runs one full frame in response to the output's frame event,
// following spec §4.G's exact phase order: pre -> scene -> overlay ->
// software cursors -> post-chain -> swap -> post.
func (m *Manager) Paint() {
	tStart := time.Now()

	m.chain.CleanupPostHooks()
	m.hooks.Run(PhasePre)

	// make_current is handed a fresh out-damage region of its own; the
	// accumulator's internal frame damage persists from prior damage()
	// calls, is left untouched by make_current, and is only emptied by
	// ClearFrameDamage after the swap below.
	outDamage, ok, needsSwap := m.accum.MakeCurrent()
	if !ok {
		return
	}

	if !needsSwap && m.scheduler.ConstantRedraw() == 0 {
		m.hooks.Run(PhasePost)
		return
	}

	w, h := m.output.Size()
	if err := m.gpu.BindOutput(m.output); err != nil {
		logger().Error("bind output failed", "error", err)
		return
	}
	defer m.gpu.UnbindOutput(m.output)

	m.defaultBuf.Allocate(w, h)
	m.gpu.RenderBegin(&m.defaultBuf)

	swapDamage := NewRegion()
	if m.damageDebug {
		swapDamage.Union(Rect{0, 0, w, h})
		m.gpu.Clear(&m.defaultBuf, Rect{0, 0, w, h}, yellowCell)
	}

	// target is this frame's scene render target: default_buf, always —
	// a custom renderer draws into it directly, while the workspace
	// stream path renders into its own cached buffer first and then
	// composites (blits) the damaged region into default_buf.
	target := &m.defaultBuf
	m.usedCustomRendererLastFrame = false

	if custom := m.scheduler.Renderer(); custom != nil {
		custom(target)
		swapDamage.Union(Rect{0, 0, w, h})
		m.usedCustomRendererLastFrame = true
	} else {
		clipped := outDamage.Intersect(Rect{0, 0, w, h})
		if !clipped.Empty() {
			swapDamage.UnionRegion(clipped)
		}

		cx, cy := m.ws.CurrentWorkspace()
		next := m.streams.At(cx, cy)
		if next != nil {
			if next != m.current {
				if m.current != nil {
					m.compositor.Stop(m.current)
				}
				m.compositor.Start(next)
				m.current = next
				// a freshly started stream forced full-workspace damage,
				// so compositing must cover the whole output, not just
				// the damage this Paint call observed before Start ran.
				full := NewRegion()
				full.Union(Rect{0, 0, w, h})
				target.Blit(&next.Buffer, full)
			} else {
				m.compositor.Update(next, 1, 1)
				target.Blit(&next.Buffer, clipped)
			}
		}
	}

	m.hooks.Run(PhaseOverlay)

	if m.chain.Len() > 0 {
		swapDamage.Union(Rect{0, 0, w, h})
	}

	if m.cursors != nil {
		m.cursors.RenderCursors(target, swapDamage)
	}

	finalTarget := target
	if m.chain.Len() > 0 {
		display := &Framebuffer{}
		display.Allocate(w, h)
		m.chain.Run(target, display)
		finalTarget = display
	}

	if m.scheduler.Inhibited() {
		m.gpu.Clear(finalTarget, Rect{0, 0, w, h}, blackCell)
	}

	m.gpu.RenderEnd(finalTarget)
	m.accum.SwapBuffers(tStart, swapDamage)
	m.accum.ClearFrameDamage()

	m.postPaint()
}

// postPaint runs the post phase, re-schedules under constant_redraw, and
// notifies contributing surfaces that their frame was presented.
func (m *Manager) postPaint() {
	m.chain.CleanupPostHooks()
	m.hooks.Run(PhasePost)

	if m.scheduler.ConstantRedraw() > 0 {
		m.scheduler.ScheduleRedraw()
	}

	m.notifyFrameDone(time.Now())
}

func (m *Manager) notifyFrameDone(now time.Time) {
	if m.ws == nil {
		return
	}
	if m.usedCustomRendererLastFrame {
		m.ws.ForEachView(func(v View) {
			if v.IsMapped() {
				notifyViewFrameDone(v, now)
			}
		}, LayerAllLayers)
		return
	}

	cx, cy := m.ws.CurrentWorkspace()
	for _, v := range m.ws.ViewsOnWorkspace(cx, cy, LayerMiddle, false) {
		if v.IsMapped() {
			notifyViewFrameDone(v, now)
		}
	}
	m.ws.ForEachView(func(v View) {
		if v.IsMapped() {
			notifyViewFrameDone(v, now)
		}
	}, LayerBackground|LayerBottom|LayerTop|LayerOverlay)
}

func notifyViewFrameDone(v View, now time.Time) {
	v.ForEachSurface(func(s Surface) {
		s.SendFrameDone(now)
	})
}
