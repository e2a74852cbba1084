// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/scheduler.go
// Summary: Frame Scheduler — idle redraw coalescing, auto-redraw and
// inhibit reference counts, custom renderer installation.

package renderer

// EventLoop is the display-server's idle-callback scheduler (spec's
// add_idle(callback, data) -> source / remove(source) contract).
type EventLoop interface {
	AddIdle(fn func()) (source any)
	Remove(source any)
}

// FrameSource is asked for a frame event once an idle callback fires
// (the output's schedule_frame()).
type FrameSource interface {
	ScheduleFrame()
}

// CustomRenderer replaces the workspace-stream scene path with a
// caller-supplied full-frame draw into target.
type CustomRenderer func(target *Framebuffer)

// Scheduler implements the render manager's single-threaded idle-redraw
// coalescing and the constant_redraw / output_inhibit reference counts.
// There are no internal locks: every render-manager operation runs on the
// one display-server event-loop thread (spec §5).
type Scheduler struct {
	loop EventLoop
	out  FrameSource

	idleRedrawSource any // nil while inactive, set while queued
	idleDamageSource any

	constantRedraw int
	outputInhibit  int

	customRenderer  CustomRenderer
	forceFullDamage func()
}

// NewScheduler wires a scheduler to its event loop and frame source.
func NewScheduler(loop EventLoop, out FrameSource) *Scheduler {
	return &Scheduler{loop: loop, out: out}
}

// SetForceFullDamageFunc installs the callback ResetRenderer uses to force
// a full repaint; wired by the render manager to its accumulator.
func (s *Scheduler) SetForceFullDamageFunc(fn func()) { s.forceFullDamage = fn }

// ScheduleRedraw queues at most one pending idle redraw; further calls
// while one is queued are no-ops.
func (s *Scheduler) ScheduleRedraw() {
	if s.idleRedrawSource != nil {
		return
	}
	s.idleRedrawSource = s.loop.AddIdle(func() {
		s.idleRedrawSource = nil
		s.out.ScheduleFrame()
	})
}

// ScheduleRepaint asks for a frame event whenever damage is added,
// likewise coalesced to at most one pending callback.
func (s *Scheduler) ScheduleRepaint() {
	if s.idleDamageSource != nil {
		return
	}
	s.idleDamageSource = s.loop.AddIdle(func() {
		s.idleDamageSource = nil
		s.out.ScheduleFrame()
	})
}

// AutoRedraw increments or decrements the constant_redraw reference count,
// clamped at zero. Crossing 0 -> 1 schedules an immediate redraw.
func (s *Scheduler) AutoRedraw(enable bool) {
	before := s.constantRedraw
	if enable {
		s.constantRedraw++
	} else if s.constantRedraw > 0 {
		s.constantRedraw--
	}
	if before == 0 && s.constantRedraw == 1 {
		s.ScheduleRedraw()
	}
}

// ConstantRedraw reports the current constant_redraw count.
func (s *Scheduler) ConstantRedraw() int { return s.constantRedraw }

// AddInhibit increments or decrements the output_inhibit reference count,
// clamped at zero. releasedToZero reports whether this call was the one
// that brought the count from positive back to zero — the render manager
// uses that to force full damage and emit "start-rendering".
func (s *Scheduler) AddInhibit(enable bool) (releasedToZero bool) {
	if enable {
		s.outputInhibit++
		return false
	}
	wasPositive := s.outputInhibit > 0
	if wasPositive {
		s.outputInhibit--
	}
	return wasPositive && s.outputInhibit == 0
}

// Inhibited reports whether output_inhibit is currently positive.
func (s *Scheduler) Inhibited() bool { return s.outputInhibit > 0 }

// SetRenderer installs a custom full-frame renderer, replacing the
// workspace-stream scene path. Overlay/post/cursor stages still run.
func (s *Scheduler) SetRenderer(fn CustomRenderer) { s.customRenderer = fn }

// Renderer returns the installed custom renderer, or nil.
func (s *Scheduler) Renderer() CustomRenderer { return s.customRenderer }

// ResetRenderer clears any custom renderer and idle-schedules a full
// repaint so the workspace-stream path picks the scene back up.
//
// TODO: the custom-renderer contract has no way to report its own damage
// region, so every frame it draws forces a full-output swap; extending it
// to return a Region is future work, not started here.
func (s *Scheduler) ResetRenderer() {
	s.customRenderer = nil
	if s.forceFullDamage != nil {
		s.forceFullDamage()
	}
	s.ScheduleRedraw()
}
