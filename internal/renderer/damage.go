// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/damage.go
// Summary: Damage Accumulator — bridges frame damage to the display's own
// damage manager.

package renderer

import "time"

// DamageManager is the display-server's own damage tracker (spec's
// make_current / add_box / add(region) / swap_buffers / events.frame
// contract).
type DamageManager interface {
	AddBox(r Rect)
	AddRegion(reg *Region)
	// MakeCurrent returns the damage the display has tracked since the
	// last swap. ok is false if the output cannot currently be rendered.
	MakeCurrent() (damage *Region, ok bool)
	SwapBuffers(timestamp time.Time, swapDamage *Region)
}

// RepaintScheduler is the slice of the Frame Scheduler the accumulator
// needs: requesting a frame event whenever damage is added.
type RepaintScheduler interface {
	ScheduleRepaint()
}

// Accumulator is the render manager's own persistent per-frame damage
// region plus the bridge to the display's own damage manager. frame is
// read throughout a Paint call — including after MakeCurrent, by
// WorkspaceDamage/Compositor.Update on the steady-state path where the
// current workspace stream is just being refreshed — so it must survive
// MakeCurrent untouched. Only ClearFrameDamage, called once the frame has
// actually swapped, may empty it. Wayfire keeps this distinction as two
// separate fields on two separate objects: wf_output_damage::frame_damage
// (display-side, subtracted in make_current) and
// render_manager::frame_damage (the manager's own, read by get_ws_damage).
// Here the display-side half lives behind the DamageManager interface, so
// there is nothing of this accumulator's own frame to subtract from in
// MakeCurrent; doing so previously erased workspace damage before
// Compositor.Update got a chance to read it in the same frame.
type Accumulator struct {
	frame *Region

	dm        DamageManager
	scheduler RepaintScheduler

	width, height int
	noDamageTrack bool
}

// NewAccumulator wires an accumulator to its damage manager and scheduler.
func NewAccumulator(dm DamageManager, scheduler RepaintScheduler) *Accumulator {
	return &Accumulator{frame: NewRegion(), dm: dm, scheduler: scheduler}
}

// Resize updates the output pixel dimensions used to clip/derive damage.
func (a *Accumulator) Resize(w, h int) { a.width, a.height = w, h }

// SetNoDamageTrack toggles the debug flag that forces full-output damage
// on every MakeCurrent.
func (a *Accumulator) SetNoDamageTrack(on bool) { a.noDamageTrack = on }

// DamageRect unions box into frame damage and the display's own damage
// manager, then asks the scheduler for a repaint.
func (a *Accumulator) DamageRect(box Rect) {
	a.frame.Union(box)
	if a.dm != nil {
		a.dm.AddBox(box)
	}
	if a.scheduler != nil {
		a.scheduler.ScheduleRepaint()
	}
}

// DamageRegion unions region into frame damage. A nil region means the
// whole output.
func (a *Accumulator) DamageRegion(region *Region) {
	if region == nil {
		a.DamageRect(Rect{0, 0, a.width, a.height})
		return
	}
	a.frame.UnionRegion(region)
	if a.dm != nil {
		a.dm.AddRegion(region)
	}
	if a.scheduler != nil {
		a.scheduler.ScheduleRepaint()
	}
}

// MakeCurrent asks the display for the damage it has tracked since the
// last swap. On success, outDamage holds the union of the display's
// tracked damage and this accumulator's own frame damage clipped to the
// output rect — a transient, per-call copy; a.frame itself is left
// untouched, since WorkspaceDamage/Compositor.Update still need to read it
// later in this same Paint. needsSwap reports whether outDamage ended up
// non-empty. If no_damage_track is set, the whole output rect is unioned
// in regardless, forcing a full repaint.
func (a *Accumulator) MakeCurrent() (outDamage *Region, ok bool, needsSwap bool) {
	if a.dm == nil {
		return NewRegion(), false, false
	}
	displayDamage, ok := a.dm.MakeCurrent()
	if !ok {
		return NewRegion(), false, false
	}

	outRect := Rect{0, 0, a.width, a.height}
	out := NewRegion()
	out.UnionRegion(displayDamage)
	out.UnionRegion(a.frame.Intersect(outRect))
	if a.noDamageTrack {
		out.Union(outRect)
	}

	return out, true, !out.Empty()
}

// SwapBuffers hands the swap off to the display's damage manager. Frame
// damage is cleared separately by the caller, matching the render
// manager's own ordering ("swap, then clear frame damage").
func (a *Accumulator) SwapBuffers(timestamp time.Time, swapDamage *Region) {
	if a.dm != nil {
		a.dm.SwapBuffers(timestamp, swapDamage)
	}
}

// WorkspaceDamage returns the subset of frame damage that falls within
// workspace (vx,vy), translated into that workspace's local coordinates.
// (cx,cy) is the current workspace.
func (a *Accumulator) WorkspaceDamage(vx, vy, cx, cy int) *Region {
	w, h := a.width, a.height
	rect := Rect{(vx - cx) * w, (vy - cy) * h, w, h}
	clipped := a.frame.Intersect(rect)
	clipped.Translate((cx-vx)*w, (cy-vy)*h)
	return clipped
}

// ClearFrameDamage empties the frame damage region.
func (a *Accumulator) ClearFrameDamage() { a.frame = NewRegion() }

// FrameDamageEmpty reports whether frame damage is currently empty.
func (a *Accumulator) FrameDamageEmpty() bool { return a.frame.Empty() }

// UnionFrameDamage unions r directly into frame damage, bypassing the
// display's damage manager and scheduler. Used internally by the
// Workspace Stream to force full-workspace repaints.
func (a *Accumulator) UnionFrameDamage(r Rect) { a.frame.Union(r) }
