// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/output.go
// Summary: Output Handle and GPU context collaborator contracts.

package renderer

// Output is the physical display handle owned externally (spec's Output
// Handle: integer size, scale, transform, schedule_frame()).
type Output interface {
	Size() (w, h int)
	Scale() float64
	Transform() Transform
	ScheduleFrame()
}

// GPUContext is the low-level GPU/GL binding. Paint calls BindOutput and
// allocates the default buffer before RenderBegin; workspace-stream and
// post-chain buffers allocated while the frame is drawn fall between
// RenderBegin and RenderEnd. Buffers that AddPost allocates, and those
// CleanupPostHooks releases, are changed outside a bound context.
type GPUContext interface {
	BindOutput(o Output) error
	UnbindOutput(o Output)
	RenderBegin(target *Framebuffer)
	// RenderEnd closes the bound context and submits display, the frame's
	// final image, for presentation (spec's render_end/swap_buffers pair
	// collapsed into one call since this backend has no separate vsync
	// page-flip to wait on).
	RenderEnd(display *Framebuffer)
	Clear(target *Framebuffer, r Rect, c Cell)
}
