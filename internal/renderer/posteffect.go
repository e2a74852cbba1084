// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/posteffect.go
// Summary: Post-Effect Chain — ordered GPU passes with a sentinel display
// slot at the tail.

package renderer

import "github.com/google/uuid"

// PostEffectID identifies a registered post-effect pass for removal.
type PostEffectID uuid.UUID

// PostHook is a single full-screen GPU pass reading src and writing dst.
type PostHook func(src, dst *Framebuffer)

// BufferSlot is a tagged variant: either an owned framebuffer, or the
// display sentinel. The zero value is the display slot. Modeling it this
// way (rather than a *Framebuffer that happens to be nil or zero-valued)
// makes "never free the display slot" a type-level guarantee instead of a
// convention every call site has to remember.
type BufferSlot struct {
	owned *Framebuffer
}

// OwnedSlot wraps a real, freeable framebuffer.
func OwnedSlot(fb *Framebuffer) BufferSlot { return BufferSlot{owned: fb} }

// IsDisplay reports whether the slot is the sentinel display target.
func (s BufferSlot) IsDisplay() bool { return s.owned == nil }

// Framebuffer resolves the slot to a concrete target, substituting display
// when the slot is the sentinel.
func (s BufferSlot) Framebuffer(display *Framebuffer) *Framebuffer {
	if s.owned == nil {
		return display
	}
	return s.owned
}

type postEntry struct {
	id       PostEffectID
	hook     PostHook
	buffer   BufferSlot
	toRemove bool
}

// PostEffectChain is the ordered default_buffer -> post[0] -> ... ->
// display pipeline. The last entry's buffer is always the display slot.
type PostEffectChain struct {
	entries       []*postEntry
	width, height int
}

// NewPostEffectChain returns an empty chain.
func NewPostEffectChain() *PostEffectChain {
	return &PostEffectChain{}
}

// Resize records the output pixel size used to allocate chain buffers.
func (c *PostEffectChain) Resize(w, h int) { c.width, c.height = w, h }

// Len reports how many hooks are currently registered.
func (c *PostEffectChain) Len() int { return len(c.entries) }

// AddPost appends hook to the tail of the chain. The previously-last entry
// (if any) is given a real, allocated framebuffer; the newly appended
// entry becomes the terminal display-slot entry — restoring the invariant
// that the chain's last buffer is always the zero-id display target.
func (c *PostEffectChain) AddPost(hook PostHook) PostEffectID {
	if n := len(c.entries); n > 0 {
		last := c.entries[n-1]
		fb := &Framebuffer{}
		fb.Allocate(c.width, c.height)
		last.buffer = OwnedSlot(fb)
	}
	id := PostEffectID(uuid.New())
	c.entries = append(c.entries, &postEntry{id: id, hook: hook, buffer: BufferSlot{}})
	return id
}

// RemPost marks the entry matching id for deferred removal. Actual removal
// happens at the next CleanupPostHooks call, keeping the chain stable
// mid-frame.
func (c *PostEffectChain) RemPost(id PostEffectID) {
	for _, e := range c.entries {
		if e.id == id {
			e.toRemove = true
		}
	}
}

// CleanupPostHooks drops entries marked to_remove and restores the
// terminal-buffer invariant: the new last entry's buffer is released and
// reset to the display slot.
func (c *PostEffectChain) CleanupPostHooks() {
	kept := c.entries[:0]
	removedAny := false
	for _, e := range c.entries {
		if e.toRemove {
			removedAny = true
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept
	if removedAny && len(c.entries) > 0 {
		last := c.entries[len(c.entries)-1]
		if !last.buffer.IsDisplay() {
			last.buffer.owned.Release()
		}
		last.buffer = BufferSlot{}
	}
}

// TerminalIsDisplay reports whether the chain's invariant currently holds:
// either the chain is empty, or its last entry targets the display slot.
func (c *PostEffectChain) TerminalIsDisplay() bool {
	if len(c.entries) == 0 {
		return true
	}
	return c.entries[len(c.entries)-1].buffer.IsDisplay()
}

// Run walks the chain: default -> post[0].buffer -> post[1].buffer -> ...
// -> display. Each pass's destination buffer is (re)allocated to the
// chain's current output size before the hook runs.
func (c *PostEffectChain) Run(defaultBuffer, display *Framebuffer) {
	src := defaultBuffer
	for _, e := range c.entries {
		dst := e.buffer.Framebuffer(display)
		if !e.buffer.IsDisplay() {
			dst.Allocate(c.width, c.height)
		}
		e.hook(src, dst)
		src = dst
	}
}
