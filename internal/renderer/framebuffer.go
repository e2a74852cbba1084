// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/framebuffer.go
// Summary: Framebuffer Resource — a (fb, tex) GPU resource pair backed by
// a 2-D cell grid, the teacher's own "pixel" format.

package renderer

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
)

// Cell is the render core's pixel format: one terminal cell. It stands in
// for a GPU texel the way the teacher's own [][]Cell framebuffers already
// do — there is no real GPU available to this module, so tcell's screen is
// the GPU/display context and a cell grid is the texture.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

var handleCounter uint64

// nextHandle mints a process-wide unique (fb or tex) identifier. Handles
// need only be unique, not unguessable, so a monotonic counter replaces
// the teacher's crypto/rand-seeded pane id for this purpose.
func nextHandle() int {
	return int(atomic.AddUint64(&handleCounter, 1))
}

// Framebuffer is a (Fb, Tex) GPU resource pair plus its backing cell grid.
// The zero value is unallocated: Fb == 0 && Tex == 0.
type Framebuffer struct {
	Fb, Tex int
	W, H    int
	Cells   [][]Cell
}

// Unallocated reports whether the framebuffer currently holds no resource.
func (f *Framebuffer) Unallocated() bool {
	return f.Fb == 0 && f.Tex == 0
}

// Allocate creates or resizes the backing grid. Idempotent for identical
// (w, h); reallocates the backing grid on any size change.
func (f *Framebuffer) Allocate(w, h int) {
	if !f.Unallocated() && f.W == w && f.H == h {
		return
	}
	if f.Fb == 0 {
		f.Fb = nextHandle()
	}
	if f.Tex == 0 {
		f.Tex = nextHandle()
	}
	f.W, f.H = w, h
	f.Cells = make([][]Cell, h)
	for y := range f.Cells {
		f.Cells[y] = make([]Cell, w)
	}
}

// Release deletes both identifiers and the backing grid, returning the
// framebuffer to unallocated.
func (f *Framebuffer) Release() {
	f.Fb, f.Tex = 0, 0
	f.W, f.H = 0, 0
	f.Cells = nil
}

// Reset drops the identifiers without freeing the backing grid, used when
// transferring ownership of a buffer to another chain slot.
func (f *Framebuffer) Reset() {
	f.Fb, f.Tex = 0, 0
}

// Blit copies every cell covered by region from src into f, clipped to
// both framebuffers' bounds. Used to composite a workspace stream's
// cached buffer into the output's default buffer, the way
// texel/screen.go's blit copies a pane's buffer onto the terminal.
func (f *Framebuffer) Blit(src *Framebuffer, region *Region) {
	if src == nil || region == nil {
		return
	}
	bounds := Rect{0, 0, f.W, f.H}
	srcBounds := Rect{0, 0, src.W, src.H}
	for _, r := range region.Rectangles() {
		r = bounds.Intersect(srcBounds.Intersect(r))
		if r.Empty() {
			continue
		}
		for y := r.Y; y < r.Y+r.H; y++ {
			copy(f.Cells[y][r.X:r.X+r.W], src.Cells[y][r.X:r.X+r.W])
		}
	}
}

// Clear fills r (clipped to the framebuffer's bounds) with c.
func (f *Framebuffer) Clear(r Rect, c Cell) {
	bounds := Rect{0, 0, f.W, f.H}
	r = bounds.Intersect(r)
	if r.Empty() {
		return
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		row := f.Cells[y]
		for x := r.X; x < r.X+r.W; x++ {
			row[x] = c
		}
	}
}

// Transform enumerates the output's rotation/flip state.
type Transform int

const (
	TransformNormal Transform = iota
	TransformRotate90
	TransformRotate180
	TransformRotate270
	TransformFlipped
)

// Matrix is a 4x4 transform matrix in row-major order.
type Matrix [16]float64

func identityMatrix() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Matrix derives the 4x4 transform matrix for t. Only rotation about the Z
// axis is modeled; flips negate the relevant axis scale.
func (t Transform) Matrix() Matrix {
	m := identityMatrix()
	switch t {
	case TransformRotate90:
		m[0], m[1] = 0, -1
		m[4], m[5] = 1, 0
	case TransformRotate180:
		m[0], m[5] = -1, -1
	case TransformRotate270:
		m[0], m[1] = 0, 1
		m[4], m[5] = -1, 0
	case TransformFlipped:
		m[0] = -1
	}
	return m
}

// TargetDescriptor is the render target descriptor exposed to renderers
// (spec's FrameBufferDescriptor): geometry, transform, derived matrix,
// raw viewport size, and the (fb, tex) identifiers.
type TargetDescriptor struct {
	Geometry  Rect
	Transform Transform
	Matrix    Matrix
	Viewport  struct{ W, H int }
	Fb, Tex   int
}
