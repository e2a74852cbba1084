// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/region.go
// Summary: Damage region algebra — a pixman-style union of rectangles.

package renderer

// Rect is an axis-aligned integer rectangle in output-pixel space.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersect returns the overlap of r and o, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Translate shifts the rectangle by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Region is a union of rectangles, reduced (duplicates and fully-contained
// rectangles dropped) on every mutation. It does not merge adjacent
// rectangles into larger ones — the teacher's own diff-based redraw never
// needed that either, just freedom from unbounded duplication.
type Region struct {
	rects []Rect
}

// NewRegion returns an empty region.
func NewRegion() *Region { return &Region{} }

// Empty reports whether the region covers no area.
func (reg *Region) Empty() bool {
	return reg == nil || len(reg.rects) == 0
}

// Rectangles returns a copy of the region's constituent rectangles.
func (reg *Region) Rectangles() []Rect {
	if reg == nil {
		return nil
	}
	out := make([]Rect, len(reg.rects))
	copy(out, reg.rects)
	return out
}

// Union adds r to the region. Exact duplicates and rectangles already fully
// covered by an existing member are no-ops, which is what makes
// damage(R); damage(R) equivalent to damage(R) alone.
func (reg *Region) Union(r Rect) {
	if reg == nil || r.Empty() {
		return
	}
	for _, existing := range reg.rects {
		if existing.Contains(r) {
			return
		}
	}
	kept := reg.rects[:0]
	for _, existing := range reg.rects {
		if r.Contains(existing) {
			continue
		}
		kept = append(kept, existing)
	}
	reg.rects = append(kept, r)
}

// UnionRegion merges every rectangle of other into reg.
func (reg *Region) UnionRegion(other *Region) {
	if reg == nil || other == nil {
		return
	}
	for _, r := range other.rects {
		reg.Union(r)
	}
}

// Intersect returns a new region holding reg clipped to r.
func (reg *Region) Intersect(r Rect) *Region {
	out := NewRegion()
	if reg == nil {
		return out
	}
	for _, existing := range reg.rects {
		if clipped := existing.Intersect(r); !clipped.Empty() {
			out.Union(clipped)
		}
	}
	return out
}

// Subtract removes r from every rectangle in the region, splitting each
// affected rectangle into up to four remaining pieces.
func (reg *Region) Subtract(r Rect) {
	if reg == nil || r.Empty() {
		return
	}
	var result []Rect
	for _, existing := range reg.rects {
		result = append(result, subtractRect(existing, r)...)
	}
	reg.rects = nil
	for _, piece := range result {
		reg.Union(piece)
	}
}

// Translate shifts every rectangle in the region by (dx, dy).
func (reg *Region) Translate(dx, dy int) {
	if reg == nil {
		return
	}
	for i := range reg.rects {
		reg.rects[i] = reg.rects[i].Translate(dx, dy)
	}
}

// Clone returns an independent copy of the region.
func (reg *Region) Clone() *Region {
	out := NewRegion()
	if reg == nil {
		return out
	}
	out.rects = append(out.rects, reg.rects...)
	return out
}

// SelfCheck reports whether the region's reduction invariant holds: no
// empty rectangle, no rectangle strictly contained in a distinct one.
func (reg *Region) SelfCheck() bool {
	if reg == nil {
		return true
	}
	for i, r := range reg.rects {
		if r.Empty() {
			return false
		}
		for j, other := range reg.rects {
			if i == j {
				continue
			}
			if other.Contains(r) && !r.Contains(other) {
				return false
			}
		}
	}
	return true
}

func subtractRect(r, cut Rect) []Rect {
	clip := r.Intersect(cut)
	if clip.Empty() {
		return []Rect{r}
	}
	var out []Rect
	if clip.Y > r.Y {
		out = append(out, Rect{r.X, r.Y, r.W, clip.Y - r.Y})
	}
	if clip.Y+clip.H < r.Y+r.H {
		out = append(out, Rect{r.X, clip.Y + clip.H, r.W, r.Y + r.H - (clip.Y + clip.H)})
	}
	if clip.X > r.X {
		out = append(out, Rect{r.X, clip.Y, clip.X - r.X, clip.H})
	}
	if clip.X+clip.W < r.X+r.W {
		out = append(out, Rect{clip.X + clip.W, clip.Y, r.X + r.W - (clip.X + clip.W), clip.H})
	}
	return out
}
