// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package renderer

import "testing"

func TestRegionUnionIdempotent(t *testing.T) {
	reg := NewRegion()
	r := Rect{5, 5, 10, 10}
	reg.Union(r)
	reg.Union(r)
	if len(reg.Rectangles()) != 1 {
		t.Fatalf("expected a single rectangle after idempotent union, got %v", reg.Rectangles())
	}
}

func TestRegionUnionDropsContained(t *testing.T) {
	reg := NewRegion()
	reg.Union(Rect{0, 0, 100, 100})
	reg.Union(Rect{10, 10, 5, 5})
	if len(reg.Rectangles()) != 1 {
		t.Fatalf("expected contained rect to be dropped, got %v", reg.Rectangles())
	}
}

func TestRegionSubtractFullyContained(t *testing.T) {
	reg := NewRegion()
	reg.Union(Rect{0, 0, 50, 50})
	reg.Subtract(Rect{0, 0, 50, 50})
	if !reg.Empty() {
		t.Fatalf("expected region to be empty after subtracting itself, got %v", reg.Rectangles())
	}
}

func TestRegionSubtractionLaw(t *testing.T) {
	reg := NewRegion()
	reg.Union(Rect{0, 0, 200, 200})
	out := Rect{0, 0, 100, 100}
	reg.Subtract(out)
	for _, r := range reg.Rectangles() {
		if out.Contains(r) {
			t.Fatalf("rectangle %v remains fully contained in output rect after subtraction", r)
		}
	}
}

func TestRegionIntersectClips(t *testing.T) {
	reg := NewRegion()
	reg.Union(Rect{0, 0, 100, 100})
	clipped := reg.Intersect(Rect{50, 50, 100, 100})
	rects := clipped.Rectangles()
	if len(rects) != 1 || rects[0] != (Rect{50, 50, 50, 50}) {
		t.Fatalf("unexpected intersection result: %v", rects)
	}
}

func TestRegionTranslate(t *testing.T) {
	reg := NewRegion()
	reg.Union(Rect{0, 0, 10, 10})
	reg.Translate(5, -5)
	rects := reg.Rectangles()
	if len(rects) != 1 || rects[0] != (Rect{5, -5, 10, 10}) {
		t.Fatalf("unexpected translated rect: %v", rects)
	}
}

func TestRegionSelfCheck(t *testing.T) {
	reg := NewRegion()
	reg.Union(Rect{0, 0, 10, 10})
	reg.Union(Rect{20, 20, 10, 10})
	if !reg.SelfCheck() {
		t.Fatalf("expected well-formed region to self-check")
	}
}
