// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/stream.go
// Summary: Workspace Stream — renders one virtual workspace into a cached
// framebuffer with front-to-back occlusion culling and back-to-front draw.

package renderer

// Stream is the per-workspace rendering pipeline: a cached framebuffer for
// one (vx,vy) cell of the workspace grid, plus its running state and the
// (currently inert) scale factors.
type Stream struct {
	VX, VY         int
	Buffer         Framebuffer
	Running        bool
	ScaleX, ScaleY float64
}

// StreamGrid is the fixed vwidth x vheight table of streams, created once
// at init and never reallocated per paint (spec §9: "flat addressed
// table... no per-paint allocation").
type StreamGrid struct {
	vwidth, vheight int
	streams         [][]*Stream
}

// NewStreamGrid allocates the vwidth x vheight stream table.
func NewStreamGrid(vwidth, vheight int) *StreamGrid {
	g := &StreamGrid{vwidth: vwidth, vheight: vheight}
	g.streams = make([][]*Stream, vwidth)
	for x := range g.streams {
		g.streams[x] = make([]*Stream, vheight)
		for y := range g.streams[x] {
			g.streams[x][y] = &Stream{VX: x, VY: y, ScaleX: 1, ScaleY: 1}
		}
	}
	return g
}

// At returns the stream for (vx,vy), or nil if out of range.
func (g *StreamGrid) At(vx, vy int) *Stream {
	if vx < 0 || vx >= g.vwidth || vy < 0 || vy >= g.vheight {
		return nil
	}
	return g.streams[vx][vy]
}

// Dimensions reports the grid's fixed vwidth x vheight.
func (g *StreamGrid) Dimensions() (int, int) { return g.vwidth, g.vheight }

// damagedRecord is one surface (or snapshotted view) scheduled to draw,
// with its own clipped damage region.
type damagedRecord struct {
	surface          Surface
	damage           *Region
	snapshot         bool
	snapshotBox      Rect
	offsetX, offsetY int
}

// Compositor renders workspace streams: start/update/stop lifecycle,
// front-to-back occlusion culling, back-to-front drawing.
type Compositor struct {
	grid     *StreamGrid
	accum    *Accumulator
	ws       WorkspaceManager
	geometry Rect // the output's relative geometry (g.x, g.y, g.w, g.h)
	signals  SignalEmitter

	dragIcons []View
}

// NewCompositor wires a compositor to its stream grid, damage accumulator,
// workspace manager, and output geometry.
func NewCompositor(grid *StreamGrid, accum *Accumulator, ws WorkspaceManager, geometry Rect, signals SignalEmitter) *Compositor {
	return &Compositor{grid: grid, accum: accum, ws: ws, geometry: geometry, signals: signals}
}

// SetDragIcons temporarily re-homes active drag icons to this output for
// the next Update call, when no custom renderer is installed.
func (c *Compositor) SetDragIcons(icons []View) { c.dragIcons = icons }

func (c *Compositor) workspaceRect(vx, vy, cx, cy int) Rect {
	w, h := c.accum.width, c.accum.height
	return Rect{(vx - cx) * w, (vy - cy) * h, w, h}
}

// Start marks a stream running, forces a full-workspace repaint, and
// renders its first frame.
func (c *Compositor) Start(s *Stream) {
	s.Running = true
	s.ScaleX, s.ScaleY = 1, 1
	cx, cy := c.ws.CurrentWorkspace()
	c.accum.UnionFrameDamage(c.workspaceRect(s.VX, s.VY, cx, cy))
	c.Update(s, 1, 1)
}

// Stop marks a stream dormant. Its framebuffer is retained as the cached
// backing store until the manager is torn down.
func (c *Compositor) Stop(s *Stream) {
	s.Running = false
}

// Update snapshots one workspace into the stream's framebuffer, respecting
// damage. scaleX/scaleY are accepted for API-contract completeness only:
// scaled-stream rendering is disabled (spec §9's "&& false" guard in the
// original), so the render path below always behaves as if scale is 1x1.
func (c *Compositor) Update(s *Stream, scaleX, scaleY float64) {
	cx, cy := c.ws.CurrentWorkspace()
	w, h := c.accum.width, c.accum.height
	dx := c.geometry.X + (s.VX-cx)*c.geometry.W
	dy := c.geometry.Y + (s.VY-cy)*c.geometry.H

	wsDamage := c.accum.WorkspaceDamage(s.VX, s.VY, cx, cy)

	if scaleX != s.ScaleX || scaleY != s.ScaleY {
		wsDamage.Union(Rect{0, 0, w, h})
	}

	if wsDamage.Empty() {
		return
	}

	s.Buffer.Allocate(w, h)

	if c.signals != nil {
		c.signals.Emit("workspace-stream-pre", StreamSignal{Stream: s, Damage: wsDamage})
	}

	views := c.ws.ViewsOnWorkspace(s.VX, s.VY, LayerAllLayers, false)
	if len(c.dragIcons) > 0 {
		views = append(append([]View(nil), views...), c.dragIcons...)
	}

	remaining := wsDamage.Clone()
	var records []damagedRecord

	for _, v := range views {
		if remaining.Empty() {
			break
		}
		if !v.IsVisible() {
			continue
		}
		offX, offY := 0, 0
		if !v.IsShell() {
			offX, offY = dx, dy
		}

		if v.HasTransformer() || !v.IsMapped() {
			box := v.BoundingBox().Translate(offX, offY)
			clipped := remaining.Intersect(box)
			if clipped.Empty() {
				continue
			}
			records = append(records, damagedRecord{snapshot: true, snapshotBox: box, damage: clipped})
			continue
		}

		v.ForEachSurface(func(surf Surface) {
			if !surf.IsMapped() {
				return
			}
			geom := surf.OutputGeometry().Translate(offX, offY)
			clipped := remaining.Intersect(geom)
			if !clipped.Empty() {
				records = append(records, damagedRecord{surface: surf, damage: clipped, offsetX: offX, offsetY: offY})
			}
			if surf.Alpha() >= 0.999 {
				surf.SubtractOpaque(remaining, offX, offY)
			}
		})
	}

	for _, r := range wsDamage.Rectangles() {
		s.Buffer.Clear(r, Cell{})
	}

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.snapshot {
			// Snapshotted views are not drawn: the render core has no
			// render routine for a frozen bounding box, so nothing is
			// drawn for this record, and it does not cull the surfaces
			// behind it.
			continue
		}
		rec.surface.RenderFB(rec.damage, &s.Buffer)
	}

	if c.signals != nil {
		c.signals.Emit("workspace-stream-post", StreamSignal{Stream: s, Damage: wsDamage})
	}
	c.dragIcons = nil
}
