// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/scenegraph.go
// Summary: Scene-graph collaborator contracts (external, referenced only).
// None of views/surfaces/layers/transformers are implemented here — spec
// places the scene graph itself out of scope; these are just the
// interfaces the render core calls into.

package renderer

import "time"

// LayerMask selects which scene-graph layers a workspace query considers.
type LayerMask int

const (
	LayerBackground LayerMask = 1 << iota
	LayerBottom
	LayerMiddle
	LayerTop
	LayerOverlay

	LayerAllLayers = LayerBackground | LayerBottom | LayerMiddle | LayerTop | LayerOverlay
)

// WorkspaceManager is the scene graph's workspace/view query contract.
type WorkspaceManager interface {
	CurrentWorkspace() (cx, cy int)
	// ViewsOnWorkspace returns views on (vx,vy) restricted to layers, in
	// front-to-back depth order, or back-to-front if reverse is true.
	ViewsOnWorkspace(vx, vy int, layers LayerMask, reverse bool) []View
	ForEachView(fn func(View), layers LayerMask)
}

// View is one scene-graph surface-tree root.
type View interface {
	IsMapped() bool
	IsVisible() bool
	HasTransformer() bool
	// IsShell reports whether the view is a shell/panel view, whose
	// surface coordinates are already output-local (no workspace offset).
	IsShell() bool
	BoundingBox() Rect
	ForEachSurface(fn func(Surface))
}

// Surface is a single renderable buffer within a view.
type Surface interface {
	IsMapped() bool
	OutputGeometry() Rect
	Alpha() float64
	SubtractOpaque(reg *Region, x, y int)
	RenderFB(damage *Region, target *Framebuffer)
	SendFrameDone(t time.Time)
}

// SignalEmitter fires the named compositor signals ("workspace-stream-pre",
// "workspace-stream-post", "start-rendering") the way the teacher's own
// effect/event dispatch does for pane/workspace events.
type SignalEmitter interface {
	Emit(name string, data any)
}

// StreamSignal is the payload for "workspace-stream-pre"/"-post".
type StreamSignal struct {
	Stream *Stream
	Damage *Region
}

// CursorRenderer draws software cursors into the current frame target.
type CursorRenderer interface {
	RenderCursors(target *Framebuffer, damage *Region)
}
