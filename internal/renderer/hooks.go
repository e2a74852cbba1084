// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/hooks.go
// Summary: Effect Hook Registry — pre/overlay/post callback lists invoked
// per frame.

package renderer

import "github.com/google/uuid"

// Phase is one of the three points in a frame an effect hook may run at.
type Phase int

const (
	PhasePre Phase = iota
	PhaseOverlay
	PhasePost
	numPhases
)

// EffectHookID identifies a registered effect hook for removal. Go
// closures and method values aren't comparable the way C++ function
// pointers are, so removal goes by handle instead of by identity of fn.
type EffectHookID uuid.UUID

type effectHook struct {
	id EffectHookID
	fn func()
}

// HookRegistry holds the three ordered pre/overlay/post hook lists.
type HookRegistry struct {
	lists [numPhases][]effectHook
}

// NewHookRegistry returns an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{}
}

// AddEffect appends fn to phase's list, preserving insertion order, and
// returns a handle for later removal.
func (r *HookRegistry) AddEffect(phase Phase, fn func()) EffectHookID {
	id := EffectHookID(uuid.New())
	r.lists[phase] = append(r.lists[phase], effectHook{id: id, fn: fn})
	return id
}

// RemEffect removes the hook matching id from phase's list. Removing an
// unregistered id is a no-op.
func (r *HookRegistry) RemEffect(phase Phase, id EffectHookID) {
	list := r.lists[phase]
	for i, h := range list {
		if h.id == id {
			r.lists[phase] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Run invokes every hook registered for phase against a snapshot taken
// before iteration, so a hook may add or remove effects during the call
// without perturbing the current traversal.
func (r *HookRegistry) Run(phase Phase) {
	snapshot := append([]effectHook(nil), r.lists[phase]...)
	for _, h := range snapshot {
		h.fn()
	}
}

// Count reports how many hooks are registered for phase, for tests.
func (r *HookRegistry) Count(phase Phase) int {
	return len(r.lists[phase])
}
