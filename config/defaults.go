// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the render manager system configuration.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("render", Section{
		"no_damage_track": false,
		"damage_debug":    false,
		"vwidth":          3,
		"vheight":         3,
	})
	cfg.RegisterDefaults("frame_scheduler", Section{
		"target_fps":       60,
		"idle_coalesce_ms": 0,
	})
}
