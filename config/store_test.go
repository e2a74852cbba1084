// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"sync"
	"testing"
)

func resetStore() {
	once = sync.Once{}
	system = nil
	loadErr = nil
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if cfg.Section("render") == nil {
		t.Fatalf("expected render section to be set")
	}
	if got := cfg.GetInt("render", "vwidth", 0); got != 3 {
		t.Fatalf("expected default vwidth 3, got %d", got)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if disk.Section("frame_scheduler") == nil {
		t.Fatalf("expected frame_scheduler section to be present on disk")
	}
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Config{
		"render": map[string]interface{}{
			"damage_debug": true,
		},
	}
	SetSystem(cfg)
	if err := SaveSystem(); err != nil {
		t.Fatalf("SaveSystem: %v", err)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if got := disk.GetBool("render", "damage_debug", false); !got {
		t.Fatalf("expected damage_debug to be true")
	}
}

func TestReloadPicksUpDiskChanges(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	_ = System()
	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	if err := writeConfig(path, Config{
		"render": map[string]interface{}{
			"vwidth":  5,
			"vheight": 5,
		},
	}); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := System().GetInt("render", "vwidth", 0); got != 5 {
		t.Fatalf("expected reloaded vwidth 5, got %d", got)
	}
}
