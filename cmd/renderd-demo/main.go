// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/renderd-demo/main.go
// Summary: Minimal end-to-end exercise of the render manager: a tcell
// output, a couple of static colored panes arranged on a 2x1 workspace
// grid, and a ticker-driven paint loop.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/renderd/config"
	"github.com/framegrace/renderd/internal/renderer"
)

func main() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "renderd-demo requires a live terminal")
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "renderd-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.System()

	targetFPS := cfg.GetInt("frame_scheduler", "target_fps", 60)
	period := time.Second / time.Duration(targetFPS)

	loop := renderer.NewIdleFrameLoop(period)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}

	ws := newDemoWorkspace()

	var mgr *renderer.Manager
	out, err := renderer.NewTcellOutput(screen, loop, func() {
		if mgr != nil {
			mgr.Paint()
		}
	})
	if err != nil {
		return fmt.Errorf("init output: %w", err)
	}
	defer out.Fini()

	gpu := renderer.NewTcellGPUContext(out)

	mgr = renderer.NewManager(out, gpu, ws, loop, nopSignals{}, renderer.Config{
		VWidth:        2,
		VHeight:       1,
		NoDamageTrack: cfg.GetBool("render", "no_damage_track", false),
		DamageDebug:   cfg.GetBool("render", "damage_debug", false),
	})

	mgr.DamageRegion(nil)

	quit := make(chan struct{})
	go pollInput(screen, ws, out, quit)

	loop.AddIdle(func() { mgr.Paint() })
	go func() {
		<-quit
		loop.Stop()
	}()
	loop.Run()

	return nil
}

func pollInput(screen tcell.Screen, ws *demoWorkspace, out *renderer.TcellOutput, quit chan struct{}) {
	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC, tcell.KeyEsc:
				close(quit)
				return
			case tcell.KeyTab:
				ws.switchWorkspace()
				out.ScheduleFrame()
			}
		case *tcell.EventResize:
			out.Sync()
			out.ScheduleFrame()
		}
	}
}

type nopSignals struct{}

func (nopSignals) Emit(string, any) {}
