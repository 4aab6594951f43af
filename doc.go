// Package gpumark is a repeatable GPU-rendering benchmark engine.
//
// # Overview
//
// A benchmark run brings up a graphics context, renders a workload in a
// loop for a fixed number of frames or a fixed amount of time, and turns the
// measured frame times into a report: frame-rate and frame-duration
// distributions plus a final score (the number of frames presented while
// measuring).
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/gpumark"
//	    "github.com/gogpu/gpumark/gfx"
//	    _ "github.com/gogpu/gpumark/gfx/headless"
//	)
//
//	b, _ := gfx.New("headless")
//	gc := gfx.NewContext(b, gfx.Config{Width: 640, Height: 480})
//	if !gc.Acquire() {
//	    log.Fatal(gc.Err())
//	}
//	defer gc.Destroy()
//
//	r := gpumark.NewRunner(gc, gpumark.WithFrameLimit(600))
//	res, err := r.Run(context.Background())
//
// # Architecture
//
// The engine is organized into:
//   - stats: running statistics and the periodic frame-rate sampler
//   - session: the Idle/Running/Ended measurement state machine
//   - gfx: the graphics context lifecycle and the backend registry
//     (gfx/headless on the CPU, gfx/wgpu on gogpu/wgpu HAL devices)
//   - framebuffer: render-target completeness checks
//   - asset, report, platform: supporting packages for shader and texture
//     loading, run reports and window-event hosting
//
// The Runner in this package ties them together. The session never holds
// a reference to the graphics context; the Runner owns both and feeds one
// frame delta into the session per presented frame.
//
// # Concurrency
//
// A Runner, its session and its context belong to the goroutine that drives
// the frame loop. Only SetLogger and the backend registry are safe for
// concurrent use.
package gpumark

// Version is the current version of gpumark.
const Version = "0.1.0"
