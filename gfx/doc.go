// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx owns the lifecycle of the rendering context a benchmark draws
// into.
//
// A Backend binds one graphics API: it acquires a surface and a device,
// (re)creates the drawable, and presents frames. Context wraps a Backend in
// the state machine
//
//	Uninitialized -> Created -> Active -> Destroyed
//
// and enforces its rules once for every backend: frames are presented only
// while Active, resizing never changes the state, and teardown is
// idempotent.
//
// # Backends
//
// Backends register themselves with a priority when imported:
//
//	import _ "github.com/gogpu/gpumark/gfx/headless" // CPU, priority 10
//	import _ "github.com/gogpu/gpumark/gfx/wgpu"     // Vulkan 100, noop 1
//
//	b, err := gfx.Default()
//	ctx := gfx.NewContext(b, gfx.Config{Width: 1280, Height: 720})
//	if !ctx.Acquire() {
//	    return ctx.Err()
//	}
//	defer ctx.Destroy()
//
// # Logging
//
// Lifecycle events are logged through the logger set with SetLogger. By
// default nothing is logged.
package gfx
