// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"

	"github.com/gogpu/gpumark/framebuffer"
)

// Errors reported by backends and by Context.
var (
	// ErrSurfaceUnavailable is returned when the platform cannot provide a
	// surface (no display, no window). Retrying later may succeed.
	ErrSurfaceUnavailable = errors.New("gfx: surface unavailable")

	// ErrContextRejected is returned when the graphics API refuses the
	// requested configuration (no adapter, device open failure, shader
	// compilation failure).
	ErrContextRejected = errors.New("gfx: context configuration rejected")

	// ErrNotActive is returned by Swap outside the Active state. It is a
	// programming error: a frame that was never presented must not be timed.
	ErrNotActive = errors.New("gfx: context not active")

	// ErrInvalidState is returned when a transition is not allowed from the
	// current state.
	ErrInvalidState = errors.New("gfx: invalid state transition")

	// ErrInvalidSize is returned for non-positive drawable dimensions.
	ErrInvalidSize = errors.New("gfx: invalid drawable size")

	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or not available on this system.
	ErrBackendNotAvailable = errors.New("gfx: backend not available")
)

// Backend is one graphics API binding (a platform surface plus a rendering
// context). The lifecycle rules live in Context; a Backend only performs the
// API calls and may assume Context calls it in a valid order.
//
// Backends are NOT safe for concurrent use. They are driven from the single
// rendering goroutine.
type Backend interface {
	// Name returns the backend identifier (e.g., "headless", "vulkan").
	Name() string

	// Create acquires the surface and rendering context for the native
	// window handle and returns the surface size in pixels. Failures should
	// wrap ErrSurfaceUnavailable or ErrContextRejected.
	Create(window any) (width, height int, err error)

	// Destroy releases everything Create and Resize acquired.
	Destroy()

	// Resize (re)binds the drawable at the given size and sets the swap
	// interval.
	Resize(width, height int, vsync bool) error

	// Swap presents the current frame.
	Swap() error

	// HasDisplay reports whether a display connection is held.
	HasDisplay() bool
}

// FramebufferDescriber is implemented by backends that can describe their
// current render target for completeness validation.
type FramebufferDescriber interface {
	Framebuffer() *framebuffer.Target
}

// DeviceInfo describes the device behind a backend, for reports.
type DeviceInfo struct {
	Vendor          string
	Renderer        string
	Version         string
	ShadingLanguage string
}

// DeviceDescriber is implemented by backends that can describe their device.
type DeviceDescriber interface {
	DeviceInfo() DeviceInfo
}

// Clearer is implemented by backends whose next frame can be cleared to a
// color. Workloads use it to put real work on the frame.
type Clearer interface {
	SetClearColor(r, g, b, a float64)
}
