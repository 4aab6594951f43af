// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpumark/framebuffer"
)

// State is the lifecycle state of a Context.
type State int

const (
	// Uninitialized is the state of a new Context.
	Uninitialized State = iota
	// Created means the surface and rendering context are acquired but no
	// drawable is bound.
	Created
	// Active means a drawable is bound and frames may be presented.
	Active
	// Destroyed is terminal. A destroyed Context must not be reused.
	Destroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Created:
		return "created"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config is the explicit configuration a Context is built with.
type Config struct {
	// Window is the native window handle passed to Backend.Create.
	// Its meaning is backend specific; headless backends accept nil.
	Window any

	// Width and Height override the surface size reported by the backend
	// when positive.
	Width  int
	Height int

	// VSync requests presentation synchronized to the display refresh.
	VSync bool
}

// Context drives a Backend through the lifecycle
//
//	Uninitialized -> Created -> Active -> Destroyed
//
// Resize is a same-state transition in Created and Active. Swap is only
// valid in Active. Destroy is idempotent.
//
// Failed transitions leave the state unchanged, so a caller may retry.
// Context is NOT safe for concurrent use.
type Context struct {
	backend Backend
	cfg     Config

	state  State
	width  int
	height int
	vsync  bool

	// generation increments on every drawable configuration change.
	generation uint64
	err        error
}

// NewContext creates an Uninitialized Context for the backend.
func NewContext(b Backend, cfg Config) *Context {
	return &Context{
		backend: b,
		cfg:     cfg,
		vsync:   cfg.VSync,
	}
}

// Create acquires the surface and rendering context.
// It is only valid in the Uninitialized state.
func (c *Context) Create() error {
	if c.state != Uninitialized {
		return c.fail(fmt.Errorf("%w: create from %s", ErrInvalidState, c.state))
	}

	w, h, err := c.backend.Create(c.cfg.Window)
	if err != nil {
		if !errors.Is(err, ErrSurfaceUnavailable) && !errors.Is(err, ErrContextRejected) {
			err = fmt.Errorf("%w: %w", ErrContextRejected, err)
		}
		slogger().Warn("gfx: create failed", "backend", c.backend.Name(), "err", err)
		return c.fail(err)
	}
	if c.cfg.Width > 0 && c.cfg.Height > 0 {
		w, h = c.cfg.Width, c.cfg.Height
	}

	c.width, c.height = w, h
	c.state = Created
	c.err = nil
	slogger().Info("gfx: context created", "backend", c.backend.Name(), "width", w, "height", h)
	return nil
}

// Activate binds a drawable at the current size, moving Created to Active.
// On failure the Context stays Created.
func (c *Context) Activate() error {
	if c.state != Created {
		return c.fail(fmt.Errorf("%w: activate from %s", ErrInvalidState, c.state))
	}
	if c.width <= 0 || c.height <= 0 {
		return c.fail(fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.width, c.height))
	}
	if err := c.backend.Resize(c.width, c.height, c.vsync); err != nil {
		return c.fail(fmt.Errorf("gfx: activate: %w", err))
	}

	c.state = Active
	c.generation++
	c.err = nil
	slogger().Info("gfx: context active", "backend", c.backend.Name())
	return nil
}

// Acquire runs Create and Activate and reports whether the Context became
// Active. The failure, if any, is available from Err; its class can be
// tested with errors.Is against ErrSurfaceUnavailable and ErrContextRejected.
func (c *Context) Acquire() bool {
	if c.state == Active {
		return true
	}
	if c.state == Uninitialized {
		if err := c.Create(); err != nil {
			return false
		}
	}
	return c.Activate() == nil
}

// Resize updates the drawable size and swap interval. It is valid in the
// Created and Active states and never changes the lifecycle state. In
// Created the new size is applied on Activate.
func (c *Context) Resize(width, height int, vsync bool) error {
	if c.state != Created && c.state != Active {
		return c.fail(fmt.Errorf("%w: resize from %s", ErrInvalidState, c.state))
	}
	if width <= 0 || height <= 0 {
		return c.fail(fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height))
	}
	if c.state == Active {
		if err := c.backend.Resize(width, height, vsync); err != nil {
			return c.fail(fmt.Errorf("gfx: resize: %w", err))
		}
		c.generation++
	}

	c.width, c.height, c.vsync = width, height, vsync
	slogger().Debug("gfx: resized", "width", width, "height", height, "vsync", vsync)
	return nil
}

// Swap presents the current frame. Outside Active it returns ErrNotActive.
func (c *Context) Swap() error {
	if c.state != Active {
		return fmt.Errorf("%w: swap in %s", ErrNotActive, c.state)
	}
	return c.backend.Swap()
}

// Destroy releases the backend and moves the Context to Destroyed.
// Calling it on an Uninitialized or Destroyed Context does nothing.
func (c *Context) Destroy() {
	if c.state == Uninitialized || c.state == Destroyed {
		return
	}
	c.backend.Destroy()
	c.state = Destroyed
	slogger().Info("gfx: context destroyed", "backend", c.backend.Name())
}

// HasDisplay reports whether the Context holds a live display connection.
func (c *Context) HasDisplay() bool {
	if c.state != Created && c.state != Active {
		return false
	}
	return c.backend.HasDisplay()
}

// Framebuffer describes the bound render target, or nil when the backend
// cannot describe it or no drawable is bound.
func (c *Context) Framebuffer() *framebuffer.Target {
	if c.state != Active {
		return nil
	}
	if d, ok := c.backend.(FramebufferDescriber); ok {
		return d.Framebuffer()
	}
	return nil
}

// DescribesFramebuffer reports whether the backend can describe its render
// target. When it can, a nil Framebuffer while Active means no target is
// bound.
func (c *Context) DescribesFramebuffer() bool {
	_, ok := c.backend.(FramebufferDescriber)
	return ok
}

// DeviceInfo describes the device behind the backend.
func (c *Context) DeviceInfo() DeviceInfo {
	if d, ok := c.backend.(DeviceDescriber); ok {
		return d.DeviceInfo()
	}
	return DeviceInfo{Renderer: c.backend.Name()}
}

// State returns the lifecycle state.
func (c *Context) State() State { return c.state }

// Active reports whether frames may be presented.
func (c *Context) Active() bool { return c.state == Active }

// Width returns the drawable width in pixels.
func (c *Context) Width() int { return c.width }

// Height returns the drawable height in pixels.
func (c *Context) Height() int { return c.height }

// VSync reports whether presentation is synchronized to the display.
func (c *Context) VSync() bool { return c.vsync }

// Generation returns a counter that changes whenever the bound drawable is
// reconfigured. Callers compare it to decide when to re-validate the
// framebuffer.
func (c *Context) Generation() uint64 { return c.generation }

// Backend returns the underlying backend.
func (c *Context) Backend() Backend { return c.backend }

// Err returns the error of the last failed transition, or nil.
func (c *Context) Err() error { return c.err }

func (c *Context) fail(err error) error {
	c.err = err
	return err
}
