// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless provides a CPU rendering backend that needs no display
// and no GPU. The drawable is a pair of RGBA pixmaps that are flipped on
// every Swap. It is registered as "headless" with priority 10.
package headless

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpumark/framebuffer"
	"github.com/gogpu/gpumark/gfx"
)

// Name is the registry name of the backend.
const Name = "headless"

// Default surface size when no window size is given.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Window is the window handle this backend understands: the surface size in
// pixels. A nil handle means a DefaultWidth x DefaultHeight surface.
type Window struct {
	Width  int
	Height int
}

type noDisplay struct{}

// NoDisplay is a window handle that simulates a platform without a display.
// Create fails with gfx.ErrSurfaceUnavailable.
var NoDisplay any = noDisplay{}

func init() {
	gfx.Register(Name, 10, func() gfx.Backend { return New() }, nil)
}

// Option configures a Backend.
type Option func(*Backend)

// WithRefreshRate sets the simulated display refresh rate used to pace
// Swap when vsync is on. Non-positive values are ignored.
func WithRefreshRate(hz float64) Option {
	return func(b *Backend) {
		if hz > 0 {
			b.interval = time.Duration(float64(time.Second) / hz)
		}
	}
}

// Backend is the CPU backend.
type Backend struct {
	display bool
	width   int
	height  int
	vsync   bool

	front, back *Pixmap
	clear       [4]float64
	frames      uint64

	interval    time.Duration
	lastPresent time.Time
	sleep       func(time.Duration)
}

// New creates a headless backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		interval: time.Second / 60,
		sleep:    time.Sleep,
		clear:    [4]float64{0, 0, 0, 1},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements gfx.Backend.
func (b *Backend) Name() string { return Name }

// Create implements gfx.Backend.
func (b *Backend) Create(window any) (int, int, error) {
	w, h := DefaultWidth, DefaultHeight
	switch win := window.(type) {
	case nil:
	case noDisplay:
		return 0, 0, fmt.Errorf("%w: headless: no display", gfx.ErrSurfaceUnavailable)
	case Window:
		w, h = win.Width, win.Height
	case *Window:
		if win != nil {
			w, h = win.Width, win.Height
		}
	default:
		return 0, 0, fmt.Errorf("%w: headless: unsupported window handle %T", gfx.ErrContextRejected, window)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: headless: window size %dx%d", gfx.ErrContextRejected, w, h)
	}

	b.display = true
	return w, h, nil
}

// Destroy implements gfx.Backend.
func (b *Backend) Destroy() {
	b.front, b.back = nil, nil
	b.display = false
	b.width, b.height = 0, 0
}

// Resize implements gfx.Backend. It reallocates both pixmaps.
func (b *Backend) Resize(width, height int, vsync bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", gfx.ErrInvalidSize, width, height)
	}
	if b.front == nil || width != b.width || height != b.height {
		b.front = NewPixmap(width, height)
		b.back = NewPixmap(width, height)
	}
	b.width, b.height, b.vsync = width, height, vsync
	return nil
}

// Swap implements gfx.Backend. It clears the back buffer, flips the
// buffers and, with vsync on, waits out the rest of the refresh interval.
func (b *Backend) Swap() error {
	if b.back == nil {
		return fmt.Errorf("%w: headless: no drawable", gfx.ErrNotActive)
	}
	b.back.Clear(b.clear[0], b.clear[1], b.clear[2], b.clear[3])
	b.front, b.back = b.back, b.front
	b.frames++

	if b.vsync {
		now := time.Now()
		if !b.lastPresent.IsZero() {
			if wait := b.interval - now.Sub(b.lastPresent); wait > 0 {
				b.sleep(wait)
				now = now.Add(wait)
			}
		}
		b.lastPresent = now
	}
	return nil
}

// HasDisplay implements gfx.Backend.
func (b *Backend) HasDisplay() bool { return b.display }

// SetClearColor implements gfx.Clearer.
func (b *Backend) SetClearColor(r, g, bl, a float64) {
	b.clear = [4]float64{r, g, bl, a}
}

// Framebuffer implements gfx.FramebufferDescriber.
func (b *Backend) Framebuffer() *framebuffer.Target {
	if b.front == nil {
		return nil
	}
	return &framebuffer.Target{
		Label: "headless",
		Color: []framebuffer.Attachment{{
			Label:       "headless_color",
			Format:      gputypes.TextureFormatRGBA8Unorm,
			Width:       b.width,
			Height:      b.height,
			SampleCount: 1,
		}},
	}
}

// DeviceInfo implements gfx.DeviceDescriber.
func (b *Backend) DeviceInfo() gfx.DeviceInfo {
	return gfx.DeviceInfo{
		Vendor:   "gogpu",
		Renderer: "headless (cpu)",
		Version:  "1.0",
	}
}

// Front returns the last presented frame, or nil before the first Resize.
func (b *Backend) Front() *Pixmap { return b.front }

// Frames returns the number of presented frames.
func (b *Backend) Frames() uint64 { return b.frames }
