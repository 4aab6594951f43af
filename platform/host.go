// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package platform hosts a benchmark run inside a window-system event loop.
//
// A Host maps window events onto graphics-context and session transitions:
//
//	WindowCreated    -> new context, Acquire, start measuring, animate
//	WindowDestroyed  -> end measuring, destroy context, stop animating
//	FocusGained/Lost -> resume/pause frame production
//	Input            -> end the run
//	DestroyRequested -> tear down and return from Run
//
// Frames are produced only while animating. While not animating, Run blocks
// on the event channel.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/gfx"
	"github.com/gogpu/gpumark/session"
)

// BackendFactory creates the backend for a new window.
type BackendFactory func() (gfx.Backend, error)

// Host owns the graphics context and runner of the current window.
// It is driven by a single goroutine.
type Host struct {
	newBackend BackendFactory
	cfg        gfx.Config
	opts       []gpumark.Option

	gc     *gfx.Context
	runner *gpumark.Runner

	animating bool
	quit      bool
	result    session.Result
	err       error
}

// NewHost creates an idle host. cfg supplies the requested size and vsync;
// its Window is replaced by the handle of each WindowCreated event. opts
// configure the runner started for every window.
func NewHost(newBackend BackendFactory, cfg gfx.Config, opts ...gpumark.Option) *Host {
	return &Host{newBackend: newBackend, cfg: cfg, opts: opts}
}

// Animating reports whether frames are being produced.
func (h *Host) Animating() bool { return h.animating }

// Context returns the graphics context of the current window, or nil.
func (h *Host) Context() *gfx.Context { return h.gc }

// Runner returns the runner of the current window, or nil.
func (h *Host) Runner() *gpumark.Runner { return h.runner }

// Result returns the result of the last finished run.
func (h *Host) Result() session.Result { return h.result }

// Err returns the last bring-up or frame error.
func (h *Host) Err() error { return h.err }

// Quit reports whether the host has been asked to finish.
func (h *Host) Quit() bool { return h.quit }

func logger() *slog.Logger { return gpumark.Logger() }

// Handle applies one event.
func (h *Host) Handle(ev Event) {
	logger().Debug("platform: event", "kind", ev.Kind.String())

	switch ev.Kind {
	case WindowCreated:
		if ev.Window == nil {
			return
		}
		h.teardown()
		h.bringUp(ev.Window)
	case WindowDestroyed:
		h.teardown()
	case FocusGained:
		if h.runner != nil && !h.animating {
			h.runner.Resume()
			h.animating = true
		}
	case FocusLost:
		h.animating = false
	case Input:
		h.finish()
		h.quit = true
	case DestroyRequested:
		h.teardown()
		h.quit = true
	}
}

func (h *Host) bringUp(window any) {
	b, err := h.newBackend()
	if err != nil {
		h.err = err
		logger().Warn("platform: no backend", "err", err)
		return
	}
	cfg := h.cfg
	cfg.Window = window
	gc := gfx.NewContext(b, cfg)
	if !gc.Acquire() {
		h.err = gc.Err()
		gc.Destroy()
		logger().Warn("platform: context not active", "backend", b.Name(), "err", h.err)
		return
	}

	r := gpumark.NewRunner(gc, h.opts...)
	if err := r.Start(); err != nil {
		h.err = err
		gc.Destroy()
		return
	}
	h.gc, h.runner = gc, r
	h.err = nil
	h.animating = true
}

// finish ends measuring and keeps the result. The context stays alive
// until teardown.
func (h *Host) finish() {
	if h.runner != nil {
		h.result = h.runner.Stop()
	}
	h.animating = false
}

func (h *Host) teardown() {
	h.finish()
	if h.gc != nil {
		h.gc.Destroy()
	}
	h.gc, h.runner = nil, nil
}

// step produces one frame. Reaching the frame limit or duration ends the
// run; any other frame error is recorded and also ends it.
func (h *Host) step() {
	err := h.runner.Step()
	switch {
	case err == nil:
		if h.runner.Done() {
			h.finish()
			h.quit = true
		}
	case errors.Is(err, gpumark.ErrFinished):
		h.finish()
		h.quit = true
	default:
		h.err = fmt.Errorf("platform: frame: %w", err)
		h.finish()
		h.quit = true
	}
}

// Run is the event loop. While animating it drains pending events without
// blocking and then steps one frame; otherwise it blocks for the next
// event. It returns when the run completes, on Input, on DestroyRequested
// or when the events channel is closed, or when ctx is canceled. The
// context is destroyed before Run returns.
//
// The returned error is the bring-up or frame error that ended the run,
// or ctx.Err() on cancellation.
func (h *Host) Run(ctx context.Context, events <-chan Event) (session.Result, error) {
	defer h.teardown()

	for !h.quit {
		if !h.animating {
			select {
			case <-ctx.Done():
				h.teardown()
				return h.result, ctx.Err()
			case ev, ok := <-events:
				h.receive(ev, ok)
			}
		}
		h.drain(events)

		if err := ctx.Err(); err != nil {
			h.teardown()
			return h.result, err
		}
		if h.animating && !h.quit {
			h.step()
		}
	}

	h.teardown()
	return h.result, h.err
}

// drain handles pending events without blocking, for as long as the host
// is animating.
func (h *Host) drain(events <-chan Event) {
	for h.animating && !h.quit {
		select {
		case ev, ok := <-events:
			h.receive(ev, ok)
		default:
			return
		}
	}
}

func (h *Host) receive(ev Event, ok bool) {
	if !ok {
		ev = Event{Kind: DestroyRequested}
	}
	h.Handle(ev)
}
