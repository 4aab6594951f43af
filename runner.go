// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpumark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpumark/framebuffer"
	"github.com/gogpu/gpumark/gfx"
	"github.com/gogpu/gpumark/session"
)

// Errors returned by Runner.
var (
	// ErrNotStarted is returned by Step before Start.
	ErrNotStarted = errors.New("gpumark: run not started")

	// ErrFinished is returned by Step once the frame limit or duration has
	// been reached, or after Stop.
	ErrFinished = errors.New("gpumark: run finished")
)

// Clock is the time source frame deltas are measured with.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Runner drives the frame loop of one benchmark run: it renders the
// workload into a graphics context, presents it, and feeds the wall-clock
// time between presented frames into a measurement session.
//
// The render-target configuration is validated before the first frame and
// after every resize (tracked through gfx.Context.Generation). A frame whose
// target is incomplete, or unbound on a backend that describes its target,
// is not presented and not measured.
//
// A Runner is not safe for concurrent use.
type Runner struct {
	gc   *gfx.Context
	sess *session.Session
	opts runnerOptions

	started   bool
	stopped   bool
	validated bool
	gen       uint64
	frame     int
	last      time.Time
}

// NewRunner creates a runner for gc. The context is not touched until Start.
func NewRunner(gc *gfx.Context, opts ...Option) *Runner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner{
		gc:   gc,
		sess: session.New(o.session...),
		opts: o,
	}
}

// Context returns the graphics context the runner renders into.
func (r *Runner) Context() *gfx.Context { return r.gc }

// Session returns the measurement session.
func (r *Runner) Session() *session.Session { return r.sess }

// Start begins measuring. The context must be Active. Calling Start on a
// running Runner is a no-op.
func (r *Runner) Start() error {
	if r.stopped {
		return ErrFinished
	}
	if r.started {
		return nil
	}
	if !r.gc.Active() {
		return fmt.Errorf("gpumark: start: %w", gfx.ErrNotActive)
	}
	if err := r.sess.StartMeasure(); err != nil {
		return err
	}
	r.started = true
	r.validated = false
	r.frame = 0
	r.last = r.opts.clock.Now()

	Logger().Info("gpumark: run started",
		"backend", r.gc.Backend().Name(),
		"width", r.gc.Width(), "height", r.gc.Height(), "vsync", r.gc.VSync(),
		"frames", r.opts.frameLimit, "duration", r.opts.duration)
	return nil
}

// Done reports whether the frame limit or duration has been reached.
func (r *Runner) Done() bool {
	if r.stopped {
		return true
	}
	if r.opts.frameLimit > 0 && r.sess.Frames() >= r.opts.frameLimit {
		return true
	}
	if r.opts.duration > 0 && r.sess.Elapsed() >= r.opts.duration.Seconds() {
		return true
	}
	return false
}

// Step renders, presents and measures one frame.
func (r *Runner) Step() error {
	if !r.started {
		return ErrNotStarted
	}
	if r.Done() {
		return ErrFinished
	}

	if gen := r.gc.Generation(); !r.validated || gen != r.gen {
		if r.gc.DescribesFramebuffer() {
			if err := framebuffer.Validate(r.gc.Framebuffer()); err != nil {
				return err
			}
		}
		r.validated = true
		r.gen = gen
	}

	if r.opts.workload != nil {
		if err := r.opts.workload.Frame(r.gc, r.frame); err != nil {
			return fmt.Errorf("gpumark: workload frame %d: %w", r.frame, err)
		}
	}
	if err := r.gc.Swap(); err != nil {
		return err
	}

	now := r.opts.clock.Now()
	dt := now.Sub(r.last).Seconds()
	r.last = now
	r.frame++
	return r.sess.OnFrame(dt)
}

// Resume restarts frame timing after a gap in the frame loop, such as a
// period without focus. The next Step measures from Resume instead of from
// the last presented frame.
func (r *Runner) Resume() {
	r.last = r.opts.clock.Now()
}

// Stop ends the run and returns the finalized result. Stop is idempotent
// and may be called before Start, which yields an empty result.
func (r *Runner) Stop() session.Result {
	first := !r.stopped
	r.stopped = true
	res := r.sess.EndMeasure()
	if first {
		Logger().Info("gpumark: run ended",
			"score", res.Score, "elapsed", res.Duration.Sum, "fps_avg", res.Rate.Mean)
	}
	return res
}

// Run starts the runner if needed and steps until the frame limit or
// duration is reached, a frame fails, or ctx is canceled. It always stops
// the runner and returns the result collected so far, together with the
// error that ended the run early (ctx.Err() on cancellation).
func (r *Runner) Run(ctx context.Context) (session.Result, error) {
	if err := r.Start(); err != nil {
		return r.Stop(), err
	}
	for !r.Done() {
		select {
		case <-ctx.Done():
			return r.Stop(), ctx.Err()
		default:
		}
		if err := r.Step(); err != nil {
			return r.Stop(), err
		}
	}
	return r.Stop(), nil
}
