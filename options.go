package gpumark

import (
	"time"

	"github.com/gogpu/gpumark/session"
)

// Option configures a Runner.
//
// Example:
//
//	r := gpumark.NewRunner(gc,
//	    gpumark.WithDuration(10*time.Second),
//	    gpumark.WithSessionOptions(session.WithSamplingWindow(0.5)),
//	)
type Option func(*runnerOptions)

type runnerOptions struct {
	clock      Clock
	workload   Workload
	session    []session.Option
	frameLimit int
	duration   time.Duration
}

func defaultOptions() runnerOptions {
	return runnerOptions{
		clock:    systemClock{},
		workload: NewClearCycle(),
	}
}

// WithClock sets the time source frame deltas are measured with.
// Tests use it to make runs deterministic.
func WithClock(c Clock) Option {
	return func(o *runnerOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithWorkload sets what is rendered on every frame. The default is a
// ClearCycle. Pass nil to present frames without any workload.
func WithWorkload(w Workload) Option {
	return func(o *runnerOptions) {
		o.workload = w
	}
}

// WithSessionOptions passes options to the measurement session.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *runnerOptions) {
		o.session = append(o.session, opts...)
	}
}

// WithFrameLimit ends the run after n measured frames. Zero means no limit.
func WithFrameLimit(n int) Option {
	return func(o *runnerOptions) {
		if n >= 0 {
			o.frameLimit = n
		}
	}
}

// WithDuration ends the run once the measured frame time reaches d.
// Zero means no limit. With neither a frame limit nor a duration, Run
// continues until its context is canceled.
func WithDuration(d time.Duration) Option {
	return func(o *runnerOptions) {
		if d >= 0 {
			o.duration = d
		}
	}
}
