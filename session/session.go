// Package session implements a timed benchmark run.
//
// A Session consumes frame durations pushed by the frame loop and keeps two
// statistic tracks: frame duration (one sample per frame) and frame rate (one
// sample per sampling window). It holds no reference to the graphics context
// and can be exercised without any rendering backend.
//
// State machine:
//
//	Idle --StartMeasure--> Running --EndMeasure--> Ended --Reset--> Idle
//
// Reset may be called from any state. EndMeasure from Idle finalizes an
// empty run.
package session

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gpumark/stats"
)

// Errors returned by Session operations.
var (
	// ErrInvalidDelta is returned by OnFrame for negative, NaN or infinite
	// frame durations. The sample is not recorded.
	ErrInvalidDelta = errors.New("session: invalid frame delta")

	// ErrEnded is returned by StartMeasure on a session that already ended.
	// Call Reset to start a new run.
	ErrEnded = errors.New("session: measurement already ended")
)

// State is the lifecycle state of a Session.
type State int

const (
	// Idle is the state after construction or Reset.
	Idle State = iota
	// Running is the state between StartMeasure and EndMeasure.
	Running
	// Ended is the state after EndMeasure.
	Ended
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the finalized outcome of a session.
//
// Duration is in seconds per frame, Rate in frames per second. Score is
// the number of frames observed while Running.
type Result struct {
	Score    int
	Duration stats.Summary
	Rate     stats.Summary
}

// Option configures a Session.
type Option func(*options)

type options struct {
	window float64
}

// WithSamplingWindow sets the frame-rate sampling window in seconds.
// Non-positive values select stats.DefaultWindow.
func WithSamplingWindow(seconds float64) Option {
	return func(o *options) {
		o.window = seconds
	}
}

// Session is a single benchmark run. It is not safe for concurrent use; the
// goroutine that drives the frame loop owns it.
type Session struct {
	state State

	duration *stats.Running
	rate     *stats.Running
	sampler  *stats.RateSampler

	result Result
}

// New creates a session in the Idle state.
func New(opts ...Option) *Session {
	o := options{window: stats.DefaultWindow}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Session{
		duration: stats.NewRunning(),
		rate:     stats.NewRunning(),
		sampler:  stats.NewRateSampler(o.window),
	}
	s.Reset()
	return s
}

// Reset discards all accumulated samples and returns the session to Idle.
func (s *Session) Reset() {
	s.state = Idle
	s.duration.Reset()
	s.rate.Reset()
	s.sampler.Reset()
	s.result = Result{}
}

// StartMeasure moves an Idle session to Running.
//
// Calling StartMeasure while already Running is a no-op: accumulated
// samples are kept and the run continues. Calling it on an Ended session
// returns ErrEnded.
func (s *Session) StartMeasure() error {
	switch s.state {
	case Idle:
		s.state = Running
		return nil
	case Running:
		return nil
	default:
		return ErrEnded
	}
}

// OnFrame records one frame that took dt seconds. Outside Running the frame
// is ignored. Invalid durations are rejected with ErrInvalidDelta in every
// state.
func (s *Session) OnFrame(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	if s.state != Running {
		return nil
	}

	s.duration.Observe(dt)
	s.sampler.Update(dt)
	if s.sampler.JustUpdated() {
		s.rate.Observe(s.sampler.Current())
	}
	return nil
}

// EndMeasure finalizes the run and moves the session to Ended. Ending an
// Idle session yields an empty result. Ending an already Ended session
// returns the existing result unchanged.
func (s *Session) EndMeasure() Result {
	if s.state == Ended {
		return s.result
	}
	s.state = Ended
	s.result = Result{
		Score:    s.duration.Count(),
		Duration: s.duration.Finalize(),
		Rate:     s.rate.Finalize(),
	}
	return s.result
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Result returns the finalized result. Before EndMeasure it is zero.
func (s *Session) Result() Result { return s.result }

// Score returns the finalized frame count. Before EndMeasure it is zero.
func (s *Session) Score() int { return s.result.Score }

// Frames returns the number of frames observed so far in this run.
func (s *Session) Frames() int { return s.duration.Count() }

// Elapsed returns the accumulated frame time of this run in seconds.
func (s *Session) Elapsed() float64 { return s.duration.Sum() }

// SamplingWindow returns the frame-rate sampling window in seconds.
func (s *Session) SamplingWindow() float64 { return s.sampler.Window() }
