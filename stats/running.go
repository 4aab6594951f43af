// Package stats provides the numeric building blocks of a benchmark run:
// running summary statistics over a stream of samples and a periodic
// frame-rate sampler.
//
// Both types are plain values with no internal locking. They are meant to be
// owned by the single goroutine that drives the frame loop.
package stats

import "math"

// Summary is the finalized view of a Running accumulator.
// A zero Summary describes an empty stream.
type Summary struct {
	Count  int
	Sum    float64
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Running accumulates count, sum, min and max of a stream of samples, and a
// Welford second moment so the population standard deviation can be computed
// without retaining the samples.
//
// The zero value is not ready for use; call Reset (or use NewRunning).
type Running struct {
	count int
	sum   float64
	min   float64
	max   float64

	// Welford state.
	mean float64
	m2   float64
}

// NewRunning returns a reset accumulator.
func NewRunning() *Running {
	r := &Running{}
	r.Reset()
	return r
}

// Reset clears all accumulated state. Min and max are set to +Inf and -Inf
// so the first Observe updates both.
func (r *Running) Reset() {
	r.count = 0
	r.sum = 0
	r.min = math.Inf(1)
	r.max = math.Inf(-1)
	r.mean = 0
	r.m2 = 0
}

// Observe adds one sample. The value must be finite; Observe does not
// validate its input.
func (r *Running) Observe(v float64) {
	r.count++
	r.sum += v
	if v < r.min {
		r.min = v
	}
	if v > r.max {
		r.max = v
	}

	delta := v - r.mean
	r.mean += delta / float64(r.count)
	r.m2 += delta * (v - r.mean)
}

// Count returns the number of observed samples.
func (r *Running) Count() int { return r.count }

// Sum returns the sum of observed samples.
func (r *Running) Sum() float64 { return r.sum }

// Min returns the smallest observed sample, or 0 if nothing was observed.
func (r *Running) Min() float64 {
	if r.count == 0 {
		return 0
	}
	return r.min
}

// Max returns the largest observed sample, or 0 if nothing was observed.
func (r *Running) Max() float64 {
	if r.count == 0 {
		return 0
	}
	return r.max
}

// Finalize computes the mean and the population standard deviation
// (divisor N) of everything observed so far. An empty accumulator yields a
// zero Summary. Finalize does not modify the accumulator.
func (r *Running) Finalize() Summary {
	if r.count == 0 {
		return Summary{}
	}
	n := float64(r.count)
	return Summary{
		Count:  r.count,
		Sum:    r.sum,
		Mean:   r.sum / n,
		StdDev: math.Sqrt(r.m2 / n),
		Min:    r.min,
		Max:    r.max,
	}
}
