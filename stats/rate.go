package stats

// DefaultWindow is the sampling window of a RateSampler, in seconds.
const DefaultWindow = 1.0

// windowEpsilon absorbs float accumulation error so that, for example,
// sixty 1/60 s deltas close a one-second window.
const windowEpsilon = 1e-9

// RateSampler turns a stream of frame durations into periodic frame-rate
// samples: once the accumulated frame time crosses the window, it emits
// frames/elapsed for that window and starts a new one.
//
// A single delta longer than the window still emits exactly one sample.
// Long frames are not split across several windows.
type RateSampler struct {
	window float64

	elapsed float64
	frames  int

	current     float64
	justUpdated bool
}

// NewRateSampler creates a sampler with the given window in seconds.
// A non-positive window selects DefaultWindow.
func NewRateSampler(window float64) *RateSampler {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateSampler{window: window}
}

// Window returns the sampling window in seconds.
func (s *RateSampler) Window() float64 { return s.window }

// Update accounts for one frame that took dt seconds.
func (s *RateSampler) Update(dt float64) {
	s.justUpdated = false
	s.elapsed += dt
	s.frames++

	if s.elapsed <= 0 || s.elapsed+windowEpsilon < s.window {
		return
	}
	s.current = float64(s.frames) / s.elapsed
	s.justUpdated = true
	s.elapsed = 0
	s.frames = 0
}

// JustUpdated reports whether the last Update emitted a new sample.
func (s *RateSampler) JustUpdated() bool { return s.justUpdated }

// Current returns the most recently emitted rate in frames per second.
// It is only meaningful right after an Update for which JustUpdated is true.
func (s *RateSampler) Current() float64 { return s.current }

// Reset discards the partial window and the last sample.
func (s *RateSampler) Reset() {
	s.elapsed = 0
	s.frames = 0
	s.current = 0
	s.justUpdated = false
}
