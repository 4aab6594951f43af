package stats

import (
	"math"
	"testing"
)

func TestRateSamplerSixtyFrames(t *testing.T) {
	s := NewRateSampler(1.0)

	events := 0
	var rate float64
	for i := 0; i < 60; i++ {
		s.Update(1.0 / 60.0)
		if s.JustUpdated() {
			events++
			rate = s.Current()
		}
	}

	if events != 1 {
		t.Fatalf("JustUpdated fired %d times, want 1", events)
	}
	if math.Abs(rate-60.0) > 1e-6 {
		t.Errorf("Current() = %v, want ~60", rate)
	}
}

func TestRateSamplerJustUpdatedOnlyOnCrossing(t *testing.T) {
	s := NewRateSampler(1.0)

	s.Update(0.6)
	if s.JustUpdated() {
		t.Fatal("JustUpdated true before the window closed")
	}
	s.Update(0.6)
	if !s.JustUpdated() {
		t.Fatal("JustUpdated false on the crossing update")
	}
	if got, want := s.Current(), 2/1.2; math.Abs(got-want) > 1e-12 {
		t.Errorf("Current() = %v, want %v", got, want)
	}
	s.Update(0.1)
	if s.JustUpdated() {
		t.Error("JustUpdated still true on the following update")
	}
}

func TestRateSamplerLongFrameEmitsOnce(t *testing.T) {
	s := NewRateSampler(1.0)

	// A 3.5 s hitch crosses the window several times over but is reported
	// as a single sample.
	s.Update(3.5)
	if !s.JustUpdated() {
		t.Fatal("expected a sample for the long frame")
	}
	if got, want := s.Current(), 1/3.5; math.Abs(got-want) > 1e-12 {
		t.Errorf("Current() = %v, want %v", got, want)
	}

	s.Update(0.01)
	if s.JustUpdated() {
		t.Error("long frame was split into more than one sample")
	}
}

func TestRateSamplerDefaultWindow(t *testing.T) {
	for _, w := range []float64{0, -1} {
		if got := NewRateSampler(w).Window(); got != DefaultWindow {
			t.Errorf("NewRateSampler(%v).Window() = %v, want %v", w, got, DefaultWindow)
		}
	}
}

func TestRateSamplerReset(t *testing.T) {
	s := NewRateSampler(0.5)
	s.Update(0.3)
	s.Reset()
	s.Update(0.3)
	if s.JustUpdated() {
		t.Error("partial window survived Reset")
	}
	if s.Current() != 0 {
		t.Errorf("Current() = %v after Reset, want 0", s.Current())
	}
}
