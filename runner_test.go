package gpumark

import (
	"context"
	"errors"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpumark/framebuffer"
	"github.com/gogpu/gpumark/gfx"
	"github.com/gogpu/gpumark/gfx/headless"
)

// fakeClock advances by step on every Now call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Unix(0, 0), step: step}
}

// stubBackend is a minimal backend with a configurable render target.
type stubBackend struct {
	target    *framebuffer.Target
	described int
	swaps     int
}

func (b *stubBackend) Name() string                     { return "stub" }
func (b *stubBackend) Create(any) (int, int, error)     { return 16, 16, nil }
func (b *stubBackend) Destroy()                         {}
func (b *stubBackend) Resize(int, int, bool) error      { return nil }
func (b *stubBackend) Swap() error                      { b.swaps++; return nil }
func (b *stubBackend) HasDisplay() bool                 { return true }
func (b *stubBackend) Framebuffer() *framebuffer.Target { b.described++; return b.target }

func completeTarget() *framebuffer.Target {
	return &framebuffer.Target{
		Label: "stub",
		Color: []framebuffer.Attachment{{Format: gputypes.TextureFormatRGBA8Unorm, Width: 16, Height: 16}},
	}
}

func activeContext(t *testing.T, b gfx.Backend) *gfx.Context {
	t.Helper()
	gc := gfx.NewContext(b, gfx.Config{Width: 32, Height: 16})
	if !gc.Acquire() {
		t.Fatalf("Acquire() failed: %v", gc.Err())
	}
	t.Cleanup(gc.Destroy)
	return gc
}

func TestRunnerFrameLimit(t *testing.T) {
	b := headless.New()
	gc := activeContext(t, b)
	r := NewRunner(gc, WithFrameLimit(100), WithClock(newClock(10*time.Millisecond)))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if res.Score != 100 {
		t.Errorf("Score = %d, want 100", res.Score)
	}
	if b.Frames() != 100 {
		t.Errorf("backend presented %d frames", b.Frames())
	}
	if math.Abs(res.Duration.Mean-0.01) > 1e-9 || res.Duration.StdDev > 1e-9 {
		t.Errorf("Duration = %+v", res.Duration)
	}
	if res.Rate.Count != 1 || math.Abs(res.Rate.Mean-100) > 1e-6 {
		t.Errorf("Rate = %+v, want one sample of 100 fps", res.Rate)
	}
	if !r.Done() {
		t.Error("Done() = false after Run")
	}
	if err := r.Step(); !errors.Is(err, ErrFinished) {
		t.Errorf("Step() after Run = %v, want ErrFinished", err)
	}
}

func TestRunnerDuration(t *testing.T) {
	gc := activeContext(t, headless.New())
	r := NewRunner(gc, WithDuration(time.Second), WithClock(newClock(125*time.Millisecond)))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if res.Score != 8 {
		t.Errorf("Score = %d, want 8", res.Score)
	}
	if res.Rate.Count != 1 || math.Abs(res.Rate.Mean-8) > 1e-9 {
		t.Errorf("Rate = %+v", res.Rate)
	}
}

func TestRunnerRequiresActiveContext(t *testing.T) {
	gc := gfx.NewContext(&stubBackend{}, gfx.Config{})
	if err := gc.Create(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(gc.Destroy)

	r := NewRunner(gc)
	if err := r.Step(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Step() before Start = %v, want ErrNotStarted", err)
	}
	if err := r.Start(); !errors.Is(err, gfx.ErrNotActive) {
		t.Errorf("Start() on Created context = %v, want ErrNotActive", err)
	}
	res, err := r.Run(context.Background())
	if !errors.Is(err, gfx.ErrNotActive) || res.Score != 0 {
		t.Errorf("Run() = %+v, %v", res, err)
	}
}

func TestRunnerIncompleteFramebuffer(t *testing.T) {
	b := &stubBackend{target: &framebuffer.Target{Label: "broken"}}
	gc := activeContext(t, b)
	r := NewRunner(gc, WithFrameLimit(10), WithClock(newClock(time.Millisecond)))

	res, err := r.Run(context.Background())
	var ie *framebuffer.IncompleteError
	if !errors.As(err, &ie) || ie.Status != framebuffer.StatusMissingAttachment {
		t.Fatalf("Run() error = %v, want missing attachment", err)
	}
	if b.swaps != 0 || res.Score != 0 {
		t.Errorf("incomplete target presented %d frames, score %d", b.swaps, res.Score)
	}
}

// opaqueBackend presents frames but cannot describe its render target.
type opaqueBackend struct{ swaps int }

func (b *opaqueBackend) Name() string                 { return "opaque" }
func (b *opaqueBackend) Create(any) (int, int, error) { return 16, 16, nil }
func (b *opaqueBackend) Destroy()                     {}
func (b *opaqueBackend) Resize(int, int, bool) error  { return nil }
func (b *opaqueBackend) Swap() error                  { b.swaps++; return nil }
func (b *opaqueBackend) HasDisplay() bool             { return true }

func TestRunnerUnboundFramebuffer(t *testing.T) {
	b := &stubBackend{}
	gc := activeContext(t, b)
	r := NewRunner(gc, WithFrameLimit(5), WithClock(newClock(time.Millisecond)))

	res, err := r.Run(context.Background())
	var ie *framebuffer.IncompleteError
	if !errors.As(err, &ie) || ie.Status != framebuffer.StatusUndefined {
		t.Fatalf("Run() error = %v, want undefined target", err)
	}
	if b.swaps != 0 || res.Score != 0 {
		t.Errorf("unbound target presented %d frames, score %d", b.swaps, res.Score)
	}
}

func TestRunnerOpaqueBackend(t *testing.T) {
	b := &opaqueBackend{}
	gc := activeContext(t, b)
	r := NewRunner(gc, WithFrameLimit(5), WithClock(newClock(time.Millisecond)))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if b.swaps != 5 || res.Score != 5 {
		t.Errorf("presented %d frames, score %d, want 5", b.swaps, res.Score)
	}
}

func TestRunnerRevalidatesAfterResize(t *testing.T) {
	b := &stubBackend{target: completeTarget()}
	gc := activeContext(t, b)
	r := NewRunner(gc, WithWorkload(nil), WithClock(newClock(time.Millisecond)))
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := r.Step(); err != nil {
			t.Fatalf("Step() = %v", err)
		}
	}
	if b.described != 1 {
		t.Errorf("target described %d times for an unchanged configuration", b.described)
	}

	if err := gc.Resize(64, 64, false); err != nil {
		t.Fatal(err)
	}
	if err := r.Step(); err != nil {
		t.Fatalf("Step() after resize = %v", err)
	}
	if b.described != 2 {
		t.Errorf("target described %d times after resize, want 2", b.described)
	}

	b.target = &framebuffer.Target{}
	if err := gc.Resize(8, 8, false); err != nil {
		t.Fatal(err)
	}
	if err := r.Step(); !errors.Is(err, framebuffer.ErrIncomplete) {
		t.Errorf("Step() with broken target = %v", err)
	}
	if got := r.Session().Frames(); got != 4 {
		t.Errorf("Frames() = %d, want 4", got)
	}
}

func TestRunnerCanceled(t *testing.T) {
	gc := activeContext(t, headless.New())
	r := NewRunner(gc, WithClock(newClock(time.Millisecond)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := r.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if res.Score != 0 {
		t.Errorf("Score = %d", res.Score)
	}
}

func TestRunnerStop(t *testing.T) {
	gc := activeContext(t, headless.New())
	r := NewRunner(gc, WithClock(newClock(20*time.Millisecond)))
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Errorf("second Start() = %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := r.Step(); err != nil {
			t.Fatal(err)
		}
	}
	first := r.Stop()
	if first.Score != 5 {
		t.Errorf("Score = %d, want 5", first.Score)
	}
	if again := r.Stop(); again != first {
		t.Errorf("second Stop() = %+v, want %+v", again, first)
	}
	if err := r.Start(); !errors.Is(err, ErrFinished) {
		t.Errorf("Start() after Stop = %v", err)
	}
	if err := r.Step(); !errors.Is(err, ErrFinished) {
		t.Errorf("Step() after Stop = %v", err)
	}
}

func TestRunnerResume(t *testing.T) {
	gc := activeContext(t, headless.New())
	clock := newClock(10 * time.Millisecond)
	r := NewRunner(gc, WithClock(clock))
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	clock.now = clock.now.Add(time.Hour)
	r.Resume()
	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	res := r.Stop()
	if res.Duration.Max > 0.0100001 {
		t.Errorf("gap leaked into frame time: max %v", res.Duration.Max)
	}
}

func TestRunnerWorkloadError(t *testing.T) {
	gc := activeContext(t, headless.New())
	boom := errors.New("boom")
	r := NewRunner(gc, WithWorkload(WorkloadFunc(func(*gfx.Context, int) error { return boom })))
	if _, err := r.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Run() = %v, want workload error", err)
	}
}

func TestClearCycle(t *testing.T) {
	b := headless.New()
	gc := activeContext(t, b)
	r := NewRunner(gc, WithFrameLimit(1), WithClock(newClock(time.Millisecond)))
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := b.Front().At(0, 0); got != (color.RGBA{R: 255, G: 0, B: 0, A: 255}) {
		t.Errorf("first frame = %v, want red", got)
	}

	// Backends without a clear color are left alone.
	if err := NewClearCycle().Frame(activeContext(t, &stubBackend{}), 3); err != nil {
		t.Errorf("Frame() = %v", err)
	}
}

func TestHueToRGB(t *testing.T) {
	tests := []struct {
		h       float64
		r, g, b float64
	}{
		{0, 1, 0, 0},
		{1.0 / 6, 1, 1, 0},
		{2.0 / 6, 0, 1, 0},
		{3.0 / 6, 0, 1, 1},
		{4.0 / 6, 0, 0, 1},
		{5.0 / 6, 1, 0, 1},
	}
	for _, tt := range tests {
		r, g, b := hueToRGB(tt.h)
		if math.Abs(r-tt.r) > 1e-9 || math.Abs(g-tt.g) > 1e-9 || math.Abs(b-tt.b) > 1e-9 {
			t.Errorf("hueToRGB(%v) = %v,%v,%v want %v,%v,%v", tt.h, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
