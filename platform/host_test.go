package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/gfx"
	"github.com/gogpu/gpumark/gfx/headless"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(10 * time.Millisecond)
	return c.now
}

func headlessFactory() (gfx.Backend, error) { return headless.New(), nil }

func newHost(opts ...gpumark.Option) *Host {
	opts = append([]gpumark.Option{gpumark.WithClock(&stepClock{})}, opts...)
	return NewHost(headlessFactory, gfx.Config{Width: 32, Height: 32}, opts...)
}

var window = headless.Window{Width: 64, Height: 48}

func TestHostRunToCompletion(t *testing.T) {
	h := newHost(gpumark.WithFrameLimit(10))
	res, err := h.Run(context.Background(), Queue(Event{Kind: WindowCreated, Window: window}))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if res.Score != 10 {
		t.Errorf("Score = %d, want 10", res.Score)
	}
	if h.Context() != nil || h.Animating() {
		t.Error("host not torn down after Run")
	}
}

func TestHostBringUpFailure(t *testing.T) {
	h := newHost()
	h.Handle(Event{Kind: WindowCreated, Window: headless.NoDisplay})
	if h.Context() != nil || h.Animating() {
		t.Fatal("host became active without a display")
	}
	if !errors.Is(h.Err(), gfx.ErrSurfaceUnavailable) {
		t.Errorf("Err() = %v, want ErrSurfaceUnavailable", h.Err())
	}

	events := make(chan Event, 1)
	events <- Event{Kind: FocusGained}
	close(events)
	if _, err := h.Run(context.Background(), events); !errors.Is(err, gfx.ErrSurfaceUnavailable) {
		t.Errorf("Run() = %v", err)
	}
}

func TestHostBackendFactoryError(t *testing.T) {
	h := NewHost(func() (gfx.Backend, error) { return gfx.New("no-such-backend") }, gfx.Config{})
	h.Handle(Event{Kind: WindowCreated, Window: window})
	if !errors.Is(h.Err(), gfx.ErrBackendNotAvailable) {
		t.Errorf("Err() = %v", h.Err())
	}
}

func TestHostNilWindowIgnored(t *testing.T) {
	h := newHost()
	h.Handle(Event{Kind: WindowCreated})
	if h.Context() != nil || h.Err() != nil {
		t.Errorf("nil window handled: ctx=%v err=%v", h.Context(), h.Err())
	}
}

func TestHostFocusAndWindowEvents(t *testing.T) {
	h := newHost()
	h.Handle(Event{Kind: WindowCreated, Window: window})
	if !h.Animating() || h.Context() == nil || !h.Context().Active() {
		t.Fatal("window creation did not start the run")
	}
	for i := 0; i < 3; i++ {
		h.step()
	}

	h.Handle(Event{Kind: FocusLost})
	if h.Animating() {
		t.Error("still animating after focus lost")
	}
	h.Handle(Event{Kind: FocusGained})
	if !h.Animating() {
		t.Error("not animating after focus gained")
	}
	h.step()

	gc := h.Context()
	h.Handle(Event{Kind: WindowDestroyed})
	if h.Animating() || h.Context() != nil {
		t.Error("window destroyed but host still active")
	}
	if gc.State() != gfx.Destroyed {
		t.Errorf("context state = %v, want destroyed", gc.State())
	}
	if h.Result().Score != 4 {
		t.Errorf("Score = %d, want 4", h.Result().Score)
	}

	// Focus without a window does not animate.
	h.Handle(Event{Kind: FocusGained})
	if h.Animating() {
		t.Error("animating without a window")
	}
}

func TestHostInputEndsRun(t *testing.T) {
	h := newHost()
	h.Handle(Event{Kind: WindowCreated, Window: window})
	h.step()
	h.step()
	h.Handle(Event{Kind: Input})
	if !h.Quit() || h.Animating() {
		t.Error("input did not end the run")
	}
	if h.Result().Score != 2 {
		t.Errorf("Score = %d, want 2", h.Result().Score)
	}
}

func TestHostDestroyRequested(t *testing.T) {
	h := newHost()
	events := Queue(
		Event{Kind: WindowCreated, Window: window},
		Event{Kind: DestroyRequested},
	)
	res, err := h.Run(context.Background(), events)
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if res.Score != 0 {
		t.Errorf("Score = %d; destroy was pending before the first frame", res.Score)
	}
}

func TestHostCanceled(t *testing.T) {
	h := newHost()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := h.Run(ctx, Queue()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
}

func TestHostCanceledWhileAnimating(t *testing.T) {
	h := newHost()
	ctx, cancel := context.WithCancel(context.Background())
	h.Handle(Event{Kind: WindowCreated, Window: window})
	cancel()
	if _, err := h.Run(ctx, Queue()); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v", err)
	}
	if h.Context() != nil {
		t.Error("context not destroyed on cancel")
	}
}

func TestEventKindString(t *testing.T) {
	if got := FocusLost.String(); got != "focus-lost" {
		t.Errorf("FocusLost = %q", got)
	}
	if got := EventKind(99).String(); got != "EventKind(99)" {
		t.Errorf("EventKind(99) = %q", got)
	}
}
