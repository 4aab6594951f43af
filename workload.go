package gpumark

import (
	"math"

	"github.com/gogpu/gpumark/gfx"
)

// Workload renders one frame into an Active context. It is called before
// every Swap; frame counts from zero at Start.
type Workload interface {
	Frame(gc *gfx.Context, frame int) error
}

// WorkloadFunc adapts a function to the Workload interface.
type WorkloadFunc func(gc *gfx.Context, frame int) error

// Frame calls f(gc, frame).
func (f WorkloadFunc) Frame(gc *gfx.Context, frame int) error { return f(gc, frame) }

// ClearCycle is the default workload. It clears every frame to a color that
// cycles through the hue wheel, so each frame writes the whole drawable.
// Backends that do not implement gfx.Clearer present their default clear.
type ClearCycle struct {
	// Period is the number of frames per full hue cycle.
	Period int
}

// NewClearCycle returns a ClearCycle with a 360-frame period.
func NewClearCycle() *ClearCycle { return &ClearCycle{Period: 360} }

// Frame implements Workload.
func (c *ClearCycle) Frame(gc *gfx.Context, frame int) error {
	cl, ok := gc.Backend().(gfx.Clearer)
	if !ok {
		return nil
	}
	period := c.Period
	if period <= 0 {
		period = 360
	}
	h := float64(frame%period) / float64(period)
	r, g, b := hueToRGB(h)
	cl.SetClearColor(r, g, b, 1)
	return nil
}

// hueToRGB converts a hue in [0, 1) at full saturation and value.
func hueToRGB(h float64) (r, g, b float64) {
	h6 := h * 6
	x := 1 - math.Abs(math.Mod(h6, 2)-1)
	switch int(h6) % 6 {
	case 0:
		return 1, x, 0
	case 1:
		return x, 1, 0
	case 2:
		return 0, 1, x
	case 3:
		return 0, x, 1
	case 4:
		return x, 0, 1
	default:
		return 1, 0, x
	}
}
