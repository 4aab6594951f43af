// Command gpumark runs the GPU rendering benchmark.
//
// Usage:
//
//	gpumark run --backend headless --frames 600 --format text
//	gpumark backends
//	gpumark validate report.json
package main

import (
	_ "github.com/gogpu/gpumark/gfx/headless" // register the CPU backend
	_ "github.com/gogpu/gpumark/gfx/wgpu"     // register the Vulkan and noop backends
	"github.com/gogpu/gpumark/internal/cli"
)

func main() {
	cli.Main()
}
