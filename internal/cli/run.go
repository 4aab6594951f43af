package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/spf13/cobra"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/asset"
	"github.com/gogpu/gpumark/gfx"
	"github.com/gogpu/gpumark/gfx/headless"
	"github.com/gogpu/gpumark/gfx/wgpu"
	"github.com/gogpu/gpumark/internal/config"
	"github.com/gogpu/gpumark/platform"
	"github.com/gogpu/gpumark/report"
	"github.com/gogpu/gpumark/session"
)

func (a *app) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark and write a report",
		Long: `Run brings up the selected backend, renders until the frame limit or
duration is reached (or until interrupted), and writes the report as JSON or
text. Without --backend the highest-priority available backend is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.run(ctx, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringP("backend", "b", "", "backend name (see 'gpumark backends')")
	f.Int("width", 0, "drawable width (0 = backend default)")
	f.Int("height", 0, "drawable height (0 = backend default)")
	f.Bool("vsync", false, "pace frames to the display refresh")
	f.IntP("frames", "n", 0, "stop after this many frames (0 = no limit)")
	f.DurationP("duration", "d", 10*time.Second, "stop after this much frame time (0 = no limit)")
	f.Float64("sampling-window", 1, "frame-rate sampling window in seconds")
	f.String("asset-dir", ".", "directory shader and texture paths are relative to")
	f.String("shader", "", "WGSL workload shader (GPU backends)")
	f.String("texture", "", "texture image uploaded at bring-up (GPU backends)")
	f.Int("texture-size", 0, "resample the texture to SIZE x SIZE (0 = image size)")
	f.StringP("output", "o", "", "report file (default stdout)")
	f.StringP("format", "f", config.FormatJSON, "report format: json or text")
	f.String("metrics-file", "", "also write metrics in Prometheus textfile format")
	return cmd
}

func (a *app) run(ctx context.Context, stdout io.Writer) error {
	cfg := a.cfg
	factory, err := backendFactory(cfg)
	if err != nil {
		return err
	}

	gcfg := gfx.Config{Width: cfg.Width, Height: cfg.Height, VSync: cfg.VSync}
	host := platform.NewHost(factory, gcfg,
		gpumark.WithFrameLimit(cfg.Frames),
		gpumark.WithDuration(cfg.Duration),
		gpumark.WithSessionOptions(session.WithSamplingWindow(cfg.SamplingWindow)),
	)

	host.Handle(platform.Event{Kind: platform.WindowCreated, Window: window(cfg)})
	gc := host.Context()
	if gc == nil {
		return fmt.Errorf("bring-up: %w", host.Err())
	}
	dev := gc.DeviceInfo()
	info := report.PlatformInfo{
		Vendor:          dev.Vendor,
		Renderer:        dev.Renderer,
		Version:         dev.Version,
		ShadingLanguage: dev.ShadingLanguage,
		Backend:         gc.Backend().Name(),
	}
	runCfg := report.RunConfig{
		Width:          gc.Width(),
		Height:         gc.Height(),
		VSync:          gc.VSync(),
		SamplingWindow: cfg.SamplingWindow,
	}

	res, err := host.Run(ctx, platform.Queue())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	rep := report.Build(res, info, report.WithRunConfig(runCfg))
	if err := writeReport(rep, cfg, stdout); err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err := rep.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}

// window is the native handle handed to the backend. The headless backend
// reads its size from it; GPU backends render offscreen and ignore it.
func window(cfg *config.Config) headless.Window {
	w := headless.Window{Width: cfg.Width, Height: cfg.Height}
	if w.Width == 0 || w.Height == 0 {
		w.Width, w.Height = headless.DefaultWidth, headless.DefaultHeight
	}
	return w
}

// backendFactory resolves the configured backend. A shader or texture
// needs a GPU backend, which is then built directly so the workload can be
// attached.
func backendFactory(cfg *config.Config) (platform.BackendFactory, error) {
	name := cfg.Backend
	if cfg.Shader == "" && cfg.Texture == "" {
		if name == "" {
			return gfx.Default, nil
		}
		return func() (gfx.Backend, error) { return gfx.New(name) }, nil
	}

	opts, err := workloadOptions(cfg)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = wgpu.NameNoop
		for _, n := range gfx.Available() {
			if n == wgpu.NameVulkan {
				name = n
				break
			}
		}
	}
	switch name {
	case wgpu.NameVulkan:
		opts = append([]wgpu.Option{wgpu.WithVariant(gputypes.BackendVulkan)}, opts...)
	case wgpu.NameNoop:
		opts = append([]wgpu.Option{wgpu.WithHAL(noop.API{})}, opts...)
	default:
		return nil, fmt.Errorf("backend %q does not run shader or texture workloads", name)
	}
	return func() (gfx.Backend, error) { return wgpu.New(opts...), nil }, nil
}

func workloadOptions(cfg *config.Config) ([]wgpu.Option, error) {
	loader := asset.NewDir(cfg.AssetDir)
	var opts []wgpu.Option
	if cfg.Shader != "" {
		src, err := loader.LoadText(cfg.Shader)
		if err != nil {
			return nil, err
		}
		opts = append(opts, wgpu.WithShaderSource(src))
	}
	if cfg.Texture != "" {
		img, err := loadTexture(loader, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, wgpu.WithTexture(img.Rect.Dx(), img.Rect.Dy(), img.Pix))
	}
	return opts, nil
}

func loadTexture(loader *asset.Loader, cfg *config.Config) (*image.RGBA, error) {
	if cfg.TextureSize > 0 {
		return loader.LoadImageSize(cfg.Texture, cfg.TextureSize, cfg.TextureSize)
	}
	return loader.LoadImage(cfg.Texture)
}

func writeReport(rep *report.Report, cfg *config.Config, stdout io.Writer) (err error) {
	w := stdout
	if cfg.Output != "" {
		f, cerr := os.Create(cfg.Output)
		if cerr != nil {
			return fmt.Errorf("create report: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	if cfg.Format == config.FormatText {
		return rep.WriteText(w)
	}
	return rep.WriteJSON(w)
}
