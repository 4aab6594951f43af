package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteText writes a human-readable summary. Color is applied only when
// fatih/color decides the output supports it.
func (r *Report) WriteText(w io.Writer) error {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	score := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	p := message.NewPrinter(language.English)
	b := r.Bench

	if _, err := fmt.Fprintln(w, title("gpumark results")); err != nil {
		return err
	}
	lines := []string{
		fmt.Sprintf("%s %s", dim("Run:"), r.RunID),
		fmt.Sprintf("%s %s / %s", dim("Renderer:"), r.Platform.Renderer, r.Platform.Vendor),
		fmt.Sprintf("%s %s (%s)", dim("Backend:"), r.Platform.Backend, r.Platform.Version),
	}
	if r.Config != nil {
		lines = append(lines, fmt.Sprintf("%s %dx%d vsync=%t window=%gs", dim("Config:"),
			r.Config.Width, r.Config.Height, r.Config.VSync, r.Config.SamplingWindow))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Score: %s frames in %s s", score(p.Sprintf("%d", b.Score)), p.Sprintf("%.2f", b.ElapsedSec)),
		"",
		"| Metric | Avg | StdDev | Best | Worst |",
		"|--------|-----|--------|------|-------|",
		p.Sprintf("| FPS | %.2f | %.2f | %.2f | %.2f |", b.FPSAvg, b.FPSStdDev, b.FPSBest, b.FPSWorst),
		p.Sprintf("| SPF (ms) | %.3f | %.3f | %.3f | %.3f |", b.SPFAvg, b.SPFStdDev, b.SPFBest, b.SPFWorst),
	)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
