package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gogpu/gpumark/session"
	"github.com/gogpu/gpumark/stats"
)

func sampleResult() session.Result {
	return session.Result{
		Score:    120,
		Duration: stats.Summary{Count: 120, Sum: 2, Mean: 1.0 / 60, StdDev: 0.002, Min: 0.010, Max: 0.025},
		Rate:     stats.Summary{Count: 2, Sum: 120, Mean: 60, StdDev: 1.5, Min: 58.5, Max: 61.5},
	}
}

var samplePlatform = PlatformInfo{
	Vendor:          "gogpu",
	Renderer:        "headless (cpu)",
	Version:         "1.0",
	ShadingLanguage: "none",
	Backend:         "headless",
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuild(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := Build(sampleResult(), samplePlatform,
		WithRunID("run-1"), WithTimestamp(ts),
		WithRunConfig(RunConfig{Width: 640, Height: 480, SamplingWindow: 1}))

	if r.RunID != "run-1" || !r.Timestamp.Equal(ts) {
		t.Errorf("RunID/Timestamp = %q/%v", r.RunID, r.Timestamp)
	}
	b := r.Bench
	if b.Score != 120 || !near(b.ElapsedSec, 2) {
		t.Errorf("Score/Elapsed = %d/%v", b.Score, b.ElapsedSec)
	}
	if !near(b.FPSBest, 61.5) || !near(b.FPSWorst, 58.5) || !near(b.FPSAvg, 60) {
		t.Errorf("FPS best/worst/avg = %v/%v/%v", b.FPSBest, b.FPSWorst, b.FPSAvg)
	}
	if !near(b.SPFBest, 10) || !near(b.SPFWorst, 25) || !near(b.SPFStdDev, 2) {
		t.Errorf("SPF best/worst/stddev = %v/%v/%v ms", b.SPFBest, b.SPFWorst, b.SPFStdDev)
	}
	if r.Config == nil || r.Config.Width != 640 {
		t.Errorf("Config = %+v", r.Config)
	}
}

func TestBuildDefaults(t *testing.T) {
	before := time.Now()
	r := Build(session.Result{}, PlatformInfo{})
	if _, err := uuid.Parse(r.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", r.RunID, err)
	}
	if r.Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("Timestamp = %v", r.Timestamp)
	}
	if r.Bench != (BenchInfo{}) {
		t.Errorf("empty result gave %+v", r.Bench)
	}
	if other := Build(session.Result{}, PlatformInfo{}); other.RunID == r.RunID {
		t.Error("two reports share a run ID")
	}
}

func TestWriteJSON(t *testing.T) {
	r := Build(sampleResult(), samplePlatform, WithRunID("run-1"))
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	doc := map[string]map[string]any{}
	for _, k := range []string{"Platform", "BenchInfo"} {
		m := map[string]any{}
		if err := json.Unmarshal(raw[k], &m); err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		doc[k] = m
	}
	for _, k := range []string{"score", "FPSavg", "FPSstddev", "FPSbest", "FPSworst", "SPFavg", "SPFstddev", "SPFbest", "SPFworst"} {
		if _, ok := doc["BenchInfo"][k]; !ok {
			t.Errorf("BenchInfo has no %q", k)
		}
	}
	if doc["Platform"]["Renderer"] != "headless (cpu)" {
		t.Errorf("Platform.Renderer = %v", doc["Platform"]["Renderer"])
	}
	if _, ok := raw["config"]; ok {
		t.Error("config present without WithRunConfig")
	}
	if !strings.Contains(buf.String(), "\n  \"runId\"") {
		t.Errorf("output is not indented:\n%s", buf.String())
	}
}

func TestValidate(t *testing.T) {
	r := Build(sampleResult(), samplePlatform, WithRunConfig(RunConfig{Width: 1, Height: 1, SamplingWindow: 0.5}))
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if err := Validate(buf.Bytes()); err != nil {
		t.Fatalf("Validate(own output) = %v", err)
	}

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"empty object", `{}`},
		{"negative score", strings.Replace(buf.String(), `"score": 120`, `"score": -1`, 1)},
		{"missing platform", `{"runId":"x","timestamp":"2026-01-01T00:00:00Z","BenchInfo":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate([]byte(tt.doc)); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestSchemaCopy(t *testing.T) {
	s := Schema()
	s[0] = 'x'
	if Schema()[0] == 'x' {
		t.Error("Schema returned the embedded slice")
	}
}

func TestWriteText(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	res := sampleResult()
	res.Score = 12345
	r := Build(res, samplePlatform, WithRunID("run-1"),
		WithRunConfig(RunConfig{Width: 640, Height: 480, VSync: true, SamplingWindow: 1}))
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"gpumark results",
		"Run: run-1",
		"headless (cpu) / gogpu",
		"640x480 vsync=true",
		"Score: 12,345 frames",
		"| FPS | 60.00 | 1.50 | 61.50 | 58.50 |",
		"| SPF (ms) | 16.667 | 2.000 | 10.000 | 25.000 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMetrics(t *testing.T) {
	r := Build(sampleResult(), samplePlatform, WithRunID("run-1"))
	m := r.metrics()

	if got := testutil.ToFloat64(m.score); got != 120 {
		t.Errorf("score = %v", got)
	}
	if got := testutil.ToFloat64(m.fps.WithLabelValues("best")); !near(got, 61.5) {
		t.Errorf("fps best = %v", got)
	}
	if got := testutil.ToFloat64(m.frameTime.WithLabelValues("worst")); !near(got, 25) {
		t.Errorf("frame time worst = %v", got)
	}
	if n := testutil.CollectAndCount(m.fps); n != 4 {
		t.Errorf("fps series = %d, want 4", n)
	}
	if got := testutil.ToFloat64(m.info.WithLabelValues("run-1", "headless", "headless (cpu)")); got != 1 {
		t.Errorf("run_info = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpumark.prom")
	r := Build(sampleResult(), samplePlatform, WithRunID("run-1"))
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"gpumark_score_frames 120",
		`gpumark_frame_rate_fps{stat="avg"} 60`,
		`gpumark_run_info{backend="headless",renderer="headless (cpu)",run_id="run-1"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}

	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("WriteTextfile into a missing directory succeeded")
	}
}
