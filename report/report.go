// Package report turns a finished benchmark session into the artifacts a
// run produces: a JSON document, a human-readable summary and a Prometheus
// textfile.
//
// The JSON layout keeps the field names benchmark dashboards already key on:
// a platform block describing the renderer and a BenchInfo block with the
// score, frame-rate statistics (FPS*) and frame-time statistics in
// milliseconds (SPF*).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/gpumark/session"
)

// PlatformInfo describes the device and backend a run was measured on.
type PlatformInfo struct {
	Vendor          string `json:"Vendor"`
	Renderer        string `json:"Renderer"`
	Version         string `json:"Version"`
	ShadingLanguage string `json:"ShadingLanguage"`
	Backend         string `json:"Backend"`
}

// BenchInfo holds the measured values. Best FPS is the highest sampled rate
// and best SPF the shortest frame; worst is the opposite end of each track.
type BenchInfo struct {
	Score      int     `json:"score"`
	ElapsedSec float64 `json:"elapsed"`

	FPSAvg    float64 `json:"FPSavg"`
	FPSStdDev float64 `json:"FPSstddev"`
	FPSBest   float64 `json:"FPSbest"`
	FPSWorst  float64 `json:"FPSworst"`

	SPFAvg    float64 `json:"SPFavg"`
	SPFStdDev float64 `json:"SPFstddev"`
	SPFBest   float64 `json:"SPFbest"`
	SPFWorst  float64 `json:"SPFworst"`
}

// RunConfig records the settings a run was made with.
type RunConfig struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	VSync          bool    `json:"vsync"`
	SamplingWindow float64 `json:"samplingWindow"`
}

// Report is a complete run report.
type Report struct {
	RunID     string       `json:"runId"`
	Timestamp time.Time    `json:"timestamp"`
	Platform  PlatformInfo `json:"Platform"`
	Bench     BenchInfo    `json:"BenchInfo"`
	Config    *RunConfig   `json:"config,omitempty"`
}

// Option configures Build.
type Option func(*Report)

// WithRunID sets the run ID instead of generating a random one.
func WithRunID(id string) Option {
	return func(r *Report) { r.RunID = id }
}

// WithTimestamp sets the report time. The default is the time of Build.
func WithTimestamp(t time.Time) Option {
	return func(r *Report) { r.Timestamp = t }
}

// WithRunConfig attaches the run settings.
func WithRunConfig(c RunConfig) Option {
	return func(r *Report) { r.Config = &c }
}

// Build creates a report from a finalized session result.
func Build(res session.Result, info PlatformInfo, opts ...Option) *Report {
	r := &Report{
		Platform: info,
		Bench: BenchInfo{
			Score:      res.Score,
			ElapsedSec: res.Duration.Sum,

			FPSAvg:    res.Rate.Mean,
			FPSStdDev: res.Rate.StdDev,
			FPSBest:   res.Rate.Max,
			FPSWorst:  res.Rate.Min,

			SPFAvg:    res.Duration.Mean * 1000,
			SPFStdDev: res.Duration.StdDev * 1000,
			SPFBest:   res.Duration.Min * 1000,
			SPFWorst:  res.Duration.Max * 1000,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return r
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return nil
}
