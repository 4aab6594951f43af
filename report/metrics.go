package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gpumark"

// metrics are the gauges exported for one report, registered in a private
// registry so repeated exports never collide.
type metrics struct {
	registry  *prometheus.Registry
	score     prometheus.Gauge
	elapsed   prometheus.Gauge
	fps       *prometheus.GaugeVec
	frameTime *prometheus.GaugeVec
	info      *prometheus.GaugeVec
}

func (r *Report) metrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score_frames",
			Help:      "Frames rendered during the measured run.",
		}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elapsed_seconds",
			Help:      "Accumulated frame time of the measured run.",
		}),
		fps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_rate_fps",
			Help:      "Sampled frame rate statistics.",
		}, []string{"stat"}),
		frameTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_time_milliseconds",
			Help:      "Per-frame duration statistics.",
		}, []string{"stat"}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_info",
			Help:      "Run metadata; always 1.",
		}, []string{"run_id", "backend", "renderer"}),
	}
	m.registry.MustRegister(m.score, m.elapsed, m.fps, m.frameTime, m.info)

	b := r.Bench
	m.score.Set(float64(b.Score))
	m.elapsed.Set(b.ElapsedSec)
	for stat, v := range map[string]float64{"avg": b.FPSAvg, "stddev": b.FPSStdDev, "best": b.FPSBest, "worst": b.FPSWorst} {
		m.fps.WithLabelValues(stat).Set(v)
	}
	for stat, v := range map[string]float64{"avg": b.SPFAvg, "stddev": b.SPFStdDev, "best": b.SPFBest, "worst": b.SPFWorst} {
		m.frameTime.WithLabelValues(stat).Set(v)
	}
	m.info.WithLabelValues(r.RunID, r.Platform.Backend, r.Platform.Renderer).Set(1)
	return m
}

// Gatherer returns a registry holding the report's metrics.
func (r *Report) Gatherer() prometheus.Gatherer { return r.metrics().registry }

// WriteTextfile writes the report's metrics in the Prometheus text format,
// for the node exporter textfile collector. The file is replaced atomically.
func (r *Report) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.Gatherer()); err != nil {
		return fmt.Errorf("report: write metrics %s: %w", path, err)
	}
	return nil
}
