// Package metrics exports renderer activity as Prometheus metrics.
//
// A Collector registers its metrics with the Registerer it is created with, so
// several renderers can be observed side by side in one process. It implements
// frame.Observer and is wired into a renderer with wgrender.WithMetrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gogpu/wgrender/frame"
	"github.com/gogpu/wgrender/surface"
)

const namespace = "wgrender"

// Collector holds the renderer metrics.
type Collector struct {
	// FramesTotal counts frames by result.
	// Labels:
	//   - result: "submitted" or "failed"
	FramesTotal *prometheus.CounterVec

	// FrameFailuresTotal counts failed frames by reason.
	// Labels:
	//   - reason: "acquire", "builder", "timeout" or "other"
	FrameFailuresTotal *prometheus.CounterVec

	// FrameDuration measures acquire-to-present time.
	FrameDuration prometheus.Histogram

	// DrawCalls counts recorded draw calls.
	DrawCalls prometheus.Counter

	// PipelinesCreated counts compiled render pipelines.
	PipelinesCreated prometheus.Counter

	// SurfaceConfigurations counts surface (re)configurations.
	SurfaceConfigurations prometheus.Counter

	// SurfaceWidth and SurfaceHeight track the configured size.
	SurfaceWidth  prometheus.Gauge
	SurfaceHeight prometheus.Gauge
}

// New creates a Collector and registers it with reg. A nil reg registers
// nothing, which is useful in tests.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		FramesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "frame",
				Name:      "frames_total",
				Help:      "Total number of frames recorded, by result",
			},
			[]string{"result"},
		),
		FrameFailuresTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "frame",
				Name:      "failures_total",
				Help:      "Total number of failed frames, by reason",
			},
			[]string{"reason"},
		),
		FrameDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "frame",
				Name:      "duration_seconds",
				Help:      "Time from surface acquisition to present",
				// Buckets: 0.5ms to 250ms, around the 16.7ms vsync interval
				Buckets: []float64{
					0.0005, // 500μs
					0.001,  // 1ms
					0.002,  // 2ms
					0.004,  // 4ms
					0.008,  // 8ms
					0.0167, // 60 Hz
					0.0333, // 30 Hz
					0.05,   // 50ms
					0.1,    // 100ms
					0.25,   // 250ms
				},
			},
		),
		DrawCalls: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "frame",
				Name:      "draw_calls_total",
				Help:      "Total number of draw calls recorded in submitted frames",
			},
		),
		PipelinesCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "created_total",
				Help:      "Total number of render pipelines created",
			},
		),
		SurfaceConfigurations: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "surface",
				Name:      "configurations_total",
				Help:      "Total number of surface configurations applied",
			},
		),
		SurfaceWidth: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "surface",
				Name:      "width_pixels",
				Help:      "Configured surface width",
			},
		),
		SurfaceHeight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "surface",
				Name:      "height_pixels",
				Help:      "Configured surface height",
			},
		),
	}
}

// FrameSubmitted implements frame.Observer.
func (c *Collector) FrameSubmitted(stats frame.Stats, elapsed time.Duration) {
	c.FramesTotal.WithLabelValues("submitted").Inc()
	c.FrameDuration.Observe(elapsed.Seconds())
	c.DrawCalls.Add(float64(stats.Draws))
}

// FrameFailed implements frame.Observer.
func (c *Collector) FrameFailed(err error) {
	c.FramesTotal.WithLabelValues("failed").Inc()
	c.FrameFailuresTotal.WithLabelValues(failureReason(err)).Inc()
}

// PipelineCreated records a new render pipeline.
func (c *Collector) PipelineCreated() {
	c.PipelinesCreated.Inc()
}

// SurfaceConfigured records a surface configuration. It matches
// surface.WithConfigureHook.
func (c *Collector) SurfaceConfigured(cfg surface.Config) {
	c.SurfaceConfigurations.Inc()
	c.SurfaceWidth.Set(float64(cfg.Width))
	c.SurfaceHeight.Set(float64(cfg.Height))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, frame.ErrAcquire):
		return "acquire"
	case errors.Is(err, frame.ErrFenceTimeout):
		return "timeout"
	case errors.Is(err, frame.ErrNoPipeline),
		errors.Is(err, frame.ErrInvalidRange),
		errors.Is(err, frame.ErrBuilderExpired):
		return "builder"
	default:
		return "other"
	}
}

var _ frame.Observer = (*Collector)(nil)
