package wgrender

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/wgrender/device"
	"github.com/gogpu/wgrender/frame"
	"github.com/gogpu/wgrender/pipeline"
	"github.com/gogpu/wgrender/surface"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	// Defaults: best backend, FIFO presentation, zero sizes rejected
//	r, err := wgrender.New(window, nil)
//
//	// Headless rendering on the noop backend with clamped sizes
//	r, err := wgrender.New(window, nil,
//	    wgrender.WithBackend("noop"),
//	    wgrender.WithZeroSizePolicy(surface.ZeroSizeClamp))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	backend         string
	targetFactory   surface.TargetFactory
	presentMode     surface.PresentMode
	zeroSize        surface.ZeroSizePolicy
	powerPreference device.PowerPreference
	shaderCacheSize int
	fenceTimeout    time.Duration
	registerer      prometheus.Registerer
	observer        frame.Observer
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		backend:         "", // best available
		targetFactory:   surface.NewHalTarget,
		presentMode:     surface.PresentModeFifo,
		zeroSize:        surface.ZeroSizeReject,
		powerPreference: device.PowerDefault,
		shaderCacheSize: pipeline.DefaultShaderCacheSize,
		fenceTimeout:    frame.DefaultFenceTimeout,
	}
}

// WithBackend selects a backend by its registry name, e.g. "vulkan" or
// "noop". The empty name selects the best available backend.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithTargetFactory replaces the function that creates the window surface.
// Tests use it to render offscreen.
func WithTargetFactory(f surface.TargetFactory) Option {
	return func(o *options) {
		if f != nil {
			o.targetFactory = f
		}
	}
}

// WithPresentMode sets the present mode. The default is FIFO (vsync).
func WithPresentMode(m surface.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// WithZeroSizePolicy sets how zero-sized resizes are handled.
// The default rejects them with surface.ErrZeroSize.
func WithZeroSizePolicy(p surface.ZeroSizePolicy) Option {
	return func(o *options) {
		o.zeroSize = p
	}
}

// WithPowerPreference biases adapter selection.
func WithPowerPreference(p device.PowerPreference) Option {
	return func(o *options) {
		o.powerPreference = p
	}
}

// WithShaderCacheSize sets how many WGSL sources LoadShader deduplicates.
// Non-positive values keep the default.
func WithShaderCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shaderCacheSize = n
		}
	}
}

// WithFenceTimeout bounds how long a frame waits for the GPU after submission.
// Non-positive values keep the default of 5 seconds.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fenceTimeout = d
		}
	}
}

// WithMetrics exports renderer metrics to reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithObserver adds an observer notified about every frame outcome.
func WithObserver(obs frame.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}
