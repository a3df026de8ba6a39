package wgrender

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/wgrender/device"
	"github.com/gogpu/wgrender/frame"
	"github.com/gogpu/wgrender/pipeline"
	"github.com/gogpu/wgrender/surface"
	"github.com/gogpu/wgrender/surface/surfacetest"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.backend != "" {
		t.Errorf("backend = %q, want best available", o.backend)
	}
	if o.targetFactory == nil {
		t.Error("targetFactory is nil")
	}
	if o.presentMode != surface.PresentModeFifo {
		t.Errorf("presentMode = %v, want fifo", o.presentMode)
	}
	if o.zeroSize != surface.ZeroSizeReject {
		t.Errorf("zeroSize = %v, want reject", o.zeroSize)
	}
	if o.powerPreference != device.PowerDefault {
		t.Errorf("powerPreference = %v", o.powerPreference)
	}
	if o.shaderCacheSize != pipeline.DefaultShaderCacheSize {
		t.Errorf("shaderCacheSize = %d", o.shaderCacheSize)
	}
	if o.fenceTimeout != frame.DefaultFenceTimeout {
		t.Errorf("fenceTimeout = %v", o.fenceTimeout)
	}
	if o.registerer != nil || o.observer != nil {
		t.Error("metrics and observer should be off by default")
	}
}

type countingObserver struct{ submitted, failed int }

func (c *countingObserver) FrameSubmitted(frame.Stats, time.Duration) { c.submitted++ }
func (c *countingObserver) FrameFailed(error)                         { c.failed++ }

func TestOptionsApply(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := &countingObserver{}
	o := defaultOptions()
	for _, opt := range []Option{
		WithBackend("noop"),
		WithPresentMode(surface.PresentModeMailbox),
		WithZeroSizePolicy(surface.ZeroSizeClamp),
		WithPowerPreference(device.PowerHigh),
		WithShaderCacheSize(4),
		WithFenceTimeout(time.Second),
		WithMetrics(reg),
		WithObserver(obs),
	} {
		opt(&o)
	}

	if o.backend != "noop" {
		t.Errorf("backend = %q", o.backend)
	}
	if o.presentMode != surface.PresentModeMailbox {
		t.Errorf("presentMode = %v", o.presentMode)
	}
	if o.zeroSize != surface.ZeroSizeClamp {
		t.Errorf("zeroSize = %v", o.zeroSize)
	}
	if o.powerPreference != device.PowerHigh {
		t.Errorf("powerPreference = %v", o.powerPreference)
	}
	if o.shaderCacheSize != 4 {
		t.Errorf("shaderCacheSize = %d", o.shaderCacheSize)
	}
	if o.fenceTimeout != time.Second {
		t.Errorf("fenceTimeout = %v", o.fenceTimeout)
	}
	if o.registerer != reg || o.observer != obs {
		t.Error("metrics or observer not applied")
	}
}

func TestOptionsIgnoreInvalid(t *testing.T) {
	o := defaultOptions()
	WithShaderCacheSize(0)(&o)
	WithFenceTimeout(-time.Second)(&o)
	WithTargetFactory(nil)(&o)

	if o.shaderCacheSize != pipeline.DefaultShaderCacheSize {
		t.Errorf("shaderCacheSize = %d, want default", o.shaderCacheSize)
	}
	if o.fenceTimeout != frame.DefaultFenceTimeout {
		t.Errorf("fenceTimeout = %v, want default", o.fenceTimeout)
	}
	if o.targetFactory == nil {
		t.Error("nil factory replaced the default")
	}
}

func TestWithObserverReceivesFrames(t *testing.T) {
	obs := &countingObserver{}
	target := surfacetest.New()
	r, err := New(fakeWindow{width: 32, height: 32}, nil,
		WithBackend("noop"), WithTargetFactory(target.Factory()), WithObserver(obs))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	if err := r.RenderPass(Black, nil); err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}
	target.AcquireErr = surface.ErrNoTexture
	_ = r.RenderPass(Black, nil)

	if obs.submitted != 1 || obs.failed != 1 {
		t.Errorf("observer saw %d submitted, %d failed; want 1, 1", obs.submitted, obs.failed)
	}
}
