package wgrender

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/device"
	"github.com/gogpu/wgrender/frame"
	"github.com/gogpu/wgrender/internal/logging"
	"github.com/gogpu/wgrender/metrics"
	"github.com/gogpu/wgrender/pipeline"
	"github.com/gogpu/wgrender/surface"
)

// Renderer errors.
var (
	// ErrNilWindow is returned by New without a window.
	ErrNilWindow = errors.New("wgrender: window is nil")

	// ErrClosed is returned by a Renderer after Close.
	ErrClosed = errors.New("wgrender: renderer is closed")

	// ErrFrameInProgress is returned when an operation that is only valid
	// between frames is called while a frame is being recorded.
	ErrFrameInProgress = frame.ErrFrameInProgress
)

// Window is the window a Renderer presents to.
type Window interface {
	// InnerSize returns the drawable size in physical pixels.
	InnerSize() (width, height uint32)

	// SurfaceHandle returns the native handles to create a surface from.
	SurfaceHandle() surface.Handle
}

// Size is a surface size in physical pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// Renderer owns a device, the window surface and the pipelines drawn to it.
//
// A Renderer is NOT safe for concurrent use. It is driven from the thread that
// runs the window's event loop.
type Renderer struct {
	ctx      *device.Context
	surface  *surface.Manager
	registry *pipeline.Registry
	shaders  *pipeline.ShaderCache
	recorder *frame.Recorder
	metrics  *metrics.Collector
	layouts  []*pipeline.Layout
	closed   bool
}

// New creates a Renderer for window.
//
// The surface is configured with the adapter's preferred format, FIFO
// presentation and size, or the window's inner size when size is nil.
// Failing to find a backend, a compatible adapter or a device is fatal and
// is not retried.
func New(window Window, size *Size, opts ...Option) (*Renderer, error) {
	if window == nil {
		return nil, ErrNilWindow
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	inst, backend, err := device.NewInstance(o.backend)
	if err != nil {
		return nil, fmt.Errorf("wgrender: %w", err)
	}
	target, err := o.targetFactory(inst, window.SurfaceHandle())
	if err != nil {
		inst.Destroy()
		return nil, fmt.Errorf("wgrender: create surface: %w", err)
	}
	ctx, err := device.Open(inst, backend, device.Options{
		Compatible:      surface.Compatible(target),
		PowerPreference: o.powerPreference,
	})
	if err != nil {
		target.Destroy()
		inst.Destroy()
		return nil, fmt.Errorf("wgrender: %w", err)
	}

	r := &Renderer{ctx: ctx, registry: pipeline.NewRegistry()}
	if err := r.init(window, size, target, o); err != nil {
		if r.surface == nil {
			target.Destroy()
		}
		r.Close()
		return nil, err
	}

	logging.Logger().Info("wgrender: renderer created",
		"adapter", ctx.Info().String(),
		"format", r.surface.Format(),
		"width", r.surface.Config().Width,
		"height", r.surface.Config().Height)
	return r, nil
}

// init builds everything that depends on the opened device.
func (r *Renderer) init(window Window, size *Size, target surface.Target, o options) error {
	format, err := surface.PreferredFormat(target, r.ctx.Adapter())
	if err != nil {
		return fmt.Errorf("wgrender: %w", err)
	}

	width, height := window.InnerSize()
	if size != nil {
		width, height = size.Width, size.Height
	}

	var observers []frame.Observer
	surfaceOpts := []surface.Option{surface.WithZeroSizePolicy(o.zeroSize)}
	if o.registerer != nil {
		r.metrics = metrics.New(o.registerer)
		observers = append(observers, r.metrics)
		surfaceOpts = append(surfaceOpts, surface.WithConfigureHook(r.metrics.SurfaceConfigured))
	}
	if o.observer != nil {
		observers = append(observers, o.observer)
	}

	r.surface, err = surface.NewManager(r.ctx.Device(), target, surface.Config{
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: o.presentMode,
	}, surfaceOpts...)
	if err != nil {
		return fmt.Errorf("wgrender: %w", err)
	}

	r.shaders, err = pipeline.NewShaderCache(r.ctx.Device(), o.shaderCacheSize)
	if err != nil {
		return fmt.Errorf("wgrender: %w", err)
	}

	r.recorder = frame.NewRecorder(r.ctx.Device(), r.ctx.Queue(), r.surface, r.registry,
		frame.WithFenceTimeout(o.fenceTimeout),
		frame.WithObserver(frame.Observers(observers...)))
	return nil
}

// MustNew is like New but panics on error.
func MustNew(window Window, size *Size, opts ...Option) *Renderer {
	r, err := New(window, size, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resize reconfigures the surface to width x height. During a frame the
// resize is applied when the frame ends.
func (r *Renderer) Resize(width, height uint32) error {
	if r.closed {
		return ErrClosed
	}
	return r.surface.Resize(width, height)
}

// Reconfigure re-applies the surface configuration. Call it after a frame
// failed with frame.ErrAcquire because the surface was outdated or lost.
func (r *Renderer) Reconfigure() error {
	if r.closed {
		return ErrClosed
	}
	return r.surface.Reconfigure()
}

// SurfaceConfig returns the current surface configuration.
func (r *Renderer) SurfaceConfig() surface.Config {
	return r.surface.Config()
}

// LoadShader compiles WGSL source holding vs_main and fs_main. Identical
// sources share one shader module.
func (r *Renderer) LoadShader(source string) (*pipeline.Shader, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.shaders.Load("shader", source)
}

// CreatePipelineLayout creates a layout from external bind group layouts.
// No arguments is the common case.
func (r *Renderer) CreatePipelineLayout(groups ...hal.BindGroupLayout) (*pipeline.Layout, error) {
	if r.closed {
		return nil, ErrClosed
	}
	layout, err := pipeline.NewLayout(r.ctx.Device(), "pipeline_layout", groups)
	if err != nil {
		return nil, err
	}
	r.layouts = append(r.layouts, layout)
	return layout, nil
}

// CreatePipeline compiles a render pipeline for the surface format and
// returns its identifier. It fails with ErrFrameInProgress during a frame.
func (r *Renderer) CreatePipeline(layout *pipeline.Layout, shader *pipeline.Shader) (pipeline.ID, error) {
	if r.closed {
		return pipeline.ID{}, ErrClosed
	}
	if r.recorder.State() != frame.Idle {
		return pipeline.ID{}, ErrFrameInProgress
	}
	id, err := r.registry.Create(r.ctx.Device(), pipeline.Descriptor{
		Label:  fmt.Sprintf("pipeline_%d", r.registry.Len()),
		Layout: layout,
		Shader: shader,
		Format: r.surface.Format(),
	})
	if err != nil {
		return pipeline.ID{}, err
	}
	logging.Logger().Debug("wgrender: pipeline created", "bind_groups", layout.BindGroupCount())
	if r.metrics != nil {
		r.metrics.PipelineCreated()
	}
	return id, nil
}

// Pipeline resolves id.
func (r *Renderer) Pipeline(id pipeline.ID) (*pipeline.Pipeline, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.registry.Resolve(id)
}

// RenderPass records one frame: the surface is cleared to clear, fn draws
// through the builder, and the frame is submitted and presented. fn may be
// nil. Any error leaves nothing on screen and the renderer ready for the next
// frame.
func (r *Renderer) RenderPass(clear Color, fn func(*frame.Builder) error) error {
	if r.closed {
		return ErrClosed
	}
	return r.recorder.Record(clear.GPU(), fn)
}

// FrameState returns the state of the frame protocol.
func (r *Renderer) FrameState() frame.State {
	return r.recorder.State()
}

// OnFrameTransition registers fn to observe frame state changes.
func (r *Renderer) OnFrameTransition(fn func(from, to frame.State)) {
	r.recorder.OnTransition(fn)
}

// LastFrame returns stats for the last presented frame.
func (r *Renderer) LastFrame() frame.Stats {
	return r.recorder.LastFrame()
}

// Info describes the adapter in use.
func (r *Renderer) Info() device.Info {
	return r.ctx.Info()
}

// Close releases every GPU object. Close is idempotent and must not be called
// from inside RenderPass.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true

	dev := r.ctx.Device()
	if r.surface != nil {
		r.surface.Destroy()
	}
	r.registry.Destroy(dev)
	if r.shaders != nil {
		hits, misses := r.shaders.Stats()
		logging.Logger().Debug("wgrender: shader cache", "hits", hits, "misses", misses, "modules", r.shaders.Modules())
		r.shaders.Destroy()
	}
	for _, l := range r.layouts {
		l.Destroy(dev)
	}
	r.layouts = nil
	r.ctx.Destroy()
	logging.Logger().Info("wgrender: renderer closed")
}

// HalDevice returns the hal.Device as any, for libraries that render into
// the same device.
func (r *Renderer) HalDevice() any { return r.ctx.HalDevice() }

// HalQueue returns the hal.Queue as any.
func (r *Renderer) HalQueue() any { return r.ctx.HalQueue() }

// Device implements gpucontext.DeviceProvider. The value is the renderer's
// hal.Device; the renderer keeps ownership of it.
func (r *Renderer) Device() gpucontext.Device { return r.ctx.Device() }

// Queue implements gpucontext.DeviceProvider.
func (r *Renderer) Queue() gpucontext.Queue { return r.ctx.Queue() }

// Adapter implements gpucontext.DeviceProvider.
func (r *Renderer) Adapter() gpucontext.Adapter { return r.ctx.Adapter() }

// SurfaceFormat implements gpucontext.DeviceProvider.
func (r *Renderer) SurfaceFormat() gputypes.TextureFormat { return r.surface.Format() }

// AdapterInfo implements gpucontext.DeviceProvider.
func (r *Renderer) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: r.ctx.Info().Name}
}

var _ gpucontext.DeviceProvider = (*Renderer)(nil)
