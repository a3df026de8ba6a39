package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/internal/logging"
)

// Registry errors.
var (
	// ErrInvalidID is returned when an ID was not issued by the registry it is
	// resolved against.
	ErrInvalidID = errors.New("pipeline: invalid pipeline id")

	// ErrBorrowed is returned when a pipeline is created while a View is live,
	// i.e. while a frame is being recorded.
	ErrBorrowed = errors.New("pipeline: registry is borrowed by an open frame")

	// ErrViewReleased is returned when a View is used after Release.
	ErrViewReleased = errors.New("pipeline: view has been released")

	// ErrClosed is returned by a registry after Destroy.
	ErrClosed = errors.New("pipeline: registry is destroyed")

	// ErrNilDevice is returned when a GPU object is requested without a device.
	ErrNilDevice = errors.New("pipeline: device is nil")

	// ErrNilLayout is returned when Create is called without a pipeline layout.
	ErrNilLayout = errors.New("pipeline: layout is nil")

	// ErrNilShader is returned when Create is called without a shader.
	ErrNilShader = errors.New("pipeline: shader is nil")

	// ErrUndefinedFormat is returned when Create is called without a target format.
	ErrUndefinedFormat = errors.New("pipeline: target format is undefined")
)

// Descriptor describes a pipeline to create. Everything except the layout,
// shader and color format is fixed.
type Descriptor struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout, from NewLayout.
	Layout *Layout

	// Shader holds both the vs_main and fs_main entry points.
	Shader *Shader

	// Format is the color target format, normally the surface format.
	Format gputypes.TextureFormat
}

// Pipeline is an immutable compiled render pipeline.
type Pipeline struct {
	raw    hal.RenderPipeline
	id     ID
	label  string
	format gputypes.TextureFormat
}

// ID returns the identifier the pipeline was registered under.
func (p *Pipeline) ID() ID { return p.id }

// Label returns the debug label.
func (p *Pipeline) Label() string { return p.label }

// Format returns the color target format the pipeline was compiled against.
func (p *Pipeline) Format() gputypes.TextureFormat { return p.format }

// Registry is an arena of pipelines indexed by ID.
//
// Pipelines can only be added. An ID stays valid until Destroy, so the
// identifiers handed to callers never dangle.
//
// State machine:
//
//	Open -> Borrow() -> Borrowed (Create fails with ErrBorrowed)
//	Borrowed -> View.Release() -> Open
//	Open -> Destroy() -> Closed
type Registry struct {
	owner     uint64
	pipelines []*Pipeline
	borrows   int
	closed    bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{owner: registrySeq.Add(1)}
}

// Len returns the number of pipelines created so far.
func (r *Registry) Len() int {
	return len(r.pipelines)
}

// Borrowed reports whether a View is currently live.
func (r *Registry) Borrowed() bool {
	return r.borrows > 0
}

// Create compiles a render pipeline and stores it under a new ID.
//
// IDs are issued in strictly increasing order. Create performs GPU object
// creation and must not be called while the registry is borrowed.
func (r *Registry) Create(device hal.Device, desc Descriptor) (ID, error) {
	switch {
	case r.closed:
		return ID{}, ErrClosed
	case r.borrows > 0:
		return ID{}, ErrBorrowed
	case device == nil:
		return ID{}, ErrNilDevice
	case desc.Layout == nil || desc.Layout.raw == nil:
		return ID{}, ErrNilLayout
	case desc.Shader == nil:
		return ID{}, ErrNilShader
	case desc.Shader.Released():
		return ID{}, fmt.Errorf("create %q: %w", desc.Label, ErrShaderReleased)
	case desc.Format == gputypes.TextureFormatUndefined:
		return ID{}, ErrUndefinedFormat
	}

	raw, err := device.CreateRenderPipeline(renderPipelineDescriptor(desc))
	if err != nil {
		return ID{}, fmt.Errorf("pipeline: create %q: %w", desc.Label, err)
	}

	id := ID{owner: r.owner, index: uint32(len(r.pipelines))} //nolint:gosec // pipeline count never approaches 2^32
	r.pipelines = append(r.pipelines, &Pipeline{
		raw:    raw,
		id:     id,
		label:  desc.Label,
		format: desc.Format,
	})

	logging.Logger().Debug("pipeline: created", "id", id.String(), "label", desc.Label)
	return id, nil
}

// Resolve returns the pipeline registered under id.
//
// An ID issued by another registry, the zero ID, or an index past the end all
// yield ErrInvalidID.
func (r *Registry) Resolve(id ID) (*Pipeline, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if id.owner != r.owner || int(id.index) >= len(r.pipelines) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return r.pipelines[id.index], nil
}

// Borrow returns a read-only view for the duration of one frame. While any
// view is live, Create fails with ErrBorrowed.
func (r *Registry) Borrow() *View {
	r.borrows++
	return &View{registry: r}
}

// Destroy releases every pipeline. The registry cannot be used afterwards.
// Destroy is idempotent.
func (r *Registry) Destroy(device hal.Device) {
	if r.closed {
		return
	}
	r.closed = true
	if device != nil {
		for _, p := range r.pipelines {
			if p.raw != nil {
				device.DestroyRenderPipeline(p.raw)
			}
		}
	}
	r.pipelines = nil
}

// View is the read-only access a frame has to a Registry.
type View struct {
	registry *Registry
	released bool
}

// Resolve returns the pipeline registered under id.
func (v *View) Resolve(id ID) (*Pipeline, error) {
	if v.released {
		return nil, ErrViewReleased
	}
	return v.registry.Resolve(id)
}

// Bind resolves id and sets the pipeline on the render pass.
func (v *View) Bind(pass hal.RenderPassEncoder, id ID) error {
	p, err := v.Resolve(id)
	if err != nil {
		return err
	}
	pass.SetPipeline(p.raw)
	return nil
}

// Release ends the borrow. Releasing twice is a no-op.
func (v *View) Release() {
	if v.released {
		return
	}
	v.released = true
	v.registry.borrows--
}
