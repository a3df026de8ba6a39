package pipeline

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestRegistryCreateIssuesSequentialIDs(t *testing.T) {
	device := createNoopDevice(t)
	desc := newTestDescriptor(t, device, "triangle")

	r := NewRegistry()
	defer r.Destroy(device)

	for want := 0; want < 3; want++ {
		id, err := r.Create(device, desc)
		if err != nil {
			t.Fatalf("Create #%d failed: %v", want, err)
		}
		if id.Index() != want {
			t.Errorf("Create #%d: Index() = %d, want %d", want, id.Index(), want)
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestRegistryResolve(t *testing.T) {
	device := createNoopDevice(t)
	desc := newTestDescriptor(t, device, "triangle")

	r := NewRegistry()
	defer r.Destroy(device)

	id0, err := r.Create(device, desc)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	id1, err := r.Create(device, desc)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	p0, err := r.Resolve(id0)
	if err != nil {
		t.Fatalf("Resolve(%v) failed: %v", id0, err)
	}
	p1, err := r.Resolve(id1)
	if err != nil {
		t.Fatalf("Resolve(%v) failed: %v", id1, err)
	}
	if p0 == p1 {
		t.Error("distinct IDs resolved to the same pipeline")
	}
	if p0.ID() != id0 || p1.ID() != id1 {
		t.Error("pipeline ID() does not match the ID it was registered under")
	}
	if again, _ := r.Resolve(id0); again != p0 {
		t.Error("Resolve is not stable for the same ID")
	}
	if p0.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want BGRA8Unorm", p0.Format())
	}
	if p0.Label() != "triangle" {
		t.Errorf("Label() = %q, want %q", p0.Label(), "triangle")
	}
}

func TestRegistryResolveInvalid(t *testing.T) {
	device := createNoopDevice(t)
	desc := newTestDescriptor(t, device, "triangle")

	r := NewRegistry()
	defer r.Destroy(device)
	other := NewRegistry()
	defer other.Destroy(device)

	if _, err := r.Create(device, desc); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	foreign, err := other.Create(device, desc)
	if err != nil {
		t.Fatalf("Create on other registry failed: %v", err)
	}

	tests := []struct {
		name string
		id   ID
	}{
		{"zero", ID{}},
		{"out of range", ID{owner: r.owner, index: 2}},
		{"foreign registry", foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Resolve(tt.id); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Resolve(%v) error = %v, want ErrInvalidID", tt.id, err)
			}
		})
	}
}

func TestRegistryCreateValidation(t *testing.T) {
	device := createNoopDevice(t)
	desc := newTestDescriptor(t, device, "triangle")

	released, err := LoadShader(device, "released", triangleWGSL)
	if err != nil {
		t.Fatalf("LoadShader failed: %v", err)
	}
	released.Destroy(device)

	tests := []struct {
		name   string
		device hal.Device
		mutate func(d *Descriptor)
		want   error
	}{
		{"nil device", nil, func(*Descriptor) {}, ErrNilDevice},
		{"nil layout", device, func(d *Descriptor) { d.Layout = nil }, ErrNilLayout},
		{"nil shader", device, func(d *Descriptor) { d.Shader = nil }, ErrNilShader},
		{"released shader", device, func(d *Descriptor) { d.Shader = released }, ErrShaderReleased},
		{"undefined format", device, func(d *Descriptor) { d.Format = gputypes.TextureFormatUndefined }, ErrUndefinedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			defer r.Destroy(device)

			d := desc
			tt.mutate(&d)
			if _, err := r.Create(tt.device, d); !errors.Is(err, tt.want) {
				t.Errorf("Create error = %v, want %v", err, tt.want)
			}
			if r.Len() != 0 {
				t.Errorf("Len() = %d after failed Create, want 0", r.Len())
			}
		})
	}
}

func TestRegistryBorrow(t *testing.T) {
	device := createNoopDevice(t)
	desc := newTestDescriptor(t, device, "triangle")

	r := NewRegistry()
	defer r.Destroy(device)

	id, err := r.Create(device, desc)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	view := r.Borrow()
	if !r.Borrowed() {
		t.Fatal("Borrowed() = false with a live view")
	}
	if _, err := r.Create(device, desc); !errors.Is(err, ErrBorrowed) {
		t.Errorf("Create while borrowed error = %v, want ErrBorrowed", err)
	}
	if _, err := view.Resolve(id); err != nil {
		t.Errorf("View.Resolve failed: %v", err)
	}

	view.Release()
	view.Release()
	if r.Borrowed() {
		t.Error("Borrowed() = true after Release")
	}
	if _, err := view.Resolve(id); !errors.Is(err, ErrViewReleased) {
		t.Errorf("Resolve on released view error = %v, want ErrViewReleased", err)
	}
	if _, err := r.Create(device, desc); err != nil {
		t.Errorf("Create after Release failed: %v", err)
	}
}

func TestViewBind(t *testing.T) {
	device := createNoopDevice(t)
	desc := newTestDescriptor(t, device, "triangle")

	r := NewRegistry()
	defer r.Destroy(device)

	id, err := r.Create(device, desc)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pass, end := beginTestPass(t, device)
	defer end()

	view := r.Borrow()
	defer view.Release()

	if err := view.Bind(pass, id); err != nil {
		t.Errorf("Bind(%v) failed: %v", id, err)
	}
	if err := view.Bind(pass, ID{}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Bind(zero) error = %v, want ErrInvalidID", err)
	}
}

func TestRegistryDestroy(t *testing.T) {
	device := createNoopDevice(t)
	desc := newTestDescriptor(t, device, "triangle")

	r := NewRegistry()
	id, err := r.Create(device, desc)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r.Destroy(device)
	r.Destroy(device)

	if _, err := r.Resolve(id); !errors.Is(err, ErrClosed) {
		t.Errorf("Resolve after Destroy error = %v, want ErrClosed", err)
	}
	if _, err := r.Create(device, desc); !errors.Is(err, ErrClosed) {
		t.Errorf("Create after Destroy error = %v, want ErrClosed", err)
	}
}

func TestIDString(t *testing.T) {
	if got := (ID{}).String(); got != "pipeline(zero)" {
		t.Errorf("zero ID String() = %q", got)
	}
	if !(ID{}).IsZero() {
		t.Error("zero ID IsZero() = false")
	}
	id := ID{owner: 1, index: 4}
	if got := id.String(); got != "pipeline(4)" {
		t.Errorf("String() = %q, want %q", got, "pipeline(4)")
	}
}

// beginTestPass opens a render pass on a small offscreen texture.
func beginTestPass(t *testing.T, device hal.Device) (hal.RenderPassEncoder, func()) {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "pass-target",
		Size:          hal.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "pass-target-view"})
	if err != nil {
		t.Fatalf("CreateTextureView failed: %v", err)
	}
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pass-encoder"})
	if err != nil {
		t.Fatalf("CreateCommandEncoder failed: %v", err)
	}
	if err := encoder.BeginEncoding("pass"); err != nil {
		t.Fatalf("BeginEncoding failed: %v", err)
	}
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	return pass, func() {
		pass.End()
		if cb, err := encoder.EndEncoding(); err == nil {
			device.FreeCommandBuffer(cb)
		}
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
	}
}
