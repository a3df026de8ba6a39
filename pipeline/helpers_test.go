package pipeline

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

const triangleWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i32(idx) - 1);
    let y = f32(i32(idx & 1u) * 2 - 1);
    return vec4<f32>(x * 0.5, y * 0.5, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

const greenWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i32(idx) - 1);
    return vec4<f32>(x * 0.5, 0.5, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 1.0, 0.0, 1.0);
}
`

// commentedEntryWGSL names vs_main and fs_main only in comments.
const commentedEntryWGSL = `
// vs_main and fs_main live in another file.
@vertex
fn vert() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn frag() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

const swappedStagesWGSL = `
@fragment
fn vs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}

@vertex
fn fs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

// createNoopDevice creates a noop device for testing. The device is destroyed
// when the test finishes.
func createNoopDevice(t *testing.T) hal.Device {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device
}

// newTestDescriptor builds a layout and shader for registry tests.
func newTestDescriptor(t *testing.T, device hal.Device, label string) Descriptor {
	t.Helper()
	layout, err := NewLayout(device, label+"-layout", nil)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}
	shader, err := LoadShader(device, label+"-shader", triangleWGSL)
	if err != nil {
		t.Fatalf("LoadShader failed: %v", err)
	}
	t.Cleanup(func() {
		shader.Destroy(device)
		layout.Destroy(device)
	})
	return Descriptor{
		Label:  label,
		Layout: layout,
		Shader: shader,
		Format: gputypes.TextureFormatBGRA8Unorm,
	}
}
