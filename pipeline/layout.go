package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Entry points every pipeline shader must define.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Layout is a pipeline layout: the bind group layouts a pipeline expects.
type Layout struct {
	raw    hal.PipelineLayout
	label  string
	groups int
}

// NewLayout creates a pipeline layout from the given bind group layouts.
// An empty list is valid and is the common case: pipelines that generate all
// geometry in the vertex shader bind no resources.
func NewLayout(device hal.Device, label string, groups []hal.BindGroupLayout) (*Layout, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	raw, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: groups,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: create layout %q: %w", label, err)
	}
	return &Layout{raw: raw, label: label, groups: len(groups)}, nil
}

// Label returns the debug label.
func (l *Layout) Label() string { return l.label }

// BindGroupCount returns the number of bind group layouts.
func (l *Layout) BindGroupCount() int { return l.groups }

// Destroy releases the layout. Pipelines already created from it stay valid.
func (l *Layout) Destroy(device hal.Device) {
	if l.raw == nil || device == nil {
		return
	}
	device.DestroyPipelineLayout(l.raw)
	l.raw = nil
}

// renderPipelineDescriptor builds the fixed-function pipeline state shared by
// every pipeline in a registry.
func renderPipelineDescriptor(desc Descriptor) *hal.RenderPipelineDescriptor {
	return &hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: desc.Layout.raw,
		Vertex: hal.VertexState{
			Module:     desc.Shader.module,
			EntryPoint: VertexEntryPoint,
		},
		Fragment: &hal.FragmentState{
			Module:     desc.Shader.module,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    desc.Format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}
