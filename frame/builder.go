// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/pipeline"
)

// Range is a half-open range [Start, End) of vertices or instances.
type Range struct {
	Start uint32
	End   uint32
}

// Span returns the range [start, start+count).
func Span(start, count uint32) Range {
	return Range{Start: start, End: start + count}
}

// Count returns End - Start, or 0 for an inverted range.
func (r Range) Count() uint32 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range contains nothing.
func (r Range) Empty() bool { return r.Start >= r.End }

func (r Range) validate() error {
	if r.Start > r.End {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// Builder records commands into the open render pass of a frame.
//
// The first error a Builder returns is sticky: later calls return it without
// recording, and Record fails with it even if the frame function ignored it.
type Builder struct {
	pass    hal.RenderPassEncoder
	view    *pipeline.View
	bound   bool
	current pipeline.ID
	err     error
	expired bool

	binds     int
	draws     int
	vertices  uint64
	instances uint64
}

// BindPipeline sets the pipeline used by subsequent draws.
func (b *Builder) BindPipeline(id pipeline.ID) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.view.Bind(b.pass, id); err != nil {
		return b.fail(err)
	}
	b.bound = true
	b.current = id
	b.binds++
	return nil
}

// Draw draws vertices.Count() vertices for each of instances.Count()
// instances with the bound pipeline. Vertex data comes from the shader; no
// vertex buffers are bound. An empty range draws nothing.
func (b *Builder) Draw(vertices, instances Range) error {
	if err := b.check(); err != nil {
		return err
	}
	if !b.bound {
		return b.fail(ErrNoPipeline)
	}
	if err := vertices.validate(); err != nil {
		return b.fail(fmt.Errorf("vertices: %w", err))
	}
	if err := instances.validate(); err != nil {
		return b.fail(fmt.Errorf("instances: %w", err))
	}
	if vertices.Empty() || instances.Empty() {
		return nil
	}
	b.pass.Draw(vertices.Count(), instances.Count(), vertices.Start, instances.Start)
	b.draws++
	b.vertices += uint64(vertices.Count()) * uint64(instances.Count())
	b.instances += uint64(instances.Count())
	return nil
}

// Pipeline returns the bound pipeline, if any.
func (b *Builder) Pipeline() (pipeline.ID, bool) {
	return b.current, b.bound
}

// Err returns the sticky error, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) check() error {
	if b.expired {
		return ErrBuilderExpired
	}
	return b.err
}

func (b *Builder) fail(err error) error {
	b.err = err
	return err
}

func (b *Builder) expire() { b.expired = true }
