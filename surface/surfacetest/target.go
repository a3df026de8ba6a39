// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surfacetest provides an offscreen surface.Target for tests.
//
// Textures are ordinary render-attachment textures created on the device, so
// the target works with the noop backend and needs no window.
package surfacetest

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/surface"
)

// Target is an offscreen surface.Target that records what is done to it.
type Target struct {
	// FormatList is returned by Formats. Defaults to BGRA8Unorm.
	FormatList []gputypes.TextureFormat

	// AcquireErr, ConfigureErr and PresentErr are returned by the matching
	// methods while non-nil.
	AcquireErr   error
	ConfigureErr error
	PresentErr   error

	// Suboptimal marks acquired textures as suboptimal.
	Suboptimal bool

	// Configs holds every configuration applied, in order.
	Configs []surface.Config

	// Events logs calls by name: "configure", "acquire", "present",
	// "discard", "destroy".
	Events []string

	Acquired  int
	Presented int
	Discarded int
	Destroyed bool

	current surface.Config
	live    map[*surface.Texture]hal.Texture
}

// New returns a Target advertising BGRA8Unorm.
func New() *Target {
	return &Target{FormatList: []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm}}
}

// Factory returns a surface.TargetFactory that always yields t.
func (t *Target) Factory() surface.TargetFactory {
	return func(hal.Instance, surface.Handle) (surface.Target, error) {
		return t, nil
	}
}

// Formats implements surface.Target.
func (t *Target) Formats(hal.Adapter) []gputypes.TextureFormat {
	return t.FormatList
}

// Configure implements surface.Target.
func (t *Target) Configure(_ hal.Device, cfg surface.Config) error {
	t.Events = append(t.Events, "configure")
	if t.ConfigureErr != nil {
		return t.ConfigureErr
	}
	t.current = cfg
	t.Configs = append(t.Configs, cfg)
	return nil
}

// Acquire implements surface.Target.
func (t *Target) Acquire(device hal.Device) (*surface.Texture, error) {
	t.Events = append(t.Events, "acquire")
	if t.AcquireErr != nil {
		return nil, t.AcquireErr
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "surfacetest_texture",
		Size:          hal.Extent3D{Width: t.current.Width, Height: t.current.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.current.Format,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("surfacetest: create texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "surfacetest_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("surfacetest: create view: %w", err)
	}
	st := &surface.Texture{
		Texture:    tex,
		View:       view,
		Width:      t.current.Width,
		Height:     t.current.Height,
		Suboptimal: t.Suboptimal,
	}
	if t.live == nil {
		t.live = make(map[*surface.Texture]hal.Texture)
	}
	t.live[st] = tex
	t.Acquired++
	return st, nil
}

// Present implements surface.Target.
func (t *Target) Present(_ hal.Queue, tex *surface.Texture) error {
	t.Events = append(t.Events, "present")
	delete(t.live, tex)
	if t.PresentErr != nil {
		return t.PresentErr
	}
	t.Presented++
	return nil
}

// Discard implements surface.Target.
func (t *Target) Discard(device hal.Device, tex *surface.Texture) {
	t.Events = append(t.Events, "discard")
	if raw, ok := t.live[tex]; ok {
		device.DestroyTextureView(tex.View)
		device.DestroyTexture(raw)
		delete(t.live, tex)
	}
	t.Discarded++
}

// Destroy implements surface.Target.
func (t *Target) Destroy() {
	t.Events = append(t.Events, "destroy")
	t.Destroyed = true
}

// Outstanding returns the number of acquired textures not yet presented or
// discarded.
func (t *Target) Outstanding() int { return len(t.live) }

// Current returns the last applied configuration.
func (t *Target) Current() surface.Config { return t.current }
