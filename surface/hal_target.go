// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNotSurfaceTexture is returned when a Texture not acquired from a
// HalTarget is presented to one.
var ErrNotSurfaceTexture = errors.New("surface: texture was not acquired from this surface")

// HalTarget is a Target backed by a hal.Surface.
type HalTarget struct {
	surface hal.Surface
	device  hal.Device
	cfg     Config
}

// NewHalTarget creates a surface for the window identified by handle.
// It matches TargetFactory.
func NewHalTarget(instance hal.Instance, handle Handle) (Target, error) {
	if instance == nil {
		return nil, errors.New("surface: instance is nil")
	}
	if handle.Window == 0 {
		return nil, errors.New("surface: window handle is zero")
	}
	s, err := instance.CreateSurface(handle.Display, handle.Window)
	if err != nil {
		return nil, fmt.Errorf("surface: create: %w", err)
	}
	return &HalTarget{surface: s}, nil
}

// Formats implements Target.
func (t *HalTarget) Formats(adapter hal.Adapter) []gputypes.TextureFormat {
	caps := adapter.SurfaceCapabilities(t.surface)
	if caps == nil {
		return nil
	}
	return caps.Formats
}

// Configure implements Target.
func (t *HalTarget) Configure(device hal.Device, cfg Config) error {
	err := t.surface.Configure(device, &hal.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       cfg.Usage,
		PresentMode: halPresentMode(cfg.PresentMode),
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return err
	}
	t.device = device
	t.cfg = cfg
	return nil
}

// Acquire implements Target.
func (t *HalTarget) Acquire(device hal.Device) (*Texture, error) {
	acquired, err := t.surface.AcquireTexture(nil)
	if err != nil {
		return nil, err
	}
	view, err := device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label: "surface_view",
	})
	if err != nil {
		t.surface.DiscardTexture(acquired.Texture)
		return nil, fmt.Errorf("create view: %w", err)
	}
	return &Texture{
		Texture:    acquired.Texture,
		View:       view,
		Width:      t.cfg.Width,
		Height:     t.cfg.Height,
		Suboptimal: acquired.Suboptimal,
	}, nil
}

// Present implements Target.
func (t *HalTarget) Present(queue hal.Queue, tex *Texture) error {
	st, ok := tex.Texture.(hal.SurfaceTexture)
	if !ok {
		return ErrNotSurfaceTexture
	}
	err := queue.Present(t.surface, st, nil) // no damage rects: full-surface present
	t.releaseView(tex)
	return err
}

// Discard implements Target.
func (t *HalTarget) Discard(_ hal.Device, tex *Texture) {
	if st, ok := tex.Texture.(hal.SurfaceTexture); ok {
		t.surface.DiscardTexture(st)
	}
	t.releaseView(tex)
}

// Destroy implements Target.
func (t *HalTarget) Destroy() {
	if t.surface == nil {
		return
	}
	if t.device != nil {
		t.surface.Unconfigure(t.device)
	}
	t.surface.Destroy()
	t.surface = nil
}

func (t *HalTarget) releaseView(tex *Texture) {
	if tex.View != nil && t.device != nil {
		t.device.DestroyTextureView(tex.View)
		tex.View = nil
	}
}

func halPresentMode(m PresentMode) gputypes.PresentMode {
	switch m {
	case PresentModeMailbox:
		return gputypes.PresentModeMailbox
	case PresentModeImmediate:
		return gputypes.PresentModeImmediate
	default:
		return gputypes.PresentModeFifo
	}
}
