// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Target is a presentable surface.
//
// Implementations are NOT thread-safe. A Target is driven by a single Manager.
type Target interface {
	// Formats returns the formats the target can present with adapter,
	// preferred first. An empty result means the adapter cannot present.
	Formats(adapter hal.Adapter) []gputypes.TextureFormat

	// Configure (re)creates the swapchain for cfg.
	Configure(device hal.Device, cfg Config) error

	// Acquire returns the texture for the next frame.
	Acquire(device hal.Device) (*Texture, error)

	// Present queues tex for display and releases it.
	Present(queue hal.Queue, tex *Texture) error

	// Discard releases tex without presenting it.
	Discard(device hal.Device, tex *Texture)

	// Destroy releases the target. It must not be used afterwards.
	Destroy()
}

// TargetFactory creates a Target for a window on instance.
type TargetFactory func(instance hal.Instance, handle Handle) (Target, error)

// Texture is a texture acquired from a Target for one frame.
type Texture struct {
	// Texture is the acquired texture.
	Texture hal.Texture

	// View is a render-attachment view of Texture.
	View hal.TextureView

	// Width and Height are the texture size in pixels.
	Width  uint32
	Height uint32

	// Suboptimal reports that the surface still works but should be
	// reconfigured, e.g. after a window move between monitors.
	Suboptimal bool
}

// Compatible returns a predicate reporting whether an adapter can present to
// target. It is meant for device.Options.Compatible.
func Compatible(target Target) func(hal.Adapter) bool {
	return func(adapter hal.Adapter) bool {
		return len(target.Formats(adapter)) > 0
	}
}

// PreferredFormat returns the first format target reports for adapter.
func PreferredFormat(target Target, adapter hal.Adapter) (gputypes.TextureFormat, error) {
	formats := target.Formats(adapter)
	if len(formats) == 0 {
		return gputypes.TextureFormatUndefined, ErrNoFormat
	}
	return formats[0], nil
}
