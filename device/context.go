// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/internal/logging"
)

// Device errors.
var (
	// ErrNoAdapter is returned when the instance exposes no adapters at all.
	ErrNoAdapter = errors.New("device: no GPU adapter found")

	// ErrNoCompatibleAdapter is returned when adapters exist but none passes
	// the compatibility check.
	ErrNoCompatibleAdapter = errors.New("device: no compatible GPU adapter found")

	// ErrDeviceRequest is returned when the chosen adapter refuses to open a device.
	ErrDeviceRequest = errors.New("device: device request failed")

	// ErrNilInstance is returned by Open without an instance.
	ErrNilInstance = errors.New("device: instance is nil")
)

// PowerPreference biases adapter selection.
type PowerPreference uint8

const (
	// PowerDefault prefers any hardware adapter over software ones.
	PowerDefault PowerPreference = iota

	// PowerLow prefers integrated GPUs.
	PowerLow

	// PowerHigh prefers discrete GPUs.
	PowerHigh
)

// String returns the preference name.
func (p PowerPreference) String() string {
	switch p {
	case PowerLow:
		return "low-power"
	case PowerHigh:
		return "high-performance"
	default:
		return "default"
	}
}

// ParsePowerPreference parses the names produced by String.
func ParsePowerPreference(s string) (PowerPreference, error) {
	switch s {
	case "", "default":
		return PowerDefault, nil
	case "low-power", "low":
		return PowerLow, nil
	case "high-performance", "high":
		return PowerHigh, nil
	}
	return PowerDefault, fmt.Errorf("device: unknown power preference %q", s)
}

// Options controls adapter selection.
type Options struct {
	// Compatible reports whether an adapter can be used, typically whether it
	// can present to the window surface. Nil accepts every adapter.
	Compatible func(hal.Adapter) bool

	// PowerPreference orders the compatible adapters.
	PowerPreference PowerPreference
}

// Info describes the adapter a Context was opened on.
type Info struct {
	// Name is the adapter name (e.g., "NVIDIA GeForce RTX 3080").
	Name string

	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType

	// Backend is the registry name of the backend.
	Backend string
}

// String returns a human-readable description of the adapter.
func (i Info) String() string {
	if i.Backend == "" {
		return i.Name
	}
	return fmt.Sprintf("%s (%s)", i.Name, i.Backend)
}

// Context owns an instance, the selected adapter, and the device and queue
// opened on it.
type Context struct {
	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
	info     Info
	closed   bool
}

// Open selects an adapter of instance and opens a device on it.
//
// On success the Context takes ownership of instance and destroys it in
// Destroy. On failure the instance is left to the caller.
func Open(instance hal.Instance, backend string, opts Options) (*Context, error) {
	if instance == nil {
		return nil, ErrNilInstance
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, ErrNoAdapter
	}

	selected := selectAdapter(adapters, opts)
	if selected == nil {
		return nil, fmt.Errorf("%w among %d adapters", ErrNoCompatibleAdapter, len(adapters))
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceRequest, selected.Info.Name, err)
	}

	info := Info{
		Name:       selected.Info.Name,
		DeviceType: selected.Info.DeviceType,
		Backend:    backend,
	}
	logging.Logger().Info("device: opened", "adapter", info.Name, "backend", backend,
		"power", opts.PowerPreference.String())

	return &Context{
		instance: instance,
		adapter:  selected.Adapter,
		device:   openDev.Device,
		queue:    openDev.Queue,
		info:     info,
	}, nil
}

// selectAdapter returns the best compatible adapter, or nil.
func selectAdapter(adapters []hal.ExposedAdapter, opts Options) *hal.ExposedAdapter {
	types := make([]gputypes.DeviceType, len(adapters))
	usable := make([]bool, len(adapters))
	for i := range adapters {
		types[i] = adapters[i].Info.DeviceType
		usable[i] = opts.Compatible == nil || opts.Compatible(adapters[i].Adapter)
	}
	if i := bestAdapter(types, usable, opts.PowerPreference); i >= 0 {
		return &adapters[i]
	}
	return nil
}

// bestAdapter returns the index of the highest ranked usable adapter, or -1.
func bestAdapter(types []gputypes.DeviceType, usable []bool, pref PowerPreference) int {
	best, bestRank := -1, -1
	for i, t := range types {
		if !usable[i] {
			continue
		}
		if r := rank(t, pref); r > bestRank {
			best, bestRank = i, r
		}
	}
	return best
}

// rank scores a device type for a preference. Ties keep enumeration order.
func rank(t gputypes.DeviceType, pref PowerPreference) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		if pref == PowerLow {
			return 2
		}
		return 3
	case gputypes.DeviceTypeIntegratedGPU:
		if pref == PowerLow {
			return 3
		}
		return 2
	default:
		return 1
	}
}

// Device returns the hal device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the hal queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Adapter returns the selected hal adapter.
func (c *Context) Adapter() hal.Adapter { return c.adapter }

// Instance returns the hal instance.
func (c *Context) Instance() hal.Instance { return c.instance }

// Info describes the selected adapter.
func (c *Context) Info() Info { return c.info }

// HalDevice returns the hal.Device as any, for consumers that share the device.
func (c *Context) HalDevice() any { return c.device }

// HalQueue returns the hal.Queue as any, for consumers that share the device.
func (c *Context) HalQueue() any { return c.queue }

// Destroy releases the device and the instance. Destroy is idempotent.
func (c *Context) Destroy() {
	if c.closed {
		return
	}
	c.closed = true
	if c.device != nil {
		c.device.Destroy()
	}
	if c.instance != nil {
		c.instance.Destroy()
	}
}
