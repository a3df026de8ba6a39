// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/internal/logging"
)

// Manager errors.
var (
	// ErrZeroSize is returned by Resize for a zero dimension under ZeroSizeReject.
	ErrZeroSize = errors.New("surface: width and height must be non-zero")

	// ErrNoFormat is returned when a target reports no presentable format.
	ErrNoFormat = errors.New("surface: no supported format")

	// ErrUndefinedFormat is returned by NewManager without a format.
	ErrUndefinedFormat = errors.New("surface: format is undefined")

	// ErrTextureInFlight is returned by Acquire while a texture is outstanding.
	ErrTextureInFlight = errors.New("surface: a texture is already acquired")

	// ErrNoTexture is returned by Present without an acquired texture.
	ErrNoTexture = errors.New("surface: no texture acquired")

	// ErrDestroyed is returned after Destroy.
	ErrDestroyed = errors.New("surface: manager is destroyed")
)

// Option configures a Manager.
type Option func(*Manager)

// WithZeroSizePolicy sets how Resize treats zero dimensions.
func WithZeroSizePolicy(p ZeroSizePolicy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithConfigureHook registers fn to run after every successful configuration,
// including the initial one.
func WithConfigureHook(fn func(Config)) Option {
	return func(m *Manager) { m.onConfigure = fn }
}

// Manager keeps a Target configured.
type Manager struct {
	device      hal.Device
	target      Target
	cfg         Config
	policy      ZeroSizePolicy
	onConfigure func(Config)

	inFlight *Texture

	pending    bool
	pendingW   uint32
	pendingH   uint32
	pendingErr error

	destroyed bool
}

// NewManager configures target with cfg and returns a Manager for it.
// Usage is forced to RenderAttachment. A zero size is handled by the policy
// from opts exactly like Resize.
func NewManager(device hal.Device, target Target, cfg Config, opts ...Option) (*Manager, error) {
	if device == nil || target == nil {
		return nil, errors.New("surface: device and target are required")
	}
	if cfg.Format == gputypes.TextureFormatUndefined {
		return nil, ErrUndefinedFormat
	}
	m := &Manager{device: device, target: target}
	for _, opt := range opts {
		opt(m)
	}

	w, h, err := m.normalize(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	cfg.Width, cfg.Height = w, h
	cfg.Usage = gputypes.TextureUsageRenderAttachment

	if err := m.configure(cfg); err != nil {
		return nil, err
	}
	return m, nil
}

// Config returns the current configuration.
func (m *Manager) Config() Config { return m.cfg }

// Format returns the surface format.
func (m *Manager) Format() gputypes.TextureFormat { return m.cfg.Format }

// Target returns the managed target.
func (m *Manager) Target() Target { return m.target }

// Policy returns the zero-size policy.
func (m *Manager) Policy() ZeroSizePolicy { return m.policy }

// Pending returns the size waiting for the in-flight texture to be released.
func (m *Manager) Pending() (width, height uint32, ok bool) {
	return m.pendingW, m.pendingH, m.pending
}

// InFlight reports whether a texture is acquired.
func (m *Manager) InFlight() bool { return m.inFlight != nil }

// Resize changes the surface size.
//
// Zero dimensions follow the policy. While a texture is acquired the size is
// recorded and applied when the texture is presented or discarded; later
// calls overwrite earlier ones. Otherwise the target is reconfigured at once
// and on failure the previous configuration is kept.
func (m *Manager) Resize(width, height uint32) error {
	if m.destroyed {
		return ErrDestroyed
	}
	w, h, err := m.normalize(width, height)
	if err != nil {
		return err
	}
	if m.inFlight != nil {
		m.pending, m.pendingW, m.pendingH = true, w, h
		logging.Logger().Debug("surface: resize deferred", "width", w, "height", h)
		return nil
	}

	cfg := m.cfg
	cfg.Width, cfg.Height = w, h
	return m.configure(cfg)
}

// Reconfigure re-applies the current configuration, the recovery step after
// the surface reported it is outdated or lost. While a texture is acquired it
// is deferred like Resize.
func (m *Manager) Reconfigure() error {
	if m.destroyed {
		return ErrDestroyed
	}
	if m.inFlight != nil {
		if !m.pending {
			m.pending, m.pendingW, m.pendingH = true, m.cfg.Width, m.cfg.Height
		}
		return nil
	}
	return m.configure(m.cfg)
}

// Acquire returns the texture for the next frame. If a deferred resize failed
// to apply, its error is returned once instead.
func (m *Manager) Acquire() (*Texture, error) {
	switch {
	case m.destroyed:
		return nil, ErrDestroyed
	case m.inFlight != nil:
		return nil, ErrTextureInFlight
	case m.pendingErr != nil:
		err := m.pendingErr
		m.pendingErr = nil
		return nil, err
	}

	tex, err := m.target.Acquire(m.device)
	if err != nil {
		return nil, err
	}
	if tex.Suboptimal {
		logging.Logger().Debug("surface: acquired suboptimal texture")
	}
	m.inFlight = tex
	return tex, nil
}

// Present presents the acquired texture and applies a deferred resize.
// The texture is released even if presentation fails.
func (m *Manager) Present(queue hal.Queue) error {
	tex := m.inFlight
	if tex == nil {
		return ErrNoTexture
	}
	err := m.target.Present(queue, tex)
	m.inFlight = nil
	m.applyPending()
	if err != nil {
		return fmt.Errorf("surface: present: %w", err)
	}
	return nil
}

// Discard releases the acquired texture without presenting it and applies a
// deferred resize. Discard without an acquired texture is a no-op.
func (m *Manager) Discard() {
	tex := m.inFlight
	if tex == nil {
		return
	}
	m.target.Discard(m.device, tex)
	m.inFlight = nil
	m.applyPending()
}

// Destroy discards an acquired texture and destroys the target.
// Destroy is idempotent.
func (m *Manager) Destroy() {
	if m.destroyed {
		return
	}
	m.Discard()
	m.destroyed = true
	m.pending = false
	m.target.Destroy()
}

func (m *Manager) applyPending() {
	if !m.pending {
		return
	}
	cfg := m.cfg
	cfg.Width, cfg.Height = m.pendingW, m.pendingH
	m.pending, m.pendingW, m.pendingH = false, 0, 0
	if err := m.configure(cfg); err != nil {
		logging.Logger().Warn("surface: deferred resize failed", "error", err)
		m.pendingErr = err
	}
}

func (m *Manager) configure(cfg Config) error {
	if err := m.target.Configure(m.device, cfg); err != nil {
		return fmt.Errorf("surface: configure %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	m.cfg = cfg
	logging.Logger().Debug("surface: configured",
		"width", cfg.Width, "height", cfg.Height, "present_mode", cfg.PresentMode.String())
	if m.onConfigure != nil {
		m.onConfigure(cfg)
	}
	return nil
}

func (m *Manager) normalize(width, height uint32) (uint32, uint32, error) {
	if width != 0 && height != 0 {
		return width, height, nil
	}
	if m.policy == ZeroSizeClamp {
		return max(width, 1), max(height, 1), nil
	}
	return 0, 0, fmt.Errorf("%w: got %dx%d", ErrZeroSize, width, height)
}
