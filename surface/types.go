// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PresentMode controls how acquired textures are queued for display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. It is always supported.
	PresentModeFifo PresentMode = iota

	// PresentModeMailbox replaces the queued frame without tearing.
	PresentModeMailbox

	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

// String returns the mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("PresentMode(%d)", m)
	}
}

// ParsePresentMode parses the names produced by String.
func ParsePresentMode(s string) (PresentMode, error) {
	switch s {
	case "", "fifo", "vsync":
		return PresentModeFifo, nil
	case "mailbox":
		return PresentModeMailbox, nil
	case "immediate":
		return PresentModeImmediate, nil
	}
	return PresentModeFifo, fmt.Errorf("surface: unknown present mode %q", s)
}

// ZeroSizePolicy decides what Resize does with a zero dimension.
type ZeroSizePolicy uint8

const (
	// ZeroSizeReject returns ErrZeroSize and keeps the current configuration.
	ZeroSizeReject ZeroSizePolicy = iota

	// ZeroSizeClamp raises each zero dimension to 1.
	ZeroSizeClamp
)

// String returns the policy name.
func (p ZeroSizePolicy) String() string {
	if p == ZeroSizeClamp {
		return "clamp"
	}
	return "reject"
}

// ParseZeroSizePolicy parses the names produced by String.
func ParseZeroSizePolicy(s string) (ZeroSizePolicy, error) {
	switch s {
	case "", "reject":
		return ZeroSizeReject, nil
	case "clamp":
		return ZeroSizeClamp, nil
	}
	return ZeroSizeReject, fmt.Errorf("surface: unknown zero-size policy %q", s)
}

// Config is the surface configuration.
type Config struct {
	// Format is the texture format, fixed for the lifetime of the surface.
	Format gputypes.TextureFormat

	// Width and Height are the surface size in physical pixels.
	Width  uint32
	Height uint32

	// PresentMode defaults to PresentModeFifo.
	PresentMode PresentMode

	// Usage is always gputypes.TextureUsageRenderAttachment.
	Usage gputypes.TextureUsage
}

// Handle holds the native window handles a surface is created from.
// On X11 Display is the Display* and Window the XID; on Windows Display is
// the HINSTANCE and Window the HWND.
type Handle struct {
	Display uintptr
	Window  uintptr
}
