// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface manages the presentable surface of a window.
//
// A Target is the platform half: it reports the formats it can present, is
// configured with a size, format and present mode, and hands out one texture
// per frame. HalTarget implements Target on a hal.Surface created from native
// window handles.
//
// A Manager owns a Target and its configuration. It decides the format once,
// at creation, and keeps the configuration consistent across resizes:
//
//	m, err := surface.NewManager(device, target, surface.Config{
//	    Format: format,
//	    Width:  800,
//	    Height: 600,
//	})
//	tex, err := m.Acquire()
//	// ... record into tex.View ...
//	err = m.Present(queue)
//
// # Resizing
//
// A zero-sized window cannot be presented to. With ZeroSizeReject (the
// default) Resize returns ErrZeroSize and keeps the previous configuration;
// with ZeroSizeClamp each zero dimension is raised to 1.
//
// While a texture is acquired, Resize only records the new size. The latest
// recorded size is applied as soon as the texture is presented or discarded,
// so a frame never sees its surface change underneath it.
//
// Managers are not safe for concurrent use.
package surface
