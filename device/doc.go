// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package device selects a GPU backend and opens a device on it.
//
// Backends register themselves in a priority-ordered registry. The built-in
// entries are the Vulkan backend from gogpu/wgpu (priority 100) and the noop
// backend (priority 0), which has no hardware requirements and is what tests and
// headless tools use. The noop backend is explicit: it is only created when
// asked for by name, so a machine without a GPU fails with
// ErrNoBackendAvailable instead of silently rendering nothing.
//
//	inst, name, err := device.NewInstance("")   // best available backend
//	ctx, err := device.Open(inst, name, device.Options{})
//	defer ctx.Destroy()
//
// Adapter selection honours a compatibility predicate, normally "can present to
// this surface", and a power preference. If no adapter is usable, Open fails with
// ErrNoAdapter or ErrNoCompatibleAdapter. Nothing in this package retries.
package device
