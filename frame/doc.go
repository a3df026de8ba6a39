// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame records one render pass per frame and presents it.
//
// A frame walks a fixed state machine:
//
//	Idle -> Acquired -> PassOpen -> Submitted -> Idle
//	          |            |
//	          +------------+--> Idle   (error: nothing submitted)
//
// Recorder.Record acquires a surface texture, opens a render pass that clears
// it, lets the caller bind pipelines and draw through a Builder, then submits,
// waits for the GPU and presents. If anything fails before submission the
// command buffer is dropped, the texture is discarded and the recorder is back
// in Idle, ready for the next frame.
//
// A Builder is only valid inside the function passed to Record. Keeping it and
// calling it later returns ErrBuilderExpired.
//
// Recorders are not safe for concurrent use.
package frame
