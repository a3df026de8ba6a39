// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "errors"

// Frame errors.
var (
	// ErrFrameInProgress is returned by Record when a frame is already being
	// recorded, e.g. when Record is called from inside the frame function.
	ErrFrameInProgress = errors.New("frame: a frame is already in progress")

	// ErrAcquire wraps a failure to acquire the surface texture.
	ErrAcquire = errors.New("frame: failed to acquire surface texture")

	// ErrNoPipeline is returned by Draw before any pipeline was bound.
	ErrNoPipeline = errors.New("frame: draw without a bound pipeline")

	// ErrBuilderExpired is returned by a Builder used after its frame function
	// returned.
	ErrBuilderExpired = errors.New("frame: builder used outside its frame")

	// ErrInvalidRange is returned for a range with Start > End.
	ErrInvalidRange = errors.New("frame: range start is past its end")

	// ErrClearColor is returned for a clear color component outside [0, 1].
	ErrClearColor = errors.New("frame: clear color component out of range")

	// ErrFenceTimeout is returned when the GPU did not finish the frame in time.
	ErrFenceTimeout = errors.New("frame: timed out waiting for the GPU")
)
