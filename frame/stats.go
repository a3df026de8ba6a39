// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"time"

	"github.com/gogpu/gputypes"
)

// Stats describes a submitted frame.
type Stats struct {
	// Frame is the 1-based sequence number among submitted frames.
	Frame uint64

	// Binds and Draws count BindPipeline and non-empty Draw calls.
	Binds int
	Draws int

	// Vertices is the total vertex invocations, vertices times instances.
	Vertices uint64

	// Instances is the total instance count over all draws.
	Instances uint64

	// Clear is the color the pass was cleared to.
	Clear gputypes.Color

	// Width and Height are the size of the presented texture.
	Width  uint32
	Height uint32

	// Suboptimal reports that the surface asked to be reconfigured.
	Suboptimal bool
}

// Observer is notified about every frame outcome.
type Observer interface {
	// FrameSubmitted is called after a frame was submitted and presented.
	FrameSubmitted(stats Stats, elapsed time.Duration)

	// FrameFailed is called when a frame ends with an error.
	FrameFailed(err error)
}

// Observers fans out notifications to every non-nil observer.
func Observers(obs ...Observer) Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) FrameSubmitted(stats Stats, elapsed time.Duration) {
	for _, o := range m {
		o.FrameSubmitted(stats, elapsed)
	}
}

func (m multiObserver) FrameFailed(err error) {
	for _, o := range m {
		o.FrameFailed(err)
	}
}
