// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "fmt"

// State is the recorder's position in the frame protocol.
type State uint8

const (
	// Idle means no frame is in progress.
	Idle State = iota

	// Acquired means a surface texture is held but no pass is open.
	Acquired

	// PassOpen means the render pass is recording.
	PassOpen

	// Submitted means the commands were submitted and the texture is being
	// presented.
	Submitted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Acquired:
		return "Acquired"
	case PassOpen:
		return "PassOpen"
	case Submitted:
		return "Submitted"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}
