// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wgrender/internal/logging"
	"github.com/gogpu/wgrender/pipeline"
	"github.com/gogpu/wgrender/surface"
)

// DefaultFenceTimeout bounds the wait for a submitted frame.
const DefaultFenceTimeout = 5 * time.Second

// pollInterval is the sleep between completion checks.
const pollInterval = 100 * time.Microsecond

// Option configures a Recorder.
type Option func(*Recorder)

// WithFenceTimeout sets how long Record waits for the GPU. Non-positive
// values select DefaultFenceTimeout.
func WithFenceTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithObserver sets the observer notified about frame outcomes.
func WithObserver(o Observer) Option {
	return func(r *Recorder) { r.observer = o }
}

// Recorder drives the frame protocol over a surface and a pipeline registry.
type Recorder struct {
	device   hal.Device
	queue    hal.Queue
	surface  *surface.Manager
	registry *pipeline.Registry

	timeout      time.Duration
	observer     Observer
	onTransition func(from, to State)

	state  State
	frames uint64
	last   Stats
}

// NewRecorder creates a Recorder.
func NewRecorder(device hal.Device, queue hal.Queue, surf *surface.Manager, registry *pipeline.Registry, opts ...Option) *Recorder {
	r := &Recorder{
		device:   device,
		queue:    queue,
		surface:  surf,
		registry: registry,
		timeout:  DefaultFenceTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current frame state.
func (r *Recorder) State() State { return r.state }

// LastFrame returns the stats of the last submitted frame.
func (r *Recorder) LastFrame() Stats { return r.last }

// Frames returns the number of frames submitted.
func (r *Recorder) Frames() uint64 { return r.frames }

// OnTransition registers fn to be called on every state change.
// Passing nil removes the hook.
func (r *Recorder) OnTransition(fn func(from, to State)) {
	r.onTransition = fn
}

// Record records and presents one frame.
//
// The acquired texture is cleared to clear, then fn records draws through the
// Builder. If fn or the Builder fails, nothing is submitted and the error is
// returned. fn may be nil to present a cleared frame. If fn panics the frame is
// abandoned, the recorder returns to Idle and the panic continues.
func (r *Recorder) Record(clear gputypes.Color, fn func(*Builder) error) error {
	if r.state != Idle {
		return ErrFrameInProgress
	}
	if err := CheckClearColor(clear); err != nil {
		return err
	}
	start := time.Now()

	tex, err := r.surface.Acquire()
	if err != nil {
		return r.failed(fmt.Errorf("%w: %w", ErrAcquire, err))
	}
	r.setState(Acquired)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return r.abort(fmt.Errorf("frame: create command encoder: %w", err))
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return r.abort(fmt.Errorf("frame: begin encoding: %w", err))
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       tex.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	})
	b := &Builder{pass: pass, view: r.registry.Borrow()}
	r.setState(PassOpen)

	ended := false
	endPass := func() {
		if ended {
			return
		}
		ended = true
		b.expire()
		pass.End()
		b.view.Release()
	}
	defer func() {
		if p := recover(); p != nil {
			endPass()
			encoder.DiscardEncoding()
			r.surface.Discard()
			r.setState(Idle)
			panic(p)
		}
	}()

	var fnErr error
	if fn != nil {
		fnErr = fn(b)
	}
	endPass()

	if err := firstError(b.err, fnErr); err != nil {
		encoder.DiscardEncoding()
		return r.abort(err)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return r.abort(fmt.Errorf("frame: end encoding: %w", err))
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	idx, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return r.abort(fmt.Errorf("frame: submit: %w", err))
	}
	r.setState(Submitted)

	// An unfinished frame is discarded, never presented.
	if err := r.wait(idx); err != nil {
		return r.abort(err)
	}
	presentErr := r.surface.Present(r.queue)
	r.setState(Idle)
	if presentErr != nil {
		return r.failed(presentErr)
	}

	r.frames++
	r.last = Stats{
		Frame:      r.frames,
		Binds:      b.binds,
		Draws:      b.draws,
		Vertices:   b.vertices,
		Instances:  b.instances,
		Clear:      clear,
		Width:      tex.Width,
		Height:     tex.Height,
		Suboptimal: tex.Suboptimal,
	}
	if r.observer != nil {
		r.observer.FrameSubmitted(r.last, time.Since(start))
	}
	return nil
}

// wait blocks until the queue reports submission idx complete or the
// timeout expires.
func (r *Recorder) wait(idx uint64) error {
	deadline := time.Now().Add(r.timeout)
	for r.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %s", ErrFenceTimeout, r.timeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// abort releases an unsubmitted frame and reports err.
func (r *Recorder) abort(err error) error {
	r.surface.Discard()
	r.setState(Idle)
	return r.failed(err)
}

func (r *Recorder) failed(err error) error {
	logging.Logger().Debug("frame: failed", "error", err)
	if r.observer != nil {
		r.observer.FrameFailed(err)
	}
	return err
}

func (r *Recorder) setState(s State) {
	from := r.state
	if from == s {
		return
	}
	r.state = s
	if r.onTransition != nil {
		r.onTransition(from, s)
	}
}

// CheckClearColor reports ErrClearColor unless every component of c is within
// [0, 1].
func CheckClearColor(c gputypes.Color) error {
	for _, v := range [...]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A)} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %v", ErrClearColor, c)
		}
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

