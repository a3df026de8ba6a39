// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// stubAPI creates noop instances, or fails with err, and counts calls.
type stubAPI struct {
	err   error
	calls *int
}

func (a stubAPI) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	if a.calls != nil {
		*a.calls++
	}
	if a.err != nil {
		return nil, a.err
	}
	return noop.API{}.CreateInstance(desc)
}

func never() bool { return false }

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "software", Priority: 10, API: noop.API{}})
	r.Register(Backend{Name: "vulkan", Priority: 100, API: noop.API{}})
	r.Register(Backend{Name: "metal", Priority: 50, API: noop.API{}})
	r.Register(Backend{Name: "gles", Priority: 50, API: noop.API{}, Probe: never})

	if got, want := r.List(), []string{"vulkan", "gles", "metal", "software"}; !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got, want := r.Available(), []string{"vulkan", "metal", "software"}; !slices.Equal(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

func TestRegistryReplaceAndRemove(t *testing.T) {
	r := NewRegistry()
	r.Register(Backend{Name: "a", Priority: 1, API: noop.API{}})
	r.Register(Backend{Name: "b", Priority: 2, API: noop.API{}})
	r.Register(Backend{Name: "a", Priority: 3, API: noop.API{}})

	if got, want := r.List(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	b, ok := r.Get("a")
	if !ok || b.Priority != 3 {
		t.Errorf("Get(a) = %+v, %v; want priority 3", b, ok)
	}
	if !b.Usable() {
		t.Error("backend without probe should be usable")
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Get(a) found an unregistered backend")
	}
	r.Unregister("missing")
	if len(r.List()) != 1 {
		t.Errorf("List() = %v after unregister", r.List())
	}
}

func TestRegistryAutomaticSelection(t *testing.T) {
	var brokenCalls, skippedCalls int
	r := NewRegistry()
	r.Register(Backend{Name: "broken", Priority: 100, API: stubAPI{err: errors.New("no driver"), calls: &brokenCalls}})
	r.Register(Backend{Name: "skipped", Priority: 90, API: stubAPI{calls: &skippedCalls}, Probe: never})
	r.Register(Backend{Name: "fallback", Priority: 0, API: stubAPI{}})

	inst, name, err := r.NewInstance("")
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	defer inst.Destroy()

	if name != "fallback" {
		t.Errorf("selected %q, want fallback", name)
	}
	if brokenCalls != 1 || skippedCalls != 0 {
		t.Errorf("calls broken=%d skipped=%d, want 1 and 0", brokenCalls, skippedCalls)
	}
}

func TestRegistryAllFail(t *testing.T) {
	first, second := errors.New("first"), errors.New("second")
	r := NewRegistry()
	r.Register(Backend{Name: "x", Priority: 2, API: stubAPI{err: first}})
	r.Register(Backend{Name: "y", Priority: 1, API: stubAPI{err: second}})

	_, _, err := r.NewInstance("")
	if !errors.Is(err, ErrNoBackendAvailable) || !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("NewInstance error = %v, want ErrNoBackendAvailable with both causes", err)
	}

	if _, _, err := NewRegistry().NewInstance(""); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("empty registry error = %v, want ErrNoBackendAvailable", err)
	}
}

func TestRegistryExplicitBackendSkipped(t *testing.T) {
	var headlessCalls int
	gpuErr := errors.New("no vulkan driver")
	r := NewRegistry()
	r.Register(Backend{Name: "gpu", Priority: PriorityGPU, API: stubAPI{err: gpuErr}})
	r.Register(Backend{Name: "headless", Priority: PriorityNoop, API: stubAPI{calls: &headlessCalls}, Explicit: true})

	_, _, err := r.NewInstance("")
	if !errors.Is(err, ErrNoBackendAvailable) || !errors.Is(err, gpuErr) {
		t.Errorf("NewInstance error = %v, want ErrNoBackendAvailable joined with the gpu error", err)
	}
	if headlessCalls != 0 {
		t.Errorf("explicit backend was tried %d times by automatic selection", headlessCalls)
	}

	inst, name, err := r.NewInstance("headless")
	if err != nil {
		t.Fatalf("NewInstance(headless) failed: %v", err)
	}
	inst.Destroy()
	if name != "headless" || headlessCalls != 1 {
		t.Errorf("name = %q, calls = %d; want headless, 1", name, headlessCalls)
	}
}

func TestRegistryNamedSelection(t *testing.T) {
	cause := errors.New("creation failed")
	r := NewRegistry()
	r.Register(Backend{Name: "noop", API: noop.API{}})
	r.Register(Backend{Name: "off", Priority: 50, API: noop.API{}, Probe: never})
	r.Register(Backend{Name: "failing", Priority: 50, API: stubAPI{err: cause}})

	inst, name, err := r.NewInstance("noop")
	if err != nil {
		t.Fatalf("NewInstance(noop) failed: %v", err)
	}
	inst.Destroy()
	if name != "noop" {
		t.Errorf("name = %q, want noop", name)
	}

	var notFound *BackendNotFoundError
	if _, _, err := r.NewInstance("dx9"); !errors.As(err, &notFound) || notFound.Name != "dx9" {
		t.Errorf("unknown backend error = %v", err)
	}
	var unavailable *BackendUnavailableError
	if _, _, err := r.NewInstance("off"); !errors.As(err, &unavailable) {
		t.Errorf("unavailable backend error = %v", err)
	}
	if _, _, err := r.NewInstance("failing"); !errors.Is(err, cause) {
		t.Errorf("failing backend error = %v", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	list := List()
	if !slices.Contains(list, "vulkan") || !slices.Contains(list, "noop") {
		t.Fatalf("List() = %v, want vulkan and noop", list)
	}
	if list[len(list)-1] != "noop" {
		t.Errorf("noop should be the last resort, got %v", list)
	}
	if !slices.Contains(Available(), "noop") {
		t.Error("noop is always available")
	}
	if b, ok := Get("noop"); !ok || b.Priority != PriorityNoop || !b.Explicit {
		t.Errorf("Get(noop) = %+v, %v; want an explicit backend", b, ok)
	}

	inst, _, err := NewInstance("noop")
	if err != nil {
		t.Fatalf("NewInstance(noop) failed: %v", err)
	}
	inst.Destroy()
}

func TestBackendErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&BackendNotFoundError{Name: "vulkan"}, "device: backend not found: vulkan"},
		{&BackendUnavailableError{Name: "metal"}, "device: backend unavailable: metal"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
