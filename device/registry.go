// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Backend priorities of the built-in backends.
const (
	PriorityGPU  = 100
	PriorityNoop = 0
)

// API creates hal instances. Every hal backend and noop.API satisfy it.
type API interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Backend is a registered way of creating hal instances.
type Backend struct {
	Name string

	// Priority orders automatic selection, highest first. Equal priorities
	// are ordered by name.
	Priority int

	API API

	// Probe reports whether the backend can run on this machine. Nil means
	// always.
	Probe func() bool

	// Explicit backends are only created by name and never chosen by
	// automatic selection. The headless noop backend is explicit.
	Explicit bool
}

// Usable reports whether the backend can be selected.
func (b Backend) Usable() bool {
	return b.Probe == nil || b.Probe()
}

// Registry is a priority-ordered set of backends, safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	backends []Backend // sorted by priority, then name
}

// NewRegistry returns an empty registry. Most callers use the package-level
// functions, which operate on the default registry holding vulkan and noop.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// Register adds b to the default registry, replacing a backend of the same name.
func Register(b Backend) { defaultRegistry.Register(b) }

// Unregister removes the named backend from the default registry.
func Unregister(name string) { defaultRegistry.Unregister(name) }

// List returns the names in the default registry, preferred first.
func List() []string { return defaultRegistry.List() }

// Available is like List but skips backends whose probe fails.
func Available() []string { return defaultRegistry.Available() }

// Get looks up a backend in the default registry.
func Get(name string) (Backend, bool) { return defaultRegistry.Get(name) }

// NewInstance creates an instance from the default registry. See
// Registry.NewInstance.
func NewInstance(name string) (hal.Instance, string, error) {
	return defaultRegistry.NewInstance(name)
}

// Register adds b, replacing a backend of the same name.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backends = slices.DeleteFunc(r.backends, func(x Backend) bool { return x.Name == b.Name })
	r.backends = append(r.backends, b)
	slices.SortStableFunc(r.backends, func(x, y Backend) int {
		if c := cmp.Compare(y.Priority, x.Priority); c != 0 {
			return c
		}
		return cmp.Compare(x.Name, y.Name)
	})
}

// Unregister removes the named backend.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends = slices.DeleteFunc(r.backends, func(x Backend) bool { return x.Name == name })
}

// List returns every backend name, preferred first.
func (r *Registry) List() []string {
	return r.names(func(Backend) bool { return true })
}

// Available returns the names of usable backends, preferred first.
func (r *Registry) Available() []string {
	return r.names(Backend.Usable)
}

// Get looks up a backend by name.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.backends, func(b Backend) bool { return b.Name == name })
	if i < 0 {
		return Backend{}, false
	}
	return r.backends[i], true
}

// NewInstance creates a hal instance and returns it with the name of the
// backend that created it.
//
// A non-empty name selects that backend only. An empty name tries usable,
// non-explicit backends in priority order; if none succeeds the result is
// ErrNoBackendAvailable joined with every creation error.
func (r *Registry) NewInstance(name string) (hal.Instance, string, error) {
	if name != "" {
		b, ok := r.Get(name)
		if !ok {
			return nil, "", &BackendNotFoundError{Name: name}
		}
		inst, err := create(b)
		if err != nil {
			return nil, "", err
		}
		return inst, name, nil
	}

	r.mu.RLock()
	candidates := slices.Clone(r.backends)
	r.mu.RUnlock()

	var errs []error
	for _, b := range candidates {
		if b.Explicit || !b.Usable() {
			continue
		}
		inst, err := create(b)
		if err == nil {
			return inst, b.Name, nil
		}
		errs = append(errs, err)
	}
	return nil, "", errors.Join(append([]error{ErrNoBackendAvailable}, errs...)...)
}

func create(b Backend) (hal.Instance, error) {
	if !b.Usable() {
		return nil, &BackendUnavailableError{Name: b.Name}
	}
	inst, err := b.API.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("device: create %s instance: %w", b.Name, err)
	}
	return inst, nil
}

func (r *Registry) names(keep func(Backend) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, b := range r.backends {
		if keep(b) {
			out = append(out, b.Name)
		}
	}
	return out
}

// ErrNoBackendAvailable is returned when automatic selection cannot create an
// instance on any backend.
var ErrNoBackendAvailable = errors.New("device: no backend available")

// BackendNotFoundError reports a name that was never registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "device: backend not found: " + e.Name
}

// BackendUnavailableError reports a registered backend whose probe failed.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "device: backend unavailable: " + e.Name
}

// halBackend looks its hal backend up on use, after every backend package has
// run its init.
type halBackend struct {
	name string
	kind gputypes.Backend
}

func (b halBackend) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	backend, ok := hal.GetBackend(b.kind)
	if !ok {
		return nil, &BackendUnavailableError{Name: b.name}
	}
	return backend.CreateInstance(desc)
}

func (b halBackend) probe() bool {
	_, ok := hal.GetBackend(b.kind)
	return ok
}

func init() {
	vk := halBackend{name: "vulkan", kind: gputypes.BackendVulkan}
	Register(Backend{Name: vk.name, Priority: PriorityGPU, API: vk, Probe: vk.probe})
	Register(Backend{Name: "noop", Priority: PriorityNoop, API: noop.API{}, Explicit: true})
}
