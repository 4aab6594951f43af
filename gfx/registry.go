// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new, unconfigured backend instance.
type Factory func() Backend

// RegistryEntry describes a registered backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU backends (Vulkan)
	//   - 10: CPU backends
	//   - 1: null devices that accept work but draw nothing
	Priority int

	// Factory creates backend instances.
	Factory Factory

	// Available reports if the backend can run on this system.
	Available func() bool
}

// Registry manages registered backends.
//
// Backend packages register themselves from init:
//
//	func init() {
//	    gfx.Register("headless", 10, func() gfx.Backend { return New() }, nil)
//	}
//
// and applications select one by name or take the best available:
//
//	b, err := gfx.New("vulkan")
//	b, err := gfx.Default()
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

var globalRegistry = &Registry{}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and New.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a backend to the global registry.
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) { globalRegistry.Unregister(name) }

// List returns all registered backend names sorted by priority.
func List() []string { return globalRegistry.List() }

// Available returns names of available backends sorted by priority.
func Available() []string { return globalRegistry.Available() }

// Get returns information about a registered backend.
func Get(name string) (*RegistryEntry, bool) { return globalRegistry.Get(name) }

// New creates a backend by name from the global registry.
func New(name string) (Backend, error) { return globalRegistry.New(name) }

// Default creates the highest-priority available backend from the global
// registry.
func Default() (Backend, error) { return globalRegistry.Default() }

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns names of available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// Get returns a copy of the entry for name.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// New creates a backend by name. It fails with ErrBackendNotAvailable when
// the name is unknown or the backend cannot run here.
func (r *Registry) New(name string) (Backend, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrBackendNotAvailable, name)
	}
	if !entry.Available() {
		return nil, fmt.Errorf("%w: %q is unavailable on this system", ErrBackendNotAvailable, name)
	}
	b := entry.Factory()
	if b == nil {
		return nil, fmt.Errorf("%w: %q factory returned nil", ErrBackendNotAvailable, name)
	}
	return b, nil
}

// Default creates the highest-priority available backend.
func (r *Registry) Default() (Backend, error) {
	r.mu.RLock()
	names := r.sortedNames(true)
	r.mu.RUnlock()

	for _, name := range names {
		if b, err := r.New(name); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: no backend registered", ErrBackendNotAvailable)
}

// sortedNames returns backend names sorted by priority (highest first, then
// by name). Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
