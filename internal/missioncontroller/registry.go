package missioncontroller

import (
	"fmt"
	"sync"

	"cloupeer.io/missiontransfer/pkg/missiontransfer"
)

// Registry is an in-memory CoordinatorRegistry keyed by vehicle name.
type Registry struct {
	mu           sync.RWMutex
	coordinators map[string]*missiontransfer.Coordinator
}

func NewRegistry() *Registry {
	return &Registry{coordinators: make(map[string]*missiontransfer.Coordinator)}
}

// Register associates a vehicle name with the Coordinator driving its
// link. Re-registering a name replaces the previous Coordinator.
func (reg *Registry) Register(vehicleName string, c *missiontransfer.Coordinator) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.coordinators[vehicleName] = c
}

// Unregister removes a vehicle's Coordinator, typically once its link
// has dropped.
func (reg *Registry) Unregister(vehicleName string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.coordinators, vehicleName)
}

func (reg *Registry) Coordinator(vehicleName string) (*missiontransfer.Coordinator, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	c, ok := reg.coordinators[vehicleName]
	if !ok {
		return nil, fmt.Errorf("no active link registered for vehicle %q", vehicleName)
	}
	return c, nil
}

// Names returns the vehicle names currently registered, for diagnostics.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.coordinators))
	for name := range reg.coordinators {
		names = append(names, name)
	}
	return names
}

// Each calls fn for every registered vehicle's Coordinator.
func (reg *Registry) Each(fn func(vehicleName string, c *missiontransfer.Coordinator)) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for name, c := range reg.coordinators {
		fn(name, c)
	}
}

var _ CoordinatorRegistry = (*Registry)(nil)
