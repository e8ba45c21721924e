package wasmmem

import "sync"

// registry is the process-wide list of live memory instances, consulted by
// IsAddressOwnedByMemory to decide whether a host fault address belongs to
// runtime-managed memory. Membership interval: from just after a successful
// reservation (Create/Clone) to just before ReleaseVirtualPages (Close).
//
// A flat list with a linear scan is deliberate, not an oversight: the fault
// path that calls IsAddressOwnedByMemory is already slow (a signal handler,
// or an explicit host accessor raising a trap), so an interval tree would be
// an optional optimization, never a correctness requirement. See spec.md §9.
var registry = struct {
	mu   sync.RWMutex
	live []*MemoryInstance
}{}

// registerMemory adds m to the global registry. Called once, by Create/Clone,
// after the reservation succeeds and before the memory is published to its
// compartment.
func registerMemory(m *MemoryInstance) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.live = append(registry.live, m)
}

// deregisterMemory removes m from the global registry. Called by Close,
// after the compartment slot has been torn down and before the reservation
// is released.
func deregisterMemory(m *MemoryInstance) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for i, live := range registry.live {
		if live == m {
			last := len(registry.live) - 1
			registry.live[i] = registry.live[last]
			registry.live[last] = nil
			registry.live = registry.live[:last]
			return
		}
	}
}

// IsAddressOwnedByMemory returns true iff p falls within [base, base+end)
// for some live memory. Guard pages are deliberately excluded from the
// comparison, matching the teacher's own fault-attribution policy (see
// spec.md §4.3): a fault in the guard region is attributed via the hardware
// trap and the handler's recognition of the faulting instruction, not via
// this range check.
func IsAddressOwnedByMemory(p uintptr) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	for _, m := range registry.live {
		if m.ownsAddress(p) {
			return true
		}
	}
	return false
}

// registrySnapshotForTest exposes a read-only copy of the live set so tests
// can assert scenario 7 (post-destruction exoneration) without depending on
// iteration order.
func registrySnapshotForTest() []*MemoryInstance {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	out := make([]*MemoryInstance, len(registry.live))
	copy(out, registry.live)
	return out
}
