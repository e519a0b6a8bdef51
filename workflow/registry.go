package workflow

import "sync"

// ProcessorRegistry maps node ids to the Processor that executes them.
// It is instance-scoped: each Engine owns one, so independent engines and
// tests never interfere. Registration and lookup are safe for concurrent
// use by multiple in-flight runs.
type ProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]Processor
}

// NewProcessorRegistry creates an empty registry.
func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{processors: make(map[string]Processor)}
}

// Register binds a processor to a node id, replacing any previous binding.
func (r *ProcessorRegistry) Register(nodeID string, p Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[nodeID] = p
}

// Unregister removes the binding for a node id, if any.
func (r *ProcessorRegistry) Unregister(nodeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.processors, nodeID)
}

// Get returns the processor bound to a node id.
func (r *ProcessorRegistry) Get(nodeID string) (Processor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.processors[nodeID]
	return p, ok
}

// Len returns the number of registered processors.
func (r *ProcessorRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}
