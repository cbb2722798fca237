package extract

import "go.uber.org/zap"

// availabilityProber is implemented by backends whose underlying tools may
// be absent at runtime. Backends that fail the probe are never registered,
// so the orchestrator loop needs no scattered presence checks.
type availabilityProber interface {
	Available() bool
}

// Registry holds the set of registered backends in a fixed order.
// The order doubles as the orchestrator's deterministic tie-break.
type Registry struct {
	backends []Backend
}

// NewRegistry creates an empty registry. Use this to build a custom
// registry with only the backends you need.
func NewRegistry() *Registry {
	return &Registry{backends: make([]Backend, 0)}
}

// DefaultRegistry creates a registry with every built-in backend whose
// underlying dependency initializes successfully, in the fixed priority
// order: layout, stream, table, ocr, docx, html, plaintext, llamaparse.
func DefaultRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := NewRegistry()
	r.Register(&LayoutBackend{})
	r.Register(&StreamBackend{})
	r.Register(&TableBackend{})
	r.Register(NewOCRBackend(nil, logger))
	r.Register(&DocxBackend{})
	r.Register(&HTMLBackend{})
	r.Register(&PlainTextBackend{})
	r.Register(NewLlamaBackend(logger))
	return r
}

// Register adds a backend to the registry. Backends exposing an Available
// probe are skipped when the probe fails.
func (r *Registry) Register(b Backend) {
	if p, ok := b.(availabilityProber); ok && !p.Available() {
		return
	}
	r.backends = append(r.backends, b)
}

// Backends returns all registered backends in registration order.
func (r *Registry) Backends() []Backend {
	return r.backends
}

// BackendsFor returns the registered backends that can handle the given
// file path, preserving registration order.
func (r *Registry) BackendsFor(path string) []Backend {
	matched := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		if b.CanExtract(path) {
			matched = append(matched, b)
		}
	}
	return matched
}
