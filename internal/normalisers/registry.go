package normalisers

import (
	"sort"
	"sync"

	"github.com/custodia-labs/borehole-cli/internal/core/domain"
	"github.com/custodia-labs/borehole-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches attributes to normalisers by priority.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.AttributeNormaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser. Normalisers of equal priority keep
// registration order.
func (r *Registry) Register(n driven.AttributeNormaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// ForAttribute returns the highest-priority normaliser accepting attribute.
func (r *Registry) ForAttribute(attribute string) (driven.AttributeNormaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		if n.Accepts(attribute) {
			return n, true
		}
	}
	return nil, false
}

// Kind returns the attribute kind of the selected normaliser.
func (r *Registry) Kind(attribute string) (domain.AttributeKind, bool) {
	n, ok := r.ForAttribute(attribute)
	if !ok {
		return "", false
	}
	return n.Kind(), true
}
