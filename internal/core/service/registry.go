// Package service holds the gateway's thin orchestration layer between the
// HTTP handlers and the carrier adapters.
package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
)

// Registry resolves carrier names to adapters. Registration happens at
// startup; lookups afterwards are read-only, so no locking is needed.
type Registry struct {
	carriers map[string]ports.Carrier
}

func NewRegistry() *Registry {
	return &Registry{carriers: make(map[string]ports.Carrier)}
}

// Register adds a carrier under its lower-cased name.
func (r *Registry) Register(c ports.Carrier) {
	r.carriers[strings.ToLower(c.Name())] = c
}

// Resolve returns the carrier registered under name, case-insensitively.
func (r *Registry) Resolve(name string) (ports.Carrier, error) {
	c, ok := r.carriers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrUnknownCarrier)
	}
	return c, nil
}

// Names returns the registered carrier names, sorted for stable output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.carriers))
	for name := range r.carriers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
