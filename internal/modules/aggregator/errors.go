package aggregator

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("project_not_found")

// InactiveProvider identifies one provider that blocked finalization.
type InactiveProvider struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InactiveProvidersError aborts finalization when a selected bid's provider
// is no longer ACTIVE. It carries the offenders' names so the
// customer-facing failure can say who dropped out.
type InactiveProvidersError struct {
	Providers []InactiveProvider
}

func (e *InactiveProvidersError) Error() string {
	return "provider no longer active: " + strings.Join(e.Names(), ", ")
}

// Names returns one label per offender, falling back to the id when the
// provider row is gone from storage.
func (e *InactiveProvidersError) Names() []string {
	names := make([]string, 0, len(e.Providers))
	for _, p := range e.Providers {
		if p.Name == "" {
			names = append(names, fmt.Sprintf("provider #%d", p.ID))
			continue
		}
		names = append(names, p.Name)
	}
	return names
}

func (e *InactiveProvidersError) IDs() []int64 {
	ids := make([]int64, 0, len(e.Providers))
	for _, p := range e.Providers {
		ids = append(ids, p.ID)
	}
	return ids
}
