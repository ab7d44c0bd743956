package normalize

import (
	"sort"
	"strings"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/types"
)

// DriverRegistry resolves free-text driver names to canonical registry entries
type DriverRegistry struct {
	names   []string // canonical names in lookup order
	entries map[string]config.DriverEntry
}

// NewDriverRegistry builds a registry from the configured driver table
func NewDriverRegistry(drivers config.Drivers) *DriverRegistry {
	r := &DriverRegistry{entries: make(map[string]config.DriverEntry, len(drivers.Canonical))}
	for name, entry := range drivers.Canonical {
		r.names = append(r.names, name)
		r.entries[name] = entry
	}
	sort.Strings(r.names)
	return r
}

// Canonicalize looks name up by canonical name or alias. Unknown names are
// returned as their own canonical form with pending_review status.
func (r *DriverRegistry) Canonicalize(name string) types.DriverInfo {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return types.DriverInfo{
			Original: name,
			Status:   types.DriverStatusPendingReview,
		}
	}

	if r != nil {
		for _, canonical := range r.names {
			entry := r.entries[canonical]
			if trimmed == canonical || contains(entry.Aliases, trimmed) {
				status := entry.Status
				if status == "" {
					status = types.DriverStatusActive
				}
				return types.DriverInfo{
					Original:  trimmed,
					Canonical: canonical,
					Known:     true,
					Status:    status,
				}
			}
		}
	}

	return types.DriverInfo{
		Original:  trimmed,
		Canonical: trimmed,
		Status:    types.DriverStatusPendingReview,
	}
}

// IsKnown reports whether name resolves to a registry entry
func (r *DriverRegistry) IsKnown(name string) bool {
	return r.Canonicalize(name).Known
}

// Len returns the number of canonical drivers
func (r *DriverRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
