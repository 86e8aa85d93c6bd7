package usecase

import (
	"strings"

	"github.com/semmidev/archivist/internal/domain"
)

// FilterManifest keeps the entries matching filters. Patterns are applied one
// after another: every new match of the first pattern, in manifest order, comes
// before any new match of the second, and so on. Matching and deduplication
// are case-insensitive.
func FilterManifest(manifest domain.Manifest, filters domain.Filters) domain.Manifest {
	if filters.IsAll() {
		return manifest
	}

	included := make(map[string]struct{}, len(manifest))
	filtered := make(domain.Manifest, 0, len(manifest))

	for _, pattern := range filters.Patterns() {
		needle := strings.ToLower(pattern)
		for _, entry := range manifest {
			key := strings.ToLower(entry)
			if !strings.Contains(key, needle) {
				continue
			}
			if _, ok := included[key]; ok {
				continue
			}
			included[key] = struct{}{}
			filtered = append(filtered, entry)
		}
	}

	return filtered
}
