// internal/clue/providers.go
//
// Boundary interfaces for the external services clue selection depends on.
// Both are best-effort: an empty result is acceptable and errors feed the
// selector's fallback chain rather than surfacing to players.

package clue

import "context"

// SynonymProvider returns candidate alternative terms for a word.
type SynonymProvider interface {
	Lookup(ctx context.Context, word string) ([]string, error)
}

// SearchProvider returns absolute result URLs for a query.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]string, error)
}
