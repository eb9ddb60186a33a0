// internal/clue/selector.go
//
// Clue selection for a hidden word in a game session.
// Responsibilities:
//   - Source synonym candidates and pick an unused search term for the word
//     (falling back to the word itself when everything has been used).
//   - Search the web for the chosen term and pick a result URL the session
//     has not seen, skipping search-engine result pages.
//   - Degrade gracefully: provider failure or an empty result set never
//     reaches the player, it just drops to the next fallback tier.
//
// Fallback tiers for the URL:
//   1. Random unused, non-search-engine result.
//   2. First raw result that is at least a valid http(s) URL (reuse allowed).
//   3. Deterministic dictionary page built from the search term (no network).
//
// Used terms and URLs are recorded on the session before returning, so the
// same clue is never knowingly repeated within one session.

package clue

import (
	"context"
	"math/rand"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/phrasehunt/go-server/internal/game"
)

// referenceURLBase is the tier-3 fallback; the search term is appended.
const referenceURLBase = "https://en.wiktionary.org/wiki/"

// searchEngineHosts marks URLs that are themselves search result pages.
var searchEngineHosts = []string{
	"duckduckgo.com",
	"google.",
	"bing.com",
	"search.yahoo.",
	"yandex.",
	"baidu.com",
	"ecosia.org",
}

// Clue is a single hint for a hidden word.
type Clue struct {
	URL        string `json:"url"`
	SearchTerm string `json:"searchTerm"`
}

// Selector picks clues using external synonym and search providers.
// IntN is the randomness source for term/URL picks; it defaults to
// math/rand and is overridable for deterministic tests.
type Selector struct {
	Synonyms SynonymProvider
	Search   SearchProvider
	IntN     func(n int) int
}

// NewSelector wires a selector over the given providers.
func NewSelector(syn SynonymProvider, search SearchProvider) *Selector {
	return &Selector{Synonyms: syn, Search: search, IntN: rand.Intn}
}

// GetClue produces a hint URL for the hidden word at wordIndex. Unknown or
// non-hidden words yield an empty Clue.
func (s *Selector) GetClue(ctx context.Context, sess *game.Session, wordIndex int) Clue {
	w, ok := sess.Phrase.WordAt(wordIndex)
	if !ok || !w.Hidden {
		return Clue{}
	}

	term := s.pickTerm(ctx, sess, wordIndex, w.ClueSearchTerm)
	sess.MarkTermUsed(wordIndex, term)

	clueURL := s.pickURL(ctx, sess, term)
	if clueURL != "" {
		sess.MarkURLUsed(clueURL)
	}
	return Clue{URL: clueURL, SearchTerm: term}
}

// pickTerm chooses an unused synonym for word, or word itself when the
// provider has nothing left to offer.
func (s *Selector) pickTerm(ctx context.Context, sess *game.Session, wordIndex int, word string) string {
	candidates, err := s.Synonyms.Lookup(ctx, word)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("synonym lookup failed")
	}
	candidates = lo.Filter(candidates, func(c string, _ int) bool {
		return !strings.EqualFold(c, word)
	})
	unused := sess.UnusedTerms(wordIndex, candidates)
	if len(unused) == 0 {
		return word
	}
	return unused[s.IntN(len(unused))]
}

// pickURL runs the three-tier URL fallback chain for term.
func (s *Selector) pickURL(ctx context.Context, sess *game.Session, term string) string {
	results, err := s.Search.Search(ctx, term)
	if err != nil {
		log.Warn().Err(err).Str("term", term).Msg("search failed, using reference fallback")
		return referenceURL(term)
	}

	valid := lo.Filter(results, func(u string, _ int) bool { return validClueURL(u) })

	fresh := lo.Filter(valid, func(u string, _ int) bool {
		return !isSearchEngineURL(u) && !sess.URLUsed(u)
	})
	if len(fresh) > 0 {
		return fresh[s.IntN(len(fresh))]
	}

	// Tier 2: reuse is allowed, first valid raw result wins.
	if len(valid) > 0 {
		return valid[0]
	}

	return referenceURL(term)
}

// referenceURL is the deterministic no-network fallback.
func referenceURL(term string) string {
	return referenceURLBase + url.PathEscape(strings.ToLower(term))
}

// validClueURL requires an absolute http(s) URL with a host.
func validClueURL(raw string) bool {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Host != ""
}

// isSearchEngineURL reports whether raw points at a search engine,
// including the search provider's own domain.
func isSearchEngineURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, marker := range searchEngineHosts {
		if strings.Contains(host, marker) {
			return true
		}
	}
	return false
}
