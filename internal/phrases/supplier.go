// internal/phrases/supplier.go
//
// Phrase corpus management and per-user phrase selection.
//
// Responsibilities:
//   - Load the phrase corpus from an environment-provided file or fall back
//     to an embedded default list.
//   - Supply a random phrase the user has not already played, via a
//     caller-provided played-phrase lookup.
//   - Signal ErrExhausted once a user has played the whole corpus; the
//     caller treats that as a hard failure of game start.
//
// Environment variables:
//   PHRASES_FILE=/path/to/phrases.txt   (one phrase per line, # comments)
//
// Phrase IDs are 1-based line positions in the loaded corpus and are stable
// for the process lifetime.

package phrases

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/phrasehunt/go-server/internal/phrase"
)

//go:embed default_phrases.txt
var embeddedPhrases string

// ErrExhausted is returned when no unplayed phrase remains for a user.
var ErrExhausted = errors.New("phrases: corpus exhausted for user")

// PlayedFn reports the phrase IDs a user has already played.
type PlayedFn func(ctx context.Context, userID string) (map[int]bool, error)

// Supplier hands out playable phrases. IntN is the randomness source for
// corpus picks; it defaults to math/rand and is overridable in tests.
type Supplier struct {
	corpus []phrase.Phrase
	played PlayedFn
	IntN   func(n int) int
}

// NewSupplier builds a supplier over texts. Empty lines are skipped; the
// rest get 1-based IDs in order.
func NewSupplier(texts []string, played PlayedFn) (*Supplier, error) {
	var corpus []phrase.Phrase
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		corpus = append(corpus, phrase.Build(t, len(corpus)+1))
	}
	if len(corpus) == 0 {
		return nil, errors.New("phrases: corpus is empty")
	}
	return &Supplier{corpus: corpus, played: played, IntN: rand.Intn}, nil
}

// Load returns the corpus lines from PHRASES_FILE, or the embedded default
// list when the variable is unset.
func Load() ([]string, error) {
	if path := os.Getenv("PHRASES_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("phrases: open %s: %w", path, err)
		}
		defer f.Close()
		var out []string
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if line := cleanLine(sc.Text()); line != "" {
				out = append(out, line)
			}
		}
		return out, sc.Err()
	}

	var out []string
	for _, line := range strings.Split(embeddedPhrases, "\n") {
		if line = cleanLine(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return ""
	}
	return s
}

// Count reports the corpus size.
func (s *Supplier) Count() int { return len(s.corpus) }

// ForUser returns a random phrase userID has not played yet. Guests
// (empty userID) draw from the whole corpus. Returns ErrExhausted when the
// user has played everything.
func (s *Supplier) ForUser(ctx context.Context, userID string) (phrase.Phrase, error) {
	pool := s.corpus
	if userID != "" && s.played != nil {
		playedIDs, err := s.played(ctx, userID)
		if err != nil {
			return phrase.Phrase{}, fmt.Errorf("phrases: played lookup: %w", err)
		}
		pool = lo.Filter(s.corpus, func(p phrase.Phrase, _ int) bool {
			return !playedIDs[p.ID]
		})
		if len(pool) == 0 {
			return phrase.Phrase{}, ErrExhausted
		}
	}
	return pool[s.IntN(len(pool))], nil
}
