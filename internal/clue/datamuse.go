// internal/clue/datamuse.go
//
// Synonym sourcing backed by the Datamuse API (https://api.datamuse.com).
// Two queries run concurrently for each lookup:
//   - rel_syn: strict synonyms.
//   - ml: "means like" semantically similar words.
// Results are merged and deduplicated case-insensitively. If only one query
// fails the other's results are still used; the lookup errors only when
// both fail.

package clue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

const datamuseBaseURL = "https://api.datamuse.com/words"

const datamuseMaxResults = 30

// Datamuse is a SynonymProvider over the Datamuse word-finding API.
type Datamuse struct {
	BaseURL string
	Client  *http.Client
}

// NewDatamuse builds a provider with the given request timeout.
func NewDatamuse(timeout time.Duration) *Datamuse {
	return &Datamuse{
		BaseURL: datamuseBaseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

type datamuseWord struct {
	Word string `json:"word"`
}

// Lookup queries synonyms and semantically similar words concurrently and
// returns the merged, case-insensitively deduplicated candidate list.
func (d *Datamuse) Lookup(ctx context.Context, word string) ([]string, error) {
	var (
		wg       sync.WaitGroup
		syn, sim []string
		synErr   error
		simErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		syn, synErr = d.query(ctx, "rel_syn", word)
	}()
	go func() {
		defer wg.Done()
		sim, simErr = d.query(ctx, "ml", word)
	}()
	wg.Wait()

	if synErr != nil && simErr != nil {
		return nil, fmt.Errorf("datamuse lookup %q: %w", word, synErr)
	}

	merged := append(append([]string{}, syn...), sim...)
	return lo.UniqBy(merged, strings.ToLower), nil
}

// query issues a single Datamuse request, e.g. ?rel_syn=<word>.
func (d *Datamuse) query(ctx context.Context, param, word string) ([]string, error) {
	u := fmt.Sprintf("%s?%s=%s&max=%d", d.BaseURL, param, url.QueryEscape(word), datamuseMaxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datamuse %s: status %d", param, resp.StatusCode)
	}

	var words []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return nil, fmt.Errorf("datamuse %s: decode: %w", param, err)
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w.Word != "" {
			out = append(out, w.Word)
		}
	}
	return out, nil
}
