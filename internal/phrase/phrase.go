// internal/phrase/phrase.go
//
// Playable phrase structure built from raw text.
// A Word is hidden (guessable) when it is neither a stop word nor a
// punctuation token; hidden words carry the search term used for clue
// lookups. Phrases are immutable once built.

package phrase

// Word is a single token of a phrase with its hidden/visible flag.
// Index is the token's position in the tokenized sequence, so punctuation
// occupies its own slot.
type Word struct {
	Index          int    `json:"index"`
	Text           string `json:"text"`
	Hidden         bool   `json:"isHidden"`
	ClueSearchTerm string `json:"clueSearchTerm,omitempty"` // set iff Hidden
}

// Phrase is an ordered sequence of words built from one line of text.
type Phrase struct {
	ID       int    `json:"id"`
	FullText string `json:"fullText"`
	Words    []Word `json:"words"`
}

// Build tokenizes rawText and classifies every token. Word order is
// preserved; every content word that is not a stop word and not
// punctuation is hidden.
func Build(rawText string, id int) Phrase {
	tokens := Tokenize(rawText)
	words := make([]Word, len(tokens))
	for i, tok := range tokens {
		hidden := !IsStopWord(tok) && !IsPunctuationToken(tok)
		w := Word{Index: i, Text: tok, Hidden: hidden}
		if hidden {
			w.ClueSearchTerm = tok
		}
		words[i] = w
	}
	return Phrase{ID: id, FullText: rawText, Words: words}
}

// HiddenIndices returns the indices of all hidden words, in order.
func (p Phrase) HiddenIndices() []int {
	var out []int
	for _, w := range p.Words {
		if w.Hidden {
			out = append(out, w.Index)
		}
	}
	return out
}

// WordAt returns the word at index idx, or false if out of range.
func (p Phrase) WordAt(idx int) (Word, bool) {
	if idx < 0 || idx >= len(p.Words) {
		return Word{}, false
	}
	return p.Words[idx], true
}
