// internal/phrase/tokenizer.go
//
// Tokenization and token classification for phrase text.
// Responsibilities:
//   - Tokenize: split raw text into word and punctuation tokens.
//   - IsStopWord: case-insensitive membership in a fixed set of English
//     function words (articles, pronouns, prepositions, conjunctions,
//     auxiliary/modal verbs).
//   - IsPunctuationToken: detect tokens that carry no guessable content.
//
// Tokenization rules:
//   - Whitespace separates tokens and is discarded.
//   - The punctuation characters , . ! ? ; : " ( ) - – — are split out as
//     standalone single-character tokens.
//   - Apostrophes are NOT split, so contractions ("don't") stay intact.
//   - Empty runs produce no tokens.

package phrase

import "strings"

// punctuation characters that become their own tokens.
const punctuationChars = `,.!?;:"()-` + "–—"

// stopWords is the closed set of words that are never hidden.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// articles & determiners
		"a", "an", "the", "this", "that", "these", "those", "some", "any",
		"each", "every", "no", "not",
		// pronouns
		"i", "me", "my", "mine", "we", "us", "our", "ours", "you", "your",
		"yours", "he", "him", "his", "she", "her", "hers", "it", "its",
		"they", "them", "their", "theirs", "who", "whom", "whose", "which",
		"what",
		// prepositions
		"in", "on", "at", "by", "to", "from", "of", "with", "without",
		"about", "against", "between", "into", "through", "during", "above",
		"below", "under", "over", "up", "down", "out", "off",
		// conjunctions
		"and", "or", "but", "nor", "so", "yet", "for", "if", "then", "than",
		"because", "while", "when", "where", "as", "although", "though",
		"after", "before", "until", "unless", "since",
		// auxiliary & modal verbs
		"am", "is", "are", "was", "were", "be", "been", "being", "have",
		"has", "had", "having", "do", "does", "did", "doing", "will",
		"would", "shall", "should", "can", "could", "may", "might", "must",
	} {
		stopWords[w] = struct{}{}
	}
}

// Tokenize splits text into word and punctuation tokens, in order.
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case isSpace(r):
			flush()
		case strings.ContainsRune(punctuationChars, r):
			flush()
			tokens = append(tokens, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// IsStopWord reports whether token is an English function word.
// Matching is case-insensitive.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}

// IsPunctuationToken reports whether every character of token is a
// punctuation character from the tokenizer's split set.
func IsPunctuationToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !strings.ContainsRune(punctuationChars, r) {
			return false
		}
	}
	return true
}
