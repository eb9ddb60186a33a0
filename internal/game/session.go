// internal/game/session.go
//
// State machine for a single phrase-guessing session.
// Responsibilities:
//   - Create sessions with a random UUID and per-hidden-word reveal tracking.
//   - Validate and apply guesses (case-insensitive exact match, fixed 100
//     points per correct word).
//   - Track state transitions: in progress -> solved/gaveup (terminal).
//   - Maintain the session-scoped "used" sets consumed by clue selection
//     (per-word search terms, session-wide clue URLs), lowercase-normalized.
//   - Append events to the record for tracked (non-guest) sessions.
//
// Concurrency: every mutation of a session goes through its own mutex, so
// concurrent requests against the same session cannot lose updates. Network
// calls never happen while the lock is held; the clue selector takes the
// lock only through the Unused*/Mark* helpers.

package game

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrasehunt/go-server/internal/phrase"
)

// PointsPerWord is awarded for each correctly guessed hidden word.
const PointsPerWord = 100

const gameIDPrefix = "game-"

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Session is the live state of one game. Create with NewSession; all
// exported methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	ID        string
	Phrase    phrase.Phrase
	UserID    string // empty for guest sessions
	StartedAt time.Time

	LastAccess time.Time // bumped on every operation, used by store eviction

	score     int
	revealed  map[int]bool            // keyed by hidden word index
	usedTerms map[int]map[string]bool // lowercase search terms per word index
	usedURLs  map[string]bool         // lowercase clue URLs, session-wide

	record *Record // nil iff UserID is empty
}

// GuessOutcome is returned by ApplyGuess.
type GuessOutcome struct {
	Correct      bool   `json:"isCorrect"`
	Complete     bool   `json:"isPhraseComplete"`
	Score        int    `json:"currentScore"`
	RevealedWord string `json:"revealedWord,omitempty"` // true text on a correct guess
}

// WordState is one word of the projected game state. DisplayText is nil
// for hidden words that have not been revealed yet.
type WordState struct {
	Index       int     `json:"index"`
	Hidden      bool    `json:"isHidden"`
	DisplayText *string `json:"displayText"`
}

// StateView is the caller-facing projection of a session.
type StateView struct {
	SessionID string      `json:"sessionId"`
	Words     []WordState `json:"words"`
	Score     int         `json:"score"`
	Complete  bool        `json:"isComplete"`
}

// NewSession starts a game over p. A non-empty userID makes the session
// tracked: it gets a Record with a fresh game ID and an in-progress result.
// Guests get no record at all.
func NewSession(p phrase.Phrase, userID string, difficulty int) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:         uuid.NewString(),
		Phrase:     p,
		UserID:     userID,
		StartedAt:  now,
		LastAccess: now,
		revealed:   make(map[int]bool),
		usedTerms:  make(map[int]map[string]bool),
		usedURLs:   make(map[string]bool),
	}
	for _, idx := range p.HiddenIndices() {
		s.revealed[idx] = false
	}
	if userID != "" {
		s.record = &Record{
			GameID:     newGameID(now),
			PlayedAt:   now,
			PhraseID:   p.ID,
			PhraseText: p.FullText,
			Difficulty: difficulty,
			Result:     ResultInProgress,
		}
	}
	return s
}

// newGameID builds "game-<unix millis>-<6 uppercase alphanumerics>".
// Collision avoidance only, not cryptographic.
func newGameID(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return gameIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix)
}

// ApplyGuess evaluates guessText against the word at wordIndex.
// Unknown or non-hidden words are a no-op failure: Correct=false and the
// score is unchanged. Wrong guesses ARE recorded in the event log. When the
// last hidden word is revealed the session transitions to solved.
func (s *Session) ApplyGuess(wordIndex int, guessText string) GuessOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccess = time.Now().UTC()

	w, ok := s.Phrase.WordAt(wordIndex)
	if !ok || !w.Hidden || s.finishedLocked() {
		return GuessOutcome{Correct: false, Complete: s.completeLocked(), Score: s.score}
	}

	correct := strings.EqualFold(guessText, w.Text)
	points := 0
	if correct {
		s.revealed[wordIndex] = true
		points = PointsPerWord
		s.score += points
	}
	now := time.Now().UTC()
	s.appendEventLocked(Event{
		Kind: EventGuess,
		At:   now,
		Guess: &GuessEvent{
			WordIndex:     wordIndex,
			GuessText:     guessText,
			Correct:       correct,
			PointsAwarded: points,
		},
	})

	complete := s.completeLocked()
	if correct && complete {
		s.endLocked(ResultSolved, "solved", now)
	}

	out := GuessOutcome{Correct: correct, Complete: complete, Score: s.score}
	if correct {
		out.RevealedWord = w.Text
	}
	return out
}

// GiveUp reveals every hidden word, resets the score to zero regardless of
// points earned, and moves the session to its terminal gaveup state.
// Returns the post-reveal state and whether this call made the transition
// (false when the session was already finished).
func (s *Session) GiveUp() (StateView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccess = time.Now().UTC()

	changed := false
	if !s.finishedLocked() {
		for idx := range s.revealed {
			s.revealed[idx] = true
		}
		s.score = 0
		s.endLocked(ResultGaveUp, "gaveup", time.Now().UTC())
		changed = true
	}
	return s.stateLocked(), changed
}

// State is a pure projection of the session for display.
func (s *Session) State() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccess = time.Now().UTC()
	return s.stateLocked()
}

// RecordClue appends a clue event to the session's record. It is a no-op
// for guest sessions.
func (s *Session) RecordClue(wordIndex int, searchTerm, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccess = time.Now().UTC()
	s.appendEventLocked(Event{
		Kind: EventClue,
		At:   time.Now().UTC(),
		Clue: &ClueEvent{WordIndex: wordIndex, SearchTerm: searchTerm, URL: url},
	})
}

// RecordSnapshot returns a copy of the session's record, or nil for guest
// sessions. The copy is safe to persist without holding the session lock.
func (s *Session) RecordSnapshot() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return nil
	}
	cp := *s.record
	cp.Events = append([]Event(nil), s.record.Events...)
	return &cp
}

// Finished reports whether the session has reached a terminal state.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedLocked()
}

// ------------------------- clue "used" tracking ----------------------------

// UnusedTerms filters candidates down to terms not yet used for wordIndex.
// Matching is case-insensitive; order is preserved.
func (s *Session) UnusedTerms(wordIndex int, candidates []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	used := s.usedTerms[wordIndex]
	var out []string
	for _, c := range candidates {
		if !used[strings.ToLower(c)] {
			out = append(out, c)
		}
	}
	return out
}

// MarkTermUsed records term as used for wordIndex.
func (s *Session) MarkTermUsed(wordIndex int, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usedTerms[wordIndex] == nil {
		s.usedTerms[wordIndex] = make(map[string]bool)
	}
	s.usedTerms[wordIndex][strings.ToLower(term)] = true
}

// URLUsed reports whether url has already been handed out in this session.
func (s *Session) URLUsed(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedURLs[strings.ToLower(url)]
}

// MarkURLUsed records url as handed out for this session.
func (s *Session) MarkURLUsed(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usedURLs[strings.ToLower(url)] = true
}

// ------------------------------ internals ----------------------------------

// completeLocked is true when every hidden word has been revealed.
func (s *Session) completeLocked() bool {
	for _, revealed := range s.revealed {
		if !revealed {
			return false
		}
	}
	return true
}

func (s *Session) finishedLocked() bool {
	return s.record != nil && s.record.Result != ResultInProgress ||
		s.record == nil && s.completeLocked()
}

// endLocked transitions the record to a terminal result and appends the
// closing event. Guest sessions only flip their revealed state.
func (s *Session) endLocked(result Result, reason string, now time.Time) {
	s.appendEventLocked(Event{Kind: EventGameEnd, At: now, End: &GameEndEvent{Reason: reason}})
	if s.record != nil {
		s.record.Result = result
		s.record.Score = s.score
		t := now
		s.record.CompletedAt = &t
	}
}

func (s *Session) appendEventLocked(ev Event) {
	if s.record == nil {
		return
	}
	s.record.Events = append(s.record.Events, ev)
	s.record.Score = s.score
}

func (s *Session) stateLocked() StateView {
	words := make([]WordState, len(s.Phrase.Words))
	for i, w := range s.Phrase.Words {
		ws := WordState{Index: w.Index, Hidden: w.Hidden}
		if !w.Hidden || s.revealed[w.Index] {
			text := w.Text
			ws.DisplayText = &text
		}
		words[i] = ws
	}
	return StateView{
		SessionID: s.ID,
		Words:     words,
		Score:     s.score,
		Complete:  s.completeLocked(),
	}
}
