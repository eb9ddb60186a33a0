// internal/game/types.go
//
// Record and event types for a game session.
// Defines:
//   - Result: lifecycle state of a game record (in_progress/solved/gaveup).
//   - Event: closed tagged union of everything that can happen in a game
//     (clue request, guess, game end). Events are append-only and never
//     mutated after being added to a record.
//   - Record: the persistence payload handed to storage when a tracked
//     (non-guest) game completes.

package game

import "time"

// Result is the lifecycle state of a game record.
type Result string

const (
	ResultInProgress Result = "in_progress"
	ResultSolved     Result = "solved"
	ResultGaveUp     Result = "gaveup"
)

// EventKind discriminates the Event union.
type EventKind string

const (
	EventClue    EventKind = "clue"
	EventGuess   EventKind = "guess"
	EventGameEnd EventKind = "game_end"
)

// Event is a single entry in a game's append-only history. Exactly one of
// Clue, Guess, and End is non-nil, matching Kind.
type Event struct {
	Kind  EventKind     `json:"kind"`
	At    time.Time     `json:"at"`
	Clue  *ClueEvent    `json:"clue,omitempty"`
	Guess *GuessEvent   `json:"guess,omitempty"`
	End   *GameEndEvent `json:"end,omitempty"`
}

// ClueEvent records one clue handed out for a hidden word.
type ClueEvent struct {
	WordIndex  int    `json:"wordIndex"`
	SearchTerm string `json:"searchTerm"`
	URL        string `json:"url"`
}

// GuessEvent records one guess submission, correct or not.
type GuessEvent struct {
	WordIndex     int    `json:"wordIndex"`
	GuessText     string `json:"guessText"`
	Correct       bool   `json:"isCorrect"`
	PointsAwarded int    `json:"pointsAwarded"`
}

// GameEndEvent closes the event log. Reason is "solved" or "gaveup".
type GameEndEvent struct {
	Reason string `json:"reason"`
}

// Record is the persistence payload for a tracked game. Guest sessions
// never have one.
type Record struct {
	GameID      string     `json:"gameId"`
	PlayedAt    time.Time  `json:"playedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Score       int        `json:"score"`
	PhraseID    int        `json:"phraseId"`
	PhraseText  string     `json:"phraseText"`
	Difficulty  int        `json:"difficulty"`
	Result      Result     `json:"result"`
	Events      []Event    `json:"events"`
}
