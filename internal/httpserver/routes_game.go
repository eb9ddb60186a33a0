// internal/httpserver/routes_game.go
//
// HTTP routes for playing a phrase-guessing game.
// Exposes five endpoints (optional auth; guests play untracked):
//   - POST /game/new     → start a session over a fresh phrase
//   - GET  /game/state   → projected state (hidden words masked)
//   - POST /game/guess   → submit a guess for one hidden word
//   - POST /game/giveup  → reveal everything, zero the score
//   - POST /game/clue    → fetch a non-repeating hint URL for a word
//
// Sessions live in the in-memory store; for logged-in users a game record
// row is inserted on start and finalized (result, score, events JSON) when
// the game ends. Persistence failures are logged and never block play.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/phrasehunt/go-server/internal/game"
	"github.com/phrasehunt/go-server/internal/phrases"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/state", s.handleGameState)
		r.Post("/guess", s.handleGuess)
		r.Post("/giveup", s.handleGiveUp)
		r.Post("/clue", s.handleClue)
	})
}

// -----------------------------------------------------------------------------
// /game/new

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Difficulty int `json:"difficulty"` // stored on the record; default 10
}
type newGameRes struct {
	SessionID string         `json:"sessionId"`
	State     game.StateView `json:"state"`
}

// handleNewGame obtains an unplayed phrase for the caller, creates a
// session, and (for logged-in users) inserts the initial record row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Difficulty <= 0 {
		req.Difficulty = 10
	}

	userID := currentUserID(r)
	p, err := s.supplier.ForUser(r.Context(), userID)
	if err != nil {
		if err == phrases.ErrExhausted {
			http.Error(w, `{"error":"phrases_exhausted"}`, http.StatusConflict)
			return
		}
		log.Error().Err(err).Msg("phrase supply")
		http.Error(w, `{"error":"phrase_supply_failed"}`, http.StatusInternalServerError)
		return
	}

	sess := game.NewSession(p, userID, req.Difficulty)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Persist initial record + played-phrase marker (best effort, non-guest)
	if rec := sess.RecordSnapshot(); rec != nil {
		if err := s.insertRecord(userID, rec); err != nil {
			log.Warn().Err(err).Str("gameId", rec.GameID).Msg("insert game record")
		}
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO played_phrases (user_id, phrase_id, played_at)
		                        VALUES (?,?,?)`, userID, p.ID, now3339()); err != nil {
			log.Warn().Err(err).Int("phraseId", p.ID).Msg("mark phrase played")
		}
	}

	_ = json.NewEncoder(w).Encode(newGameRes{SessionID: sess.ID, State: sess.State()})
}

// -----------------------------------------------------------------------------
// /game/state

// handleGameState returns the masked projection for a session.
func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, r.URL.Query().Get("sessionId"))
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(sess.State())
}

// -----------------------------------------------------------------------------
// /game/guess

// guessReq is the request payload for POST /game/guess.
type guessReq struct {
	SessionID string `json:"sessionId"`
	WordIndex int    `json:"wordIndex"`
	Guess     string `json:"guess"`
}

// handleGuess applies a guess to a session and finalizes the record if the
// phrase is now complete. Wrong guesses and non-hidden indices are normal
// results, not errors.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.lookupSession(w, r, req.SessionID)
	if !ok {
		return
	}

	out := sess.ApplyGuess(req.WordIndex, req.Guess)
	if out.Correct && out.Complete {
		s.finalizeRecord(sess, true)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// -----------------------------------------------------------------------------
// /game/giveup

// giveUpReq is the request payload for POST /game/giveup.
type giveUpReq struct {
	SessionID string `json:"sessionId"`
}

// handleGiveUp reveals the whole phrase, zeroes the score, and finalizes
// the record as gaveup.
func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	var req giveUpReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.lookupSession(w, r, req.SessionID)
	if !ok {
		return
	}

	state, changed := sess.GiveUp()
	if changed {
		s.finalizeRecord(sess, false)
	}
	_ = json.NewEncoder(w).Encode(state)
}

// -----------------------------------------------------------------------------
// /game/clue

// clueReq is the request payload for POST /game/clue.
type clueReq struct {
	SessionID string `json:"sessionId"`
	WordIndex int    `json:"wordIndex"`
}

// handleClue runs clue selection for a hidden word and appends the clue
// event to the session record. Non-hidden or unknown indices yield an
// empty clue, matching the selector's contract.
func (s *Server) handleClue(w http.ResponseWriter, r *http.Request) {
	var req clueReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.lookupSession(w, r, req.SessionID)
	if !ok {
		return
	}

	c := s.clues.GetClue(r.Context(), sess, req.WordIndex)
	if c.URL != "" {
		sess.RecordClue(req.WordIndex, c.SearchTerm, c.URL)
	}
	_ = json.NewEncoder(w).Encode(c)
}

// ------------------------------ persistence --------------------------------

// lookupSession fetches a session or writes a 404 and returns ok=false.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	if id == "" {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// insertRecord writes the initial in-progress row for a tracked game.
func (s *Server) insertRecord(userID string, rec *game.Record) error {
	events, err := json.Marshal(rec.Events)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO game_records
	    (game_id, user_id, phrase_id, phrase_text, difficulty, result, score, played_at, events)
	    VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.GameID, userID, rec.PhraseID, rec.PhraseText, rec.Difficulty,
		string(rec.Result), rec.Score, rec.PlayedAt.Format(time.RFC3339), string(events))
	return err
}

// finalizeRecord persists the terminal record state and bumps user stats.
// Guest sessions have no record and are skipped. Best effort: failures are
// logged, play already succeeded.
func (s *Server) finalizeRecord(sess *game.Session, won bool) {
	rec := sess.RecordSnapshot()
	if rec == nil || rec.Result == game.ResultInProgress {
		return
	}
	events, err := json.Marshal(rec.Events)
	if err != nil {
		log.Warn().Err(err).Str("gameId", rec.GameID).Msg("marshal events")
		return
	}
	completed := ""
	if rec.CompletedAt != nil {
		completed = rec.CompletedAt.Format(time.RFC3339)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin record tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE game_records
	    SET result=?, score=?, completed_at=?, events=? WHERE game_id=?`,
		string(rec.Result), rec.Score, nullable(completed), string(events), rec.GameID); err != nil {
		log.Warn().Err(err).Str("gameId", rec.GameID).Msg("finalize game record")
	}
	if err := s.bumpStats(tx, sess.UserID, won); err != nil {
		log.Warn().Err(err).Str("user", sess.UserID).Msg("bump stats")
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Str("gameId", rec.GameID).Msg("commit record tx")
	}
}

// nullable maps "" to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func now3339() string { return time.Now().UTC().Format(time.RFC3339) }

// -----------------------------------------------------------------------------
// /games/mine

// handleMyGames lists the caller's most recent game records.
func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	rows, err := s.db.Query(`SELECT game_id, phrase_text, difficulty, result, score, played_at, COALESCE(completed_at,'')
	                         FROM game_records WHERE user_id=? ORDER BY played_at DESC LIMIT 50`, me.ID)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type recordRow struct {
		GameID      string `json:"gameId"`
		PhraseText  string `json:"phraseText"`
		Difficulty  int    `json:"difficulty"`
		Result      string `json:"result"`
		Score       int    `json:"score"`
		PlayedAt    string `json:"playedAt"`
		CompletedAt string `json:"completedAt,omitempty"`
	}
	out := []recordRow{}
	for rows.Next() {
		var rr recordRow
		if err := rows.Scan(&rr.GameID, &rr.PhraseText, &rr.Difficulty, &rr.Result, &rr.Score, &rr.PlayedAt, &rr.CompletedAt); err == nil {
			out = append(out, rr)
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

// PlayedLookup returns a phrases.PlayedFn backed by the played_phrases table.
func PlayedLookup(db *sql.DB) phrases.PlayedFn {
	return func(ctx context.Context, userID string) (map[int]bool, error) {
		rows, err := db.QueryContext(ctx, `SELECT phrase_id FROM played_phrases WHERE user_id=?`, userID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		played := make(map[int]bool)
		for rows.Next() {
			var id int
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			played[id] = true
		}
		return played, rows.Err()
	}
}
