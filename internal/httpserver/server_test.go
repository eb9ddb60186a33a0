package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/phrasehunt/go-server/internal/clue"
	"github.com/phrasehunt/go-server/internal/game"
	"github.com/phrasehunt/go-server/internal/phrases"
	"github.com/phrasehunt/go-server/internal/store"
)

type stubSynonyms struct{}

func (stubSynonyms) Lookup(ctx context.Context, word string) ([]string, error) {
	return []string{"alternative"}, nil
}

type stubSearch struct{}

func (stubSearch) Search(ctx context.Context, query string) ([]string, error) {
	return []string{"https://hint.example/" + query}, nil
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	schema := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY, username TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL, games_played INTEGER NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0, streak INTEGER NOT NULL DEFAULT 0);
		CREATE TABLE game_records (
			game_id TEXT PRIMARY KEY, user_id TEXT NOT NULL, phrase_id INTEGER NOT NULL,
			phrase_text TEXT NOT NULL, difficulty INTEGER NOT NULL, result TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0, played_at TEXT NOT NULL, completed_at TEXT,
			events TEXT NOT NULL DEFAULT '[]');
		CREATE TABLE played_phrases (
			user_id TEXT NOT NULL, phrase_id INTEGER NOT NULL, played_at TEXT NOT NULL,
			UNIQUE(user_id, phrase_id));`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	db := testDB(t)
	supplier, err := phrases.NewSupplier([]string{"Better late than never"}, PlayedLookup(db))
	if err != nil {
		t.Fatal(err)
	}
	sel := clue.NewSelector(stubSynonyms{}, stubSearch{})
	s := New(store.NewMemoryStore(), db, supplier, sel)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestHealth(t *testing.T) {
	_, ts := testServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestGuestGameFlow(t *testing.T) {
	_, ts := testServer(t)

	created := decode[newGameRes](t, postJSON(t, ts.URL+"/game/new", map[string]any{"difficulty": 5}))
	if created.SessionID == "" {
		t.Fatal("missing session ID")
	}
	if created.State.Complete {
		t.Fatal("fresh game should not be complete")
	}

	// wrong guess: neutral result
	out := decode[game.GuessOutcome](t, postJSON(t, ts.URL+"/game/guess",
		guessReq{SessionID: created.SessionID, WordIndex: 1, Guess: "soon"}))
	if out.Correct || out.Score != 0 {
		t.Errorf("wrong guess: %+v", out)
	}

	// correct, case-insensitive
	out = decode[game.GuessOutcome](t, postJSON(t, ts.URL+"/game/guess",
		guessReq{SessionID: created.SessionID, WordIndex: 1, Guess: "LATE"}))
	if !out.Correct || out.RevealedWord != "late" || out.Score != 100 {
		t.Errorf("correct guess: %+v", out)
	}

	// clue round trip with stub providers
	c := decode[clue.Clue](t, postJSON(t, ts.URL+"/game/clue",
		clueReq{SessionID: created.SessionID, WordIndex: 0}))
	if c.SearchTerm != "alternative" || c.URL != "https://hint.example/alternative" {
		t.Errorf("clue: %+v", c)
	}

	// give up reveals and zeroes
	state := decode[game.StateView](t, postJSON(t, ts.URL+"/game/giveup",
		giveUpReq{SessionID: created.SessionID}))
	if state.Score != 0 || !state.Complete {
		t.Errorf("give-up state: %+v", state)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	_, ts := testServer(t)
	resp := postJSON(t, ts.URL+"/game/guess", guessReq{SessionID: "missing", WordIndex: 0, Guess: "x"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp2, err := http.Get(ts.URL + "/game/state?sessionId=missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("state status = %d, want 404", resp2.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "player_one", "longenough", false},
		{"short username", "ab", "longenough", true},
		{"bad characters", "player!", "longenough", true},
		{"short password", "player_two", "short", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSignup(tt.username, tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSignup(%q, %q) = %v", tt.username, tt.password, err)
			}
		})
	}
}

func TestSignupAndTrackedGame(t *testing.T) {
	s, ts := testServer(t)

	resp := postJSON(t, ts.URL+"/auth/signup", map[string]string{"Username": "player_one", "Password": "longenough"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Value != "" {
			cookie = c
		}
	}
	resp.Body.Close()
	if cookie == nil {
		t.Fatal("signup should set the auth cookie")
	}

	// start a tracked game with the cookie attached
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/game/new", bytes.NewReader([]byte(`{}`)))
	req.AddCookie(cookie)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	created := decode[newGameRes](t, resp2)
	if created.SessionID == "" {
		t.Fatal("missing session ID")
	}

	var result string
	if err := s.db.QueryRow(`SELECT result FROM game_records`).Scan(&result); err != nil {
		t.Fatalf("game record row missing: %v", err)
	}
	if result != string(game.ResultInProgress) {
		t.Errorf("result = %q", result)
	}

	// the phrase is marked played for this user
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM played_phrases`).Scan(&n); err != nil || n != 1 {
		t.Errorf("played_phrases count = %d, err = %v", n, err)
	}

	// second /game/new exhausts the one-phrase corpus for this user
	req3, _ := http.NewRequest(http.MethodPost, ts.URL+"/game/new", bytes.NewReader([]byte(`{}`)))
	req3.AddCookie(cookie)
	resp3, err := http.DefaultClient.Do(req3)
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusConflict {
		t.Errorf("exhausted corpus status = %d, want 409", resp3.StatusCode)
	}
}
