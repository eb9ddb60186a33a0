package clue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookupMergesAndDeduplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("rel_syn") != "":
			_, _ = w.Write([]byte(`[{"word":"superior"},{"word":"finer"}]`))
		case r.URL.Query().Get("ml") != "":
			_, _ = w.Write([]byte(`[{"word":"Superior"},{"word":"improved"}]`))
		default:
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	d := NewDatamuse(2 * time.Second)
	d.BaseURL = srv.URL
	got, err := d.Lookup(context.Background(), "better")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	// "Superior" collapses into "superior" case-insensitively
	if len(got) != 3 {
		t.Errorf("got %v, want 3 distinct terms", got)
	}
	seen := map[string]bool{}
	for _, w := range got {
		seen[w] = true
	}
	if !seen["superior"] || !seen["finer"] || !seen["improved"] {
		t.Errorf("merged terms = %v", got)
	}
}

func TestLookupSurvivesOneFailedQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("rel_syn") != "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"word":"improved"}]`))
	}))
	defer srv.Close()

	d := NewDatamuse(2 * time.Second)
	d.BaseURL = srv.URL
	got, err := d.Lookup(context.Background(), "better")
	if err != nil {
		t.Fatalf("lookup should tolerate one failing query: %v", err)
	}
	if len(got) != 1 || got[0] != "improved" {
		t.Errorf("got %v", got)
	}
}

func TestLookupErrorsWhenBothQueriesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDatamuse(2 * time.Second)
	d.BaseURL = srv.URL
	if _, err := d.Lookup(context.Background(), "better"); err == nil {
		t.Error("expected an error when both queries fail")
	}
}
