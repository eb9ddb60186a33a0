package phrase

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain words", "Better late than never", []string{"Better", "late", "than", "never"}},
		{"contraction kept intact", "don't stop", []string{"don't", "stop"}},
		{"punctuation split out", "wait, really?", []string{"wait", ",", "really", "?"}},
		{"multiple spaces", "a   b", []string{"a", "b"}},
		{"leading and trailing punctuation", `"quoted!"`, []string{`"`, "quoted", "!", `"`}},
		{"dashes", "well-known fact", []string{"well", "-", "known", "fact"}},
		{"empty input", "", nil},
		{"only whitespace", "  \t\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "The", "THAN", "is", "don", "my"} {
		if w == "don" {
			if IsStopWord(w) {
				t.Errorf("%q should not be a stop word", w)
			}
			continue
		}
		if !IsStopWord(w) {
			t.Errorf("%q should be a stop word", w)
		}
	}
	for _, w := range []string{"never", "late", "Better", "cloud"} {
		if IsStopWord(w) {
			t.Errorf("%q should not be a stop word", w)
		}
	}
}

func TestIsPunctuationToken(t *testing.T) {
	for _, tok := range []string{",", "?", "—", "!?", "..."} {
		if !IsPunctuationToken(tok) {
			t.Errorf("%q should be punctuation", tok)
		}
	}
	for _, tok := range []string{"", "a", "don't", "a,b"} {
		if IsPunctuationToken(tok) {
			t.Errorf("%q should not be punctuation", tok)
		}
	}
}

func TestBuildClassification(t *testing.T) {
	p := Build("Better late than never", 7)
	if p.ID != 7 || p.FullText != "Better late than never" {
		t.Fatalf("unexpected phrase header: %+v", p)
	}
	if len(p.Words) != 4 {
		t.Fatalf("expected 4 words, got %d", len(p.Words))
	}
	wantHidden := []bool{true, true, false, true}
	for i, w := range p.Words {
		if w.Index != i {
			t.Errorf("word %d: index = %d", i, w.Index)
		}
		if w.Hidden != wantHidden[i] {
			t.Errorf("word %q: hidden = %v, want %v", w.Text, w.Hidden, wantHidden[i])
		}
		if w.Hidden && w.ClueSearchTerm != w.Text {
			t.Errorf("word %q: clue term = %q", w.Text, w.ClueSearchTerm)
		}
		if !w.Hidden && w.ClueSearchTerm != "" {
			t.Errorf("visible word %q has clue term %q", w.Text, w.ClueSearchTerm)
		}
	}
}

func TestBuildPunctuationAlwaysVisible(t *testing.T) {
	p := Build("Look, before you leap!", 1)
	for _, w := range p.Words {
		if IsPunctuationToken(w.Text) && w.Hidden {
			t.Errorf("punctuation token %q at %d is hidden", w.Text, w.Index)
		}
	}
	// every token is exactly visible or hidden, and punctuation keeps its slot
	if p.Words[1].Text != "," || p.Words[1].Index != 1 {
		t.Errorf("expected comma at index 1, got %+v", p.Words[1])
	}
}

func TestHiddenIndices(t *testing.T) {
	p := Build("Better late than never", 1)
	want := []int{0, 1, 3}
	if got := p.HiddenIndices(); !reflect.DeepEqual(got, want) {
		t.Errorf("HiddenIndices() = %v, want %v", got, want)
	}
}

func TestWordAt(t *testing.T) {
	p := Build("a b", 1)
	if _, ok := p.WordAt(-1); ok {
		t.Error("WordAt(-1) should be out of range")
	}
	if _, ok := p.WordAt(2); ok {
		t.Error("WordAt(2) should be out of range")
	}
	if w, ok := p.WordAt(1); !ok || w.Text != "b" {
		t.Errorf("WordAt(1) = %+v, %v", w, ok)
	}
}
