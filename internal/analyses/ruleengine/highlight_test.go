package ruleengine

import (
	"strings"
	"testing"
)

func TestHighlightLongestMatchWins(t *testing.T) {
	got := Highlight("face-to-face classes resume", []string{"classes", "face-to-face classes"})
	want := "<mark>face-to-face classes</mark> resume"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHighlightPreservesOriginalCase(t *testing.T) {
	got := Highlight("SUBMIT the form", []string{"submit"})
	want := "<mark>SUBMIT</mark> the form"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHighlightIdempotent(t *testing.T) {
	phrases := []string{"classes", "face-to-face classes", "today"}
	first := Highlight("face-to-face classes are suspended today", phrases)
	second := Highlight(first, phrases)
	if second != first {
		t.Fatalf("expected second pass unchanged:\nfirst:  %q\nsecond: %q", first, second)
	}
	if strings.Contains(second, "<mark><mark>") {
		t.Fatalf("expected no double-wrapping, got %q", second)
	}
}

func TestHighlightNonOverlapping(t *testing.T) {
	got := Highlight("submit submit", []string{"submit"})
	want := "<mark>submit</mark> <mark>submit</mark>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHighlightNoMatchReturnsInput(t *testing.T) {
	text := "nothing of note"
	if got := Highlight(text, []string{"deadline"}); got != text {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestHighlightSizeChangingCaseFold(t *testing.T) {
	// U+212A lowercases from three bytes to one, so matching must not rely
	// on byte offsets into a lowered copy of the text.
	in := "Temperature reached 300K. You must submit today."
	got := Highlight(in, Standard().HighlightPhrases)
	if !strings.Contains(got, "K") {
		t.Fatalf("expected original rune preserved, got %q", got)
	}
	if !strings.Contains(got, "<mark>submit</mark>") {
		t.Fatalf("expected submit highlighted, got %q", got)
	}
	if !strings.Contains(got, "<mark>today</mark>") {
		t.Fatalf("expected today highlighted, got %q", got)
	}
}

func TestHighlightMatchesFoldedRunes(t *testing.T) {
	got := Highlight("Keep calm", []string{"keep"})
	want := "<mark>Keep</mark> calm"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStripHighlights(t *testing.T) {
	got := StripHighlights("<mark>face-to-face classes</mark> resume")
	if got != "face-to-face classes resume" {
		t.Fatalf("unexpected plain text: %q", got)
	}
}
