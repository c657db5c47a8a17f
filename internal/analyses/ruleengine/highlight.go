package ruleengine

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	markOpen    = "<mark>"
	markOpenPfx = "<mark"
	markClose   = "</mark>"
)

// Highlight wraps configured phrases in <mark> spans. Matching is
// case-insensitive, position-anchored, longest-first, and non-overlapping;
// spans already present in the input are copied through untouched, so the
// function is idempotent over its own output.
func Highlight(text string, phrases []string) string {
	if text == "" || len(phrases) == 0 {
		return text
	}

	ordered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p != "" {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	var b strings.Builder
	b.Grow(len(text) + len(text)/4)

	i := 0
	for i < len(text) {
		// Copy an existing span through without re-matching inside it.
		if n, ok := foldPrefix(text[i:], markOpenPfx); ok {
			closeAt, closeLen := foldIndex(text[i+n:], markClose)
			if closeAt < 0 {
				b.WriteString(text[i:])
				break
			}
			end := i + n + closeAt + closeLen
			b.WriteString(text[i:end])
			i = end
			continue
		}

		matched := false
		for _, p := range ordered {
			if n, ok := foldPrefix(text[i:], p); ok {
				b.WriteString(markOpen)
				b.WriteString(text[i : i+n])
				b.WriteString(markClose)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(text[i:])
			b.WriteString(text[i : i+size])
			i += size
		}
	}
	return b.String()
}

// foldPrefix reports whether s starts with a case-insensitive match of
// prefix, returning the matched byte length in s. Lowercasing can change a
// rune's encoded size (U+212A folds to "k"), so matching walks runes instead
// of comparing against a lowered copy of s.
func foldPrefix(s, prefix string) (int, bool) {
	n := 0
	for _, pr := range prefix {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 {
			return 0, false
		}
		if r != pr && unicode.ToLower(r) != unicode.ToLower(pr) {
			return 0, false
		}
		n += size
	}
	return n, true
}

// foldIndex locates the first case-insensitive occurrence of sub in s,
// returning its byte offset and matched length, or (-1, 0).
func foldIndex(s, sub string) (int, int) {
	for i := 0; i < len(s); {
		if n, ok := foldPrefix(s[i:], sub); ok {
			return i, n
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, 0
}

// StripHighlights removes markup spans, returning plain text.
func StripHighlights(text string) string {
	s := strings.ReplaceAll(text, markOpen, "")
	return strings.ReplaceAll(s, markClose, "")
}
