package ruleengine

import "strings"

// Segment splits normalized text into sentence units on terminal
// punctuation followed by whitespace, dropping headers, boilerplate, and
// fragments below the configured minimum length. Text with no terminal
// punctuation comes back as a single-element slice holding the whole text.
func Segment(text string, cfg Config) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	raw := splitSentences(trimmed)
	if len(raw) <= 1 && !strings.ContainsAny(trimmed, ".!?") {
		return []string{trimmed}
	}

	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if isHeaderOrBoilerplate(s, cfg) {
			continue
		}
		if len(s) < cfg.MinSentenceLength {
			continue
		}
		out = append(out, s)
	}
	return out
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		// Consume a run of terminal punctuation, then split if followed by
		// whitespace or end of input.
		end := i
		for end+1 < len(text) {
			n := text[end+1]
			if n == '.' || n == '!' || n == '?' {
				end++
				continue
			}
			break
		}
		if end+1 == len(text) || text[end+1] == ' ' {
			out = append(out, text[start:end+1])
			start = end + 1
			i = end
		}
	}
	if start < len(text) {
		if rest := strings.TrimSpace(text[start:]); rest != "" {
			out = append(out, rest)
		}
	}
	return out
}

func isHeaderOrBoilerplate(sentence string, cfg Config) bool {
	lower := strings.ToLower(sentence)
	for _, prefix := range cfg.HeaderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, phrase := range cfg.BoilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
