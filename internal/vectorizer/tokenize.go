package vectorizer

import (
	"strings"
	"unicode"
)

// tokenize lowercases text, strips punctuation other than hyphens,
// splits on whitespace and drops tokens of length <= 1.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// termFrequencies counts unigrams and adjacent bigrams. order records first appearance.
func termFrequencies(tokens []string) (freq map[string]int, order []string) {
	freq = make(map[string]int, len(tokens)*2)
	add := func(t string) {
		if _, ok := freq[t]; !ok {
			order = append(order, t)
		}
		freq[t]++
	}
	for i, tok := range tokens {
		add(tok)
		if i+1 < len(tokens) {
			add(tok + " " + tokens[i+1])
		}
	}
	return freq, order
}

// decamel turns "fragranceFree" into "fragrance free".
func decamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// repeat returns s repeated n times, space separated.
func repeat(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" || n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
