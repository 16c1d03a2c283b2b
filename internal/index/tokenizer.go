package index

import (
	"regexp"
	"strings"
)

// tokenPattern matches alphanumeric sequences (including underscores).
var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

// stopWords is the fixed stop-word set shared by index build and query
// scoring. Changing it invalidates every persisted index, so it is a
// package constant rather than configuration.
var stopWords = buildStopWordMap([]string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for",
	"from", "has", "have", "if", "in", "into", "is", "it", "its",
	"no", "not", "of", "on", "or", "so", "such", "that", "the",
	"their", "then", "there", "these", "they", "this", "to", "was",
	"were", "will", "with", "you", "your",
})

// Tokenize splits text into lowercase alphanumeric-and-underscore terms,
// dropping single-character tokens and stop words. It is pure and
// deterministic; the same function runs at index-build time and query time.
func Tokenize(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < 2 {
			continue
		}
		if _, isStop := stopWords[word]; isStop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// TermCounts tokenizes text and accumulates raw term frequencies.
func TermCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}
	return counts
}

// buildStopWordMap converts a slice of stop words to a map for efficient lookup.
func buildStopWordMap(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, word := range words {
		m[strings.ToLower(word)] = struct{}{}
	}
	return m
}
