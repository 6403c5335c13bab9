package dictionary

import (
	"strconv"
	"strings"
	"unicode"
)

// WordPattern returns the pattern of a word: the index of the first
// occurrence of each letter, joined with dots. Words that are substitution
// images of each other share the same pattern, so "HGHHU" gives "0.1.0.0.2".
func WordPattern(word string) string {
	seen := make(map[rune]int)
	var indexes []string
	for _, ch := range strings.ToLower(word) {
		pos, ok := seen[ch]
		if !ok {
			pos = len(seen)
			seen[ch] = pos
		}
		indexes = append(indexes, strconv.Itoa(pos))
	}
	return strings.Join(indexes, ".")
}

// ExtractWords returns the distinct normalized words of a text. Words are
// lowercased and split at any non-letter character, so digits, punctuation,
// apostrophes and hyphens all break words.
func ExtractWords(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(ch rune) bool {
		return !unicode.IsLetter(ch)
	})
	words := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		words[field] = struct{}{}
	}
	return words
}
