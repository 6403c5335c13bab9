package cipher

import (
	"strings"
	"unicode"
)

// Substitution ciphers by replacing every charset character with the key
// character at the same position. The key must be a permutation of the
// charset.
type Substitution struct{}

// CheckSubstitutionKey validates that key is usable with charset: same
// length and no repeated characters.
func CheckSubstitutionKey(key, charset string) error {
	return checkKeyString(key, charset)
}

// Cipher ciphers text using the substitution method. Caps are kept but
// follow the same substitutions as their lowercase counterparts.
func (Substitution) Cipher(text, key, charset string) (string, error) {
	if err := CheckSubstitutionKey(key, charset); err != nil {
		return "", err
	}
	return substituteText(text, charset, key), nil
}

// Decipher recovers text ciphered with the substitution method. Both ends
// should use the same charset and key.
func (Substitution) Decipher(text, key, charset string) (string, error) {
	if err := CheckSubstitutionKey(key, charset); err != nil {
		return "", err
	}
	return substituteText(text, key, charset), nil
}

// substituteText maps every character found in from to the character at the
// same position in to. Ciphering maps the charset into the key; deciphering
// maps the key back into the charset.
func substituteText(text, from, to string) string {
	toRunes := []rune(to)
	index := charsetIndex(from)
	var out strings.Builder
	out.Grow(len(text))
	for _, ch := range text {
		pos, ok := index[unicode.ToLower(ch)]
		if !ok {
			out.WriteRune(ch)
			continue
		}
		mapped := toRunes[pos]
		if unicode.IsUpper(ch) {
			mapped = unicode.ToUpper(mapped)
		}
		out.WriteRune(mapped)
	}
	return out.String()
}
