// Package cipher implements the classical cipher transforms: Caesar, Affine,
// Transposition, Vigenere and mono-alphabetic Substitution.
//
// Be aware that different languages use different charsets. The default
// charset fits english texts; if you cipher in another language you should
// provide a charset with its extra characters (e.g. "ñ" for spanish).
package cipher

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCharset is used by Caesar and Affine when no charset is given.
const DefaultCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz1234567890 !?."

// DefaultKeyCharset is the lowercase charset used by Substitution and
// Vigenere. Caps are kept in the text but follow the same substitutions as
// their lowercase counterparts.
const DefaultKeyCharset = "abcdefghijklmnopqrstuvwxyz"

// ErrInvalidKey reports a key outside an algorithm's valid key space.
// Brute-force attacks treat it as a skippable candidate, not a failure.
var ErrInvalidKey = errors.New("invalid key")

// charsetIndex maps every charset rune to its position.
func charsetIndex(charset string) map[rune]int {
	index := make(map[rune]int, len(charset))
	for i, ch := range []rune(charset) {
		index[ch] = i
	}
	return index
}

// offsetText shifts every charset character of text by offset positions,
// frontwards when advance is true and backwards otherwise. Characters not
// present in the charset pass through unchanged.
func offsetText(text string, offset int, advance bool, charset string) string {
	runes := []rune(charset)
	index := charsetIndex(charset)
	var out strings.Builder
	out.Grow(len(text))
	for _, ch := range text {
		pos, ok := index[ch]
		if !ok {
			out.WriteRune(ch)
			continue
		}
		if advance {
			out.WriteRune(runes[Mod(pos+offset, len(runes))])
		} else {
			out.WriteRune(runes[Mod(pos-offset, len(runes))])
		}
	}
	return out.String()
}

// checkKeyString validates a string key against its charset: same length and
// no repeated characters.
func checkKeyString(key, charset string) error {
	keyRunes := []rune(key)
	charsetRunes := []rune(charset)
	if len(keyRunes) != len(charsetRunes) {
		return fmt.Errorf("%w: key %q has length %d but charset %q has length %d",
			ErrInvalidKey, key, len(keyRunes), charset, len(charsetRunes))
	}
	seen := make(map[rune]struct{}, len(keyRunes))
	for _, ch := range keyRunes {
		if _, ok := seen[ch]; ok {
			return fmt.Errorf("%w: key %q has repeated characters", ErrInvalidKey, key)
		}
		seen[ch] = struct{}{}
	}
	return nil
}
