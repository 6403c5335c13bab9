package cipher

import (
	"fmt"
	"strings"
	"unicode"
)

// Vigenere ciphers with a repeating word key over a lowercase charset. Caps
// are kept in the text but follow the same substitutions as lowercase.
type Vigenere struct{}

// Cipher ciphers text using the Vigenere method. The longer the key the
// harder the ciphered text is to break.
func (Vigenere) Cipher(text, key, charset string) (string, error) {
	return vigenereText(text, key, charset, true)
}

// Decipher recovers text ciphered with the Vigenere method.
func (Vigenere) Decipher(text, key, charset string) (string, error) {
	return vigenereText(text, key, charset, false)
}

func vigenereText(text, key, charset string, advance bool) (string, error) {
	runes := []rune(charset)
	index := charsetIndex(charset)
	keyRunes := []rune(key)
	if len(keyRunes) == 0 {
		return "", fmt.Errorf("%w: vigenere key is empty", ErrInvalidKey)
	}
	offsets := make([]int, len(keyRunes))
	for i, ch := range keyRunes {
		pos, ok := index[unicode.ToLower(ch)]
		if !ok {
			return "", fmt.Errorf("%w: vigenere key character %q is not in charset %q", ErrInvalidKey, ch, charset)
		}
		offsets[i] = pos
	}
	var out strings.Builder
	out.Grow(len(text))
	subkey := 0
	for _, ch := range text {
		lower := unicode.ToLower(ch)
		pos, ok := index[lower]
		if !ok {
			// Characters outside the charset pass through without
			// consuming a subkey.
			out.WriteRune(ch)
			continue
		}
		offset := offsets[subkey%len(offsets)]
		subkey++
		var mapped rune
		if advance {
			mapped = runes[Mod(pos+offset, len(runes))]
		} else {
			mapped = runes[Mod(pos-offset, len(runes))]
		}
		if unicode.IsUpper(ch) {
			mapped = unicode.ToUpper(mapped)
		}
		out.WriteRune(mapped)
	}
	return out.String(), nil
}
