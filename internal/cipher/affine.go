package cipher

import (
	"fmt"
	"math/rand"
	"strings"
)

// Affine ciphers with pos*multiplying+adding mod N and deciphers with the
// modular inverse. A single integer key packs both components as
// multiplying*N + adding, N being the charset length.
type Affine struct{}

// affineKeyParts splits key into its multiplying and adding components.
func affineKeyParts(key, charsetLength int) (multiplying, adding int) {
	return key / charsetLength, key % charsetLength
}

// ValidateAffineKey checks that key can cipher with a charset of the given
// length: the multiplying component must be positive and relatively prime
// with the charset length. Not every integer is a valid Affine key.
func ValidateAffineKey(key, charsetLength int) error {
	if key <= 0 {
		return fmt.Errorf("%w: affine key must be greater than 0, got %d", ErrInvalidKey, key)
	}
	multiplying, _ := affineKeyParts(key, charsetLength)
	if multiplying == 0 {
		return fmt.Errorf("%w: affine multiplying key must be greater than 0 (key %d, charset length %d)",
			ErrInvalidKey, key, charsetLength)
	}
	if GCD(multiplying, charsetLength) != 1 {
		return fmt.Errorf("%w: affine multiplying key %d and charset length %d are not relatively prime",
			ErrInvalidKey, multiplying, charsetLength)
	}
	return nil
}

// RandomAffineKey returns a key valid for the given charset. Picking a valid
// Affine key by hand is cumbersome because of the relative-primality rule,
// so this automates the task.
func RandomAffineKey(charset string) int {
	length := len([]rune(charset))
	for {
		multiplying := rand.Intn(length-2) + 2
		adding := rand.Intn(length-2) + 2
		key := multiplying*length + adding
		if err := ValidateAffineKey(key, length); err == nil {
			return key
		}
	}
}

// Cipher ciphers text using the Affine method.
func (Affine) Cipher(text string, key int, charset string) (string, error) {
	runes := []rune(charset)
	if err := ValidateAffineKey(key, len(runes)); err != nil {
		return "", err
	}
	multiplying, adding := affineKeyParts(key, len(runes))
	index := charsetIndex(charset)
	var out strings.Builder
	out.Grow(len(text))
	for _, ch := range text {
		pos, ok := index[ch]
		if !ok {
			out.WriteRune(ch)
			continue
		}
		out.WriteRune(runes[Mod(pos*multiplying+adding, len(runes))])
	}
	return out.String(), nil
}

// Decipher deciphers text using the Affine method.
func (Affine) Decipher(text string, key int, charset string) (string, error) {
	runes := []rune(charset)
	if err := ValidateAffineKey(key, len(runes)); err != nil {
		return "", err
	}
	multiplying, adding := affineKeyParts(key, len(runes))
	inverse, err := ModInverse(multiplying, len(runes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	index := charsetIndex(charset)
	var out strings.Builder
	out.Grow(len(text))
	for _, ch := range text {
		pos, ok := index[ch]
		if !ok {
			out.WriteRune(ch)
			continue
		}
		out.WriteRune(runes[Mod((pos-adding)*inverse, len(runes))])
	}
	return out.String(), nil
}
