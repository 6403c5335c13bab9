package cipher

import (
	"errors"
	"testing"
)

func TestVigenereCipher(t *testing.T) {
	ciphered, err := Vigenere{}.Cipher("Common sense is not so common.", "pizza", DefaultKeyCharset)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	if ciphered != "Rwlloc admst qr moi an bobunm." {
		t.Fatalf("unexpected ciphered text: %q", ciphered)
	}
}

func TestVigenereDecipher(t *testing.T) {
	deciphered, err := Vigenere{}.Decipher("Rwlloc admst qr moi an bobunm.", "pizza", DefaultKeyCharset)
	if err != nil {
		t.Fatalf("decipher: %v", err)
	}
	if deciphered != "Common sense is not so common." {
		t.Fatalf("unexpected deciphered text: %q", deciphered)
	}
}

func TestVigenereRoundTrip(t *testing.T) {
	text := "A computer would deserve to be called intelligent."
	keys := []string{"a", "cat", "pizza", "lemon", "abcdefghij"}
	for _, key := range keys {
		ciphered, err := Vigenere{}.Cipher(text, key, DefaultKeyCharset)
		if err != nil {
			t.Fatalf("cipher with key %q: %v", key, err)
		}
		deciphered, err := Vigenere{}.Decipher(ciphered, key, DefaultKeyCharset)
		if err != nil {
			t.Fatalf("decipher with key %q: %v", key, err)
		}
		if deciphered != text {
			t.Fatalf("round trip with key %q: %q", key, deciphered)
		}
	}
}

func TestVigenereRejectsBadKeys(t *testing.T) {
	if _, err := (Vigenere{}).Cipher("whatever", "", DefaultKeyCharset); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for empty key, got %v", err)
	}
	if _, err := (Vigenere{}).Cipher("whatever", "k3y", DefaultKeyCharset); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for key outside charset, got %v", err)
	}
}
