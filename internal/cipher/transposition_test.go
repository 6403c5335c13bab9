package cipher

import (
	"errors"
	"testing"
)

func TestTranspositionCipher(t *testing.T) {
	ciphered, err := Transposition{}.Cipher("Common sense is not so common.", 8)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	if ciphered != "Cenoonommstmme oo snnio. s s c" {
		t.Fatalf("unexpected ciphered text: %q", ciphered)
	}
}

func TestTranspositionDecipher(t *testing.T) {
	deciphered, err := Transposition{}.Decipher("Cenoonommstmme oo snnio. s s c", 8)
	if err != nil {
		t.Fatalf("decipher: %v", err)
	}
	if deciphered != "Common sense is not so common." {
		t.Fatalf("unexpected deciphered text: %q", deciphered)
	}
}

func TestTranspositionRoundTrip(t *testing.T) {
	text := "A computer would deserve to be called intelligent."
	for key := 1; key < len(text); key++ {
		ciphered, err := Transposition{}.Cipher(text, key)
		if err != nil {
			t.Fatalf("cipher with key %d: %v", key, err)
		}
		deciphered, err := Transposition{}.Decipher(ciphered, key)
		if err != nil {
			t.Fatalf("decipher with key %d: %v", key, err)
		}
		if deciphered != text {
			t.Fatalf("round trip with key %d: %q", key, deciphered)
		}
	}
}

func TestTranspositionKeyBeyondLengthKeepsText(t *testing.T) {
	ciphered, err := Transposition{}.Cipher("short", 10)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	if ciphered != "short" {
		t.Fatalf("unexpected ciphered text: %q", ciphered)
	}
}

func TestTranspositionRejectsNonPositiveKey(t *testing.T) {
	if _, err := (Transposition{}).Cipher("whatever", 0); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
