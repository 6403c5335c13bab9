package cipher

import (
	"errors"
	"testing"
)

const affineTestMessage = "A computer would deserve to be called intelligent if it could deceive a human into believing that it was human.\" Alan Turing"

const affineTestCiphered = "5QG9ol3La6QI93!xQxaia6faQL9QdaQG1!!axQARLa!!AuaRLQADQALQG93!xQxaGaAfaQ1QX3o1RQARL9Qda!AafARuQLX1LQALQI1iQX3o1RN\"Q5!1RQP36ARu"

func TestAffineCipher(t *testing.T) {
	ciphered, err := Affine{}.Cipher(affineTestMessage, 2894, DefaultCharset)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	if ciphered != affineTestCiphered {
		t.Fatalf("unexpected ciphered text: %q", ciphered)
	}
}

func TestAffineDecipher(t *testing.T) {
	deciphered, err := Affine{}.Decipher(affineTestCiphered, 2894, DefaultCharset)
	if err != nil {
		t.Fatalf("decipher: %v", err)
	}
	if deciphered != affineTestMessage {
		t.Fatalf("unexpected deciphered text: %q", deciphered)
	}
}

func TestAffineRejectsInvalidKey(t *testing.T) {
	length := len([]rune(DefaultCharset))
	// Multiplying component 2 shares a factor with the charset length.
	key := 2*length + 1
	if _, err := (Affine{}).Cipher("whatever", key, DefaultCharset); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if err := ValidateAffineKey(0, length); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for key 0, got %v", err)
	}
	if err := ValidateAffineKey(5, length); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for zero multiplying component, got %v", err)
	}
}

func TestAffineRandomKeyRoundTrip(t *testing.T) {
	text := "Resistance is futile."
	for i := 0; i < 10; i++ {
		key := RandomAffineKey(DefaultCharset)
		ciphered, err := Affine{}.Cipher(text, key, DefaultCharset)
		if err != nil {
			t.Fatalf("cipher with key %d: %v", key, err)
		}
		deciphered, err := Affine{}.Decipher(ciphered, key, DefaultCharset)
		if err != nil {
			t.Fatalf("decipher with key %d: %v", key, err)
		}
		if deciphered != text {
			t.Fatalf("round trip with key %d: %q", key, deciphered)
		}
	}
}
