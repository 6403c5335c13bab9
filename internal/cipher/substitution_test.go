package cipher

import (
	"errors"
	"testing"
)

const substitutionTestKey = "lfwoayuisvkmnxpbdcrjtqeghz"

func TestSubstitutionCipher(t *testing.T) {
	ciphered, err := Substitution{}.Cipher("Hello World", substitutionTestKey, DefaultKeyCharset)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	if ciphered != "Iammp Epcmo" {
		t.Fatalf("unexpected ciphered text: %q", ciphered)
	}
}

func TestSubstitutionDecipher(t *testing.T) {
	deciphered, err := Substitution{}.Decipher("Iammp Epcmo", substitutionTestKey, DefaultKeyCharset)
	if err != nil {
		t.Fatalf("decipher: %v", err)
	}
	if deciphered != "Hello World" {
		t.Fatalf("unexpected deciphered text: %q", deciphered)
	}
}

func TestSubstitutionRoundTrip(t *testing.T) {
	text := "If a man is offered a fact which goes against his instincts, he will scrutinize it closely."
	ciphered, err := Substitution{}.Cipher(text, substitutionTestKey, DefaultKeyCharset)
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	deciphered, err := Substitution{}.Decipher(ciphered, substitutionTestKey, DefaultKeyCharset)
	if err != nil {
		t.Fatalf("decipher: %v", err)
	}
	if deciphered != text {
		t.Fatalf("round trip: %q", deciphered)
	}
}

func TestSubstitutionRejectsBadKeys(t *testing.T) {
	if _, err := (Substitution{}).Cipher("whatever", "abc", DefaultKeyCharset); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for short key, got %v", err)
	}
	repeated := "aacdefghijklmnopqrstuvwxyz"
	if _, err := (Substitution{}).Cipher("whatever", repeated, DefaultKeyCharset); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for repeated characters, got %v", err)
	}
}
