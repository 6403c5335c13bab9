package dictionary

import (
	"context"
	"testing"
)

func TestIdentifyLanguage(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create english: %v", err)
	}
	if err := store.AddWords(ctx, "english", ExtractWords("the secret message was never found")); err != nil {
		t.Fatalf("add english words: %v", err)
	}
	if err := store.CreateDictionary(ctx, "spanish"); err != nil {
		t.Fatalf("create spanish: %v", err)
	}
	if err := store.AddWords(ctx, "spanish", ExtractWords("el mensaje secreto nunca fue encontrado")); err != nil {
		t.Fatalf("add spanish words: %v", err)
	}

	identified, err := IdentifyLanguage(ctx, store, "the message was found")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if !identified.Identified() {
		t.Fatalf("expected an identified language")
	}
	if identified.Winner != "english" {
		t.Fatalf("expected english winner, got %q", identified.Winner)
	}
	if identified.WinnerProbability != 1 {
		t.Fatalf("expected probability 1, got %.4f", identified.WinnerProbability)
	}
	if identified.Candidates["spanish"] != 0 {
		t.Fatalf("expected 0 spanish hits, got %.4f", identified.Candidates["spanish"])
	}
}

func TestIdentifyLanguageWithoutHits(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AddWords(ctx, "english", ExtractWords("completely unrelated vocabulary")); err != nil {
		t.Fatalf("add words: %v", err)
	}

	identified, err := IdentifyLanguage(ctx, store, "xyzzy plugh qwerty")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if identified.Identified() {
		t.Fatalf("did not expect a winner, got %q", identified.Winner)
	}
	if identified.WinnerProbability != 0 {
		t.Fatalf("expected 0 probability, got %.4f", identified.WinnerProbability)
	}
}
