package attack

import (
	"context"

	"github.com/cifra-cli/cifra/internal/cipher"
	"github.com/cifra-cli/cifra/internal/dictionary"
)

// HackTransposition brute forces a transposition ciphered text. The key
// space is the text length since longer keys leave the text unchanged.
func HackTransposition(ctx context.Context, store *dictionary.Store, text string) (Result, error) {
	return BruteForce(ctx, len([]rune(text)), transpositionAssess(store, text))
}

// HackTranspositionParallel is the concurrent version of HackTransposition.
func HackTranspositionParallel(ctx context.Context, store *dictionary.Store, text string) (Result, error) {
	return BruteForceParallel(ctx, len([]rune(text)), transpositionAssess(store, text))
}

func transpositionAssess(store *dictionary.Store, text string) Assess {
	return func(ctx context.Context, key int) (Result, error) {
		recovered, err := cipher.Transposition{}.Decipher(text, key)
		if err != nil {
			return Result{}, err
		}
		language, err := dictionary.IdentifyLanguage(ctx, store, recovered)
		if err != nil {
			return Result{}, err
		}
		return Result{Key: key, RecoveredText: recovered, Language: language}, nil
	}
}
