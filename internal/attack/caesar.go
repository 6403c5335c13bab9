package attack

import (
	"context"

	"github.com/cifra-cli/cifra/internal/cipher"
	"github.com/cifra-cli/cifra/internal/dictionary"
)

// HackCaesar brute forces a Caesar ciphered text. The key space is the
// charset length.
func HackCaesar(ctx context.Context, store *dictionary.Store, text, charset string) (Result, error) {
	return BruteForce(ctx, len([]rune(charset)), caesarAssess(store, text, charset))
}

// HackCaesarParallel is the concurrent version of HackCaesar.
func HackCaesarParallel(ctx context.Context, store *dictionary.Store, text, charset string) (Result, error) {
	return BruteForceParallel(ctx, len([]rune(charset)), caesarAssess(store, text, charset))
}

func caesarAssess(store *dictionary.Store, text, charset string) Assess {
	return func(ctx context.Context, key int) (Result, error) {
		recovered, err := cipher.Caesar{}.Decipher(text, key, charset)
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
