package attack

import (
	"context"

	"github.com/cifra-cli/cifra/internal/cipher"
	"github.com/cifra-cli/cifra/internal/dictionary"
)

// HackAffine brute forces an Affine ciphered text. The key space is the
// squared charset length; keys with a multiplying component not relatively
// prime with the charset length are skipped by the search.
func HackAffine(ctx context.Context, store *dictionary.Store, text, charset string) (Result, error) {
	length := len([]rune(charset))
	return BruteForce(ctx, length*length, affineAssess(store, text, charset))
}

// HackAffineParallel is the concurrent version of HackAffine.
func HackAffineParallel(ctx context.Context, store *dictionary.Store, text, charset string) (Result, error) {
	length := len([]rune(charset))
	return BruteForceParallel(ctx, length*length, affineAssess(store, text, charset))
}

func affineAssess(store *dictionary.Store, text, charset string) Assess {
	return func(ctx context.Context, key int) (Result, error) {
		recovered, err := cipher.Affine{}.Decipher(text, key, charset)
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
