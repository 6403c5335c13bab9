// Package attack implements attacks against classical ciphers: dictionary
// brute force for integer keys, Kasiski examination plus frequency analysis
// for Vigenere and word pattern solving for substitution.
package attack

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cifra-cli/cifra/internal/cipher"
	"github.com/cifra-cli/cifra/internal/dictionary"
)

// Result is one assessed candidate of an integer keyed attack.
type Result struct {
	Key           int
	RecoveredText string
	Language      dictionary.IdentifiedLanguage
}

// WordResult is one assessed candidate of a string keyed attack.
type WordResult struct {
	Key           string
	RecoveredText string
	Language      dictionary.IdentifiedLanguage
}

// Assess deciphers text with one candidate key and scores the outcome
// against the stored dictionaries.
type Assess func(ctx context.Context, key int) (Result, error)

// BestResult reduces assessed candidates to the one whose recovered text
// scored highest. Comparison is strict greater, so on exact ties the first
// candidate in the slice wins; candidates with no identified language never
// win. When nothing scored, the returned result is the zero value and its
// key 0 is the "no key found" sentinel.
func BestResult(results []Result) Result {
	var best Result
	for _, result := range results {
		if result.Language.WinnerProbability > best.Language.WinnerProbability {
			best = result
		}
	}
	return best
}

// BruteForce tries every key from 1 up to keySpace-1 and returns the best
// scored candidate. Key 0 is not tried because it maps every character to
// itself and would match the ciphered text as often as the genuine key.
// Keys the cipher rejects are skipped; any other assessment error aborts
// the search.
func BruteForce(ctx context.Context, keySpace int, assess Assess) (Result, error) {
	var results []Result
	for key := 1; key < keySpace; key++ {
		result, err := assess(ctx, key)
		if errors.Is(err, cipher.ErrInvalidKey) {
			continue
		}
		if err != nil {
			return Result{}, err
		}
		results = append(results, result)
	}
	return BestResult(results), nil
}

// BruteForceParallel behaves like BruteForce but spreads assessments over
// the available CPUs. Candidates are reduced in key order afterwards, so the
// winner is the same one the sequential search finds.
func BruteForceParallel(ctx context.Context, keySpace int, assess Assess) (Result, error) {
	if keySpace < 1 {
		keySpace = 1
	}
	slots := make([]Result, keySpace)
	assessed := make([]bool, keySpace)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	for key := 1; key < keySpace; key++ {
		key := key
		group.Go(func() error {
			result, err := assess(groupCtx, key)
			if errors.Is(err, cipher.ErrInvalidKey) {
				return nil
			}
			if err != nil {
				return err
			}
			slots[key] = result
			assessed[key] = true
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}
	results := make([]Result, 0, keySpace)
	for key := 1; key < keySpace; key++ {
		if assessed[key] {
			results = append(results, slots[key])
		}
	}
	return BestResult(results), nil
}
