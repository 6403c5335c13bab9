package attack

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cifra-cli/cifra/internal/cipher"
	"github.com/cifra-cli/cifra/internal/dictionary"
)

const (
	// Kasiski examination looks for repeated sequences of these lengths.
	minSequenceLength = 3
	maxSequenceLength = 5
	// maxKeyLength bounds the candidate key lengths derived from the
	// separations.
	maxKeyLength = 15
	// maxLikelyKeyLengths caps how many candidate lengths are tried.
	maxLikelyKeyLengths = 3
	// maxCandidateKeys caps how many assembled keys are scored per
	// candidate length, protecting against degenerate subkey ties.
	maxCandidateKeys = 10000
)

// HackVigenere recovers the word key of a Vigenere ciphered text. It guesses
// candidate key lengths with a Kasiski examination, attacks each
// de-interleaved sequence by frequency analysis against a reference
// histogram built from each stored dictionary, assembles candidate keys and
// keeps the one whose decipherment scores highest.
func HackVigenere(ctx context.Context, store *dictionary.Store, text, charset string) (WordResult, error) {
	languages, err := store.Languages(ctx)
	if err != nil {
		return WordResult{}, err
	}
	lengths := likelyKeyLengths(text)
	var best WordResult
	for _, language := range languages {
		result, err := hackVigenereForLanguage(ctx, store, text, charset, language, lengths)
		if err != nil {
			return WordResult{}, err
		}
		if result.Language.WinnerProbability > best.Language.WinnerProbability {
			best = result
		}
	}
	return best, nil
}

// HackVigenereParallel behaves like HackVigenere but attacks every stored
// language concurrently. Per language candidates are merged in language
// creation order, so the winner matches the sequential search.
func HackVigenereParallel(ctx context.Context, store *dictionary.Store, text, charset string) (WordResult, error) {
	languages, err := store.Languages(ctx)
	if err != nil {
		return WordResult{}, err
	}
	lengths := likelyKeyLengths(text)
	results := make([]WordResult, len(languages))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, language := range languages {
		i, language := i, language
		group.Go(func() error {
			result, err := hackVigenereForLanguage(groupCtx, store, text, charset, language, lengths)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return WordResult{}, err
	}
	var best WordResult
	for _, result := range results {
		if result.Language.WinnerProbability > best.Language.WinnerProbability {
			best = result
		}
	}
	return best, nil
}

func hackVigenereForLanguage(ctx context.Context, store *dictionary.Store, text, charset, language string, lengths []int) (WordResult, error) {
	reference, err := languageHistogram(ctx, store, language, charset)
	if err != nil {
		return WordResult{}, err
	}
	var best WordResult
	for _, length := range lengths {
		substrings := Substrings(text, length)
		candidates := make([][]rune, len(substrings))
		for i, substring := range substrings {
			subkeys, err := LikelySubkeys(substring, reference, charset)
			if err != nil {
				return WordResult{}, err
			}
			candidates[i] = subkeys
		}
		for _, key := range assembleKeys(candidates, maxCandidateKeys) {
			recovered, err := cipher.Vigenere{}.Decipher(text, key, charset)
			if err != nil {
				return WordResult{}, err
			}
			presence, err := store.WordPresence(ctx, language, dictionary.ExtractWords(recovered))
			if err != nil {
				return WordResult{}, err
			}
			if presence > best.Language.WinnerProbability {
				best = WordResult{
					Key:           key,
					RecoveredText: recovered,
					Language: dictionary.IdentifiedLanguage{
						Winner:            language,
						WinnerProbability: presence,
						Candidates:        map[string]float64{language: presence},
					},
				}
			}
		}
	}
	return best, nil
}

// likelyKeyLengths guesses candidate key lengths from the separations of
// repeated sequences. Every length up to maxKeyLength is ranked by how many
// separations it divides, with shorter lengths first on ties. When the text
// has no repeated sequences at all every length is a candidate.
func likelyKeyLengths(text string) []int {
	var separations []int
	for length := minSequenceLength; length <= maxSequenceLength; length++ {
		for _, found := range FindRepeatedSequences(text, length) {
			separations = append(separations, found...)
		}
	}
	divided := make(map[int]int)
	for length := 1; length <= maxKeyLength; length++ {
		for _, separation := range separations {
			if separation%length == 0 {
				divided[length]++
			}
		}
	}
	var lengths []int
	for length, count := range divided {
		if count > 0 {
			lengths = append(lengths, length)
		}
	}
	if len(lengths) == 0 {
		for length := 1; length <= maxKeyLength; length++ {
			lengths = append(lengths, length)
		}
		return lengths
	}
	sort.Slice(lengths, func(i, j int) bool {
		if divided[lengths[i]] != divided[lengths[j]] {
			return divided[lengths[i]] > divided[lengths[j]]
		}
		return lengths[i] < lengths[j]
	})
	if len(lengths) > maxLikelyKeyLengths {
		lengths = lengths[:maxLikelyKeyLengths]
	}
	return lengths
}

// assembleKeys expands per position subkey candidates into whole keys, one
// per element of their cartesian product, up to the given cap.
func assembleKeys(candidates [][]rune, limit int) []string {
	for _, position := range candidates {
		if len(position) == 0 {
			return nil
		}
	}
	var keys []string
	indexes := make([]int, len(candidates))
	for len(keys) < limit {
		var key strings.Builder
		for i, position := range candidates {
			key.WriteRune(position[indexes[i]])
		}
		keys = append(keys, key.String())
		position := len(indexes) - 1
		for position >= 0 {
			indexes[position]++
			if indexes[position] < len(candidates[position]) {
				break
			}
			indexes[position] = 0
			position--
		}
		if position < 0 {
			break
		}
	}
	return keys
}

// languageHistogram builds the reference letter histogram of a language from
// every word stored in its dictionary.
func languageHistogram(ctx context.Context, store *dictionary.Store, language, charset string) (LetterHistogram, error) {
	words, err := store.LanguageWords(ctx, language)
	if err != nil {
		return LetterHistogram{}, err
	}
	return NewHistogramFromText(strings.Join(words, " "), defaultMatchingWidth, charset), nil
}
