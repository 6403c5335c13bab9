package attack

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cifra-cli/cifra/internal/cipher"
	"github.com/cifra-cli/cifra/internal/dictionary"
)

// maxResolvedKeys caps how many candidate keys the mapping search yields per
// language, bounding the work on loosely constrained ciphertexts.
const maxResolvedKeys = 1000

// Mapping tracks the plaintext letter candidates of every cipherletter while
// solving a substitution cipher. A cipherletter without an entry is
// unconstrained: no evidence about it has been seen yet.
type Mapping struct {
	charset []rune
	table   map[rune]map[rune]struct{}
}

// NewMapping returns an empty mapping over the given charset.
func NewMapping(charset string) *Mapping {
	return &Mapping{
		charset: []rune(charset),
		table:   make(map[rune]map[rune]struct{}),
	}
}

// Add registers candidate as a possible plaintext letter for cipherletter.
func (m *Mapping) Add(cipherletter, candidate rune) {
	if m.table[cipherletter] == nil {
		m.table[cipherletter] = make(map[rune]struct{})
	}
	m.table[cipherletter][candidate] = struct{}{}
}

// Candidates returns the known plaintext candidates of a cipherletter in
// ascending order. An unconstrained cipherletter returns nil.
func (m *Mapping) Candidates(cipherletter rune) []rune {
	set := m.table[cipherletter]
	if len(set) == 0 {
		return nil
	}
	candidates := make([]rune, 0, len(set))
	for ch := range set {
		candidates = append(candidates, ch)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates
}

// Reduce intersects this mapping with the evidence gathered from one
// ciphered word. Cipherletters constrained on both sides keep only the
// common candidates; cipherletters only the word mapping constrains copy its
// candidates in; the rest stay unconstrained.
func (m *Mapping) Reduce(word *Mapping) {
	for cipherletter, candidates := range word.table {
		if len(candidates) == 0 {
			continue
		}
		current, ok := m.table[cipherletter]
		if !ok || len(current) == 0 {
			copied := make(map[rune]struct{}, len(candidates))
			for ch := range candidates {
				copied[ch] = struct{}{}
			}
			m.table[cipherletter] = copied
			continue
		}
		intersection := make(map[rune]struct{})
		for ch := range current {
			if _, ok := candidates[ch]; ok {
				intersection[ch] = struct{}{}
			}
		}
		m.table[cipherletter] = intersection
	}
}

// CleanRedundancies removes every already solved plaintext letter from the
// candidate sets of the other cipherletters: a monoalphabetic key cannot map
// two cipherletters to the same plaintext letter. Solving one letter can
// solve others in cascade, so cleaning runs to a fixpoint and applying it
// again changes nothing.
func (m *Mapping) CleanRedundancies() {
	for {
		changed := false
		for cipherletter, candidates := range m.table {
			if len(candidates) != 1 {
				continue
			}
			var solved rune
			for ch := range candidates {
				solved = ch
			}
			for other, otherCandidates := range m.table {
				if other == cipherletter || len(otherCandidates) <= 1 {
					continue
				}
				if _, ok := otherCandidates[solved]; ok {
					delete(otherCandidates, solved)
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// PossibleMappings expands a possibly multi valued mapping into every fully
// resolved one: the cartesian product of all candidate sets, where an
// unconstrained cipherletter is forced to map to itself. The amount of
// returned mappings is the product of every candidate set size.
func (m *Mapping) PossibleMappings() []*Mapping {
	resolved := []*Mapping{NewMapping(string(m.charset))}
	for _, cipherletter := range m.charset {
		candidates := m.Candidates(cipherletter)
		if candidates == nil {
			candidates = []rune{cipherletter}
		}
		var expanded []*Mapping
		for _, partial := range resolved {
			for _, candidate := range candidates {
				next := NewMapping(string(m.charset))
				for ch, set := range partial.table {
					for p := range set {
						next.Add(ch, p)
					}
				}
				next.Add(cipherletter, candidate)
				expanded = append(expanded, next)
			}
		}
		resolved = expanded
	}
	return resolved
}

// KeyString synthesizes a substitution key from a fully resolved mapping:
// for every plaintext letter in charset order, the key holds the
// cipherletter solved to it, or the plaintext letter itself when no
// cipherletter maps to it. The result always has the charset length, but it
// may still repeat characters when independently solved cipherletters clash
// and must be validated before use.
func (m *Mapping) KeyString() string {
	solved := make(map[rune]rune, len(m.table))
	for _, cipherletter := range m.charset {
		candidates := m.Candidates(cipherletter)
		if len(candidates) != 1 {
			continue
		}
		if _, ok := solved[candidates[0]]; !ok {
			solved[candidates[0]] = cipherletter
		}
	}
	key := make([]rune, len(m.charset))
	for i, plainLetter := range m.charset {
		if cipherletter, ok := solved[plainLetter]; ok {
			key[i] = cipherletter
		} else {
			key[i] = plainLetter
		}
	}
	return string(key)
}

// resolvedKeys searches the mapping for candidate substitution keys. Instead
// of materializing the whole cartesian product it walks the cipherletters
// depth first, pruning any branch that would map two cipherletters to the
// same plaintext letter, and synthesizes a key per surviving assignment, up
// to the given cap.
func (m *Mapping) resolvedKeys(limit int) []string {
	constrained := make([]rune, 0, len(m.charset))
	for _, cipherletter := range m.charset {
		if len(m.table[cipherletter]) > 0 {
			constrained = append(constrained, cipherletter)
		}
	}
	var keys []string
	assignment := make(map[rune]rune, len(constrained))
	used := make(map[rune]struct{}, len(constrained))
	var walk func(position int)
	walk = func(position int) {
		if len(keys) >= limit {
			return
		}
		if position == len(constrained) {
			keys = append(keys, m.assignedKeyString(assignment))
			return
		}
		cipherletter := constrained[position]
		for _, candidate := range m.Candidates(cipherletter) {
			if _, taken := used[candidate]; taken {
				continue
			}
			assignment[cipherletter] = candidate
			used[candidate] = struct{}{}
			walk(position + 1)
			delete(assignment, cipherletter)
			delete(used, candidate)
		}
	}
	walk(0)
	return keys
}

// assignedKeyString synthesizes a key like KeyString does, but from an
// explicit cipherletter to plaintext assignment.
func (m *Mapping) assignedKeyString(assignment map[rune]rune) string {
	solved := make(map[rune]rune, len(assignment))
	for cipherletter, plainLetter := range assignment {
		solved[plainLetter] = cipherletter
	}
	key := make([]rune, len(m.charset))
	for i, plainLetter := range m.charset {
		if cipherletter, ok := solved[plainLetter]; ok {
			key[i] = cipherletter
		} else {
			key[i] = plainLetter
		}
	}
	return string(key)
}

// HackSubstitution recovers the key of a substitution ciphered text by word
// pattern matching against every stored dictionary: same pattern dictionary
// words constrain which plaintext letters every cipherletter can stand for,
// and the surviving candidate keys are scored by the word presence of their
// decipherments.
func HackSubstitution(ctx context.Context, store *dictionary.Store, text, charset string) (WordResult, error) {
	languages, err := store.Languages(ctx)
	if err != nil {
		return WordResult{}, err
	}
	var best WordResult
	for _, language := range languages {
		result, err := hackSubstitutionForLanguage(ctx, store, text, charset, language)
		if err != nil {
			return WordResult{}, err
		}
		if result.Language.WinnerProbability > best.Language.WinnerProbability {
			best = result
		}
	}
	return best, nil
}

// HackSubstitutionParallel behaves like HackSubstitution but attacks every
// stored language concurrently. Per language candidates are merged in
// language creation order, so the winner matches the sequential search.
func HackSubstitutionParallel(ctx context.Context, store *dictionary.Store, text, charset string) (WordResult, error) {
	languages, err := store.Languages(ctx)
	if err != nil {
		return WordResult{}, err
	}
	results := make([]WordResult, len(languages))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, language := range languages {
		i, language := i, language
		group.Go(func() error {
			result, err := hackSubstitutionForLanguage(groupCtx, store, text, charset, language)
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

func hackSubstitutionForLanguage(ctx context.Context, store *dictionary.Store, text, charset, language string) (WordResult, error) {
	mapping, err := languageMapping(ctx, store, text, charset, language)
	if err != nil {
		return WordResult{}, err
	}
	mapping.CleanRedundancies()
	var best WordResult
	for _, key := range mapping.resolvedKeys(maxResolvedKeys) {
		if err := cipher.CheckSubstitutionKey(key, charset); err != nil {
			// Clashing assignments can still synthesize a malformed
			// key; drop the candidate and keep searching.
			continue
		}
		recovered, err := cipher.Substitution{}.Decipher(text, key, charset)
		if err != nil {
			continue
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
	return best, nil
}

// languageMapping builds the global mapping of a ciphertext against one
// language: every distinct ciphered word contributes the union of its same
// pattern dictionary words, and the global mapping is the intersection of
// all word contributions. Words without same pattern candidates add no
// evidence.
func languageMapping(ctx context.Context, store *dictionary.Store, text, charset, language string) (*Mapping, error) {
	words := dictionary.ExtractWords(text)
	ordered := make([]string, 0, len(words))
	for word := range words {
		ordered = append(ordered, word)
	}
	sort.Strings(ordered)

	global := NewMapping(charset)
	for _, word := range ordered {
		candidates, err := store.WordsWithPattern(ctx, language, dictionary.WordPattern(word))
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}
		wordMapping := NewMapping(charset)
		cipherletters := []rune(word)
		for _, candidate := range candidates {
			plainLetters := []rune(candidate)
			if len(plainLetters) != len(cipherletters) {
				continue
			}
			for i, cipherletter := range cipherletters {
				wordMapping.Add(cipherletter, plainLetters[i])
			}
		}
		global.Reduce(wordMapping)
	}
	return global, nil
}
