package attack

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/cifra-cli/cifra/internal/cipher"
)

// defaultMatchingWidth is how many top and bottom letters histograms compare
// by default. Six is the classical window for english frequency analysis.
const defaultMatchingWidth = 6

// LetterHistogram ranks the letters of a text by frequency. Ranking is
// count descending with alphabetical order inside every count bin, so it
// stays language agnostic and deterministic. Charset letters absent from the
// text are kept with count zero and the histogram always spans the whole
// charset.
type LetterHistogram struct {
	charset       []rune
	counters      map[rune]int
	ranked        []rune
	total         int
	matchingWidth int
}

// NewHistogramFromText builds a histogram counting the charset letters of
// text. Text is lowercased and every character outside the charset is
// ignored.
func NewHistogramFromText(text string, matchingWidth int, charset string) LetterHistogram {
	counters := make(map[rune]int)
	inCharset := make(map[rune]struct{})
	for _, ch := range charset {
		inCharset[ch] = struct{}{}
	}
	for _, ch := range strings.ToLower(text) {
		if _, ok := inCharset[ch]; ok {
			counters[ch]++
		}
	}
	return NewHistogramFromCounts(counters, matchingWidth, charset)
}

// NewHistogramFromCounts builds a histogram from a precomputed letter count
// table.
func NewHistogramFromCounts(counts map[rune]int, matchingWidth int, charset string) LetterHistogram {
	h := LetterHistogram{
		charset:       []rune(charset),
		counters:      make(map[rune]int, len(charset)),
		matchingWidth: matchingWidth,
	}
	for _, ch := range h.charset {
		h.counters[ch] = counts[ch]
		h.total += counts[ch]
	}
	h.ranked = make([]rune, len(h.charset))
	copy(h.ranked, h.charset)
	sort.Slice(h.ranked, func(i, j int) bool {
		left, right := h.ranked[i], h.ranked[j]
		if h.counters[left] != h.counters[right] {
			return h.counters[left] > h.counters[right]
		}
		return left < right
	})
	return h
}

// Frequency returns the ratio of a letter over every counted letter.
func (h LetterHistogram) Frequency(letter rune) (float64, error) {
	count, ok := h.counters[letter]
	if !ok {
		return 0, fmt.Errorf("letter %q not found in histogram charset", letter)
	}
	if h.total == 0 {
		return 0, nil
	}
	return float64(count) / float64(h.total), nil
}

// Ranked returns every charset letter ordered by descending count, ties
// broken alphabetically.
func (h LetterHistogram) Ranked() []rune {
	ranked := make([]rune, len(h.ranked))
	copy(ranked, h.ranked)
	return ranked
}

// TopMatching returns the most frequent letters, as many as the matching
// width.
func (h LetterHistogram) TopMatching() []rune {
	width := h.matchingWidth
	if width > len(h.ranked) {
		width = len(h.ranked)
	}
	top := make([]rune, width)
	copy(top, h.ranked[:width])
	return top
}

// BottomMatching returns the least frequent letters, as many as the
// matching width.
func (h LetterHistogram) BottomMatching() []rune {
	width := h.matchingWidth
	if width > len(h.ranked) {
		width = len(h.ranked)
	}
	bottom := make([]rune, width)
	copy(bottom, h.ranked[len(h.ranked)-width:])
	return bottom
}

// MatchScore measures how similar two frequency fingerprints are: how many
// letters both histograms share in their top matching sets plus how many in
// their bottom matching sets. It ranges from 0 to twice the matching width.
func MatchScore(a, b LetterHistogram) int {
	return matchCount(a.TopMatching(), b.TopMatching()) +
		matchCount(a.BottomMatching(), b.BottomMatching())
}

func matchCount(a, b []rune) int {
	present := make(map[rune]struct{}, len(a))
	for _, ch := range a {
		present[ch] = struct{}{}
	}
	count := 0
	for _, ch := range b {
		if _, ok := present[ch]; ok {
			count++
		}
	}
	return count
}

// normalizeLetters lowercases text and strips every non letter character,
// leaving the bare letter stream frequency analysis works on.
func normalizeLetters(text string) []rune {
	var letters []rune
	for _, ch := range strings.ToLower(text) {
		if unicode.IsLetter(ch) {
			letters = append(letters, ch)
		}
	}
	return letters
}

// FindRepeatedSequences locates every repeated sequence of the given length
// in the normalized letter stream of text and returns the separations
// between its occurrences. Besides the gaps between consecutive occurrences,
// sums of contiguous gap runs are included too, since repeats produced by a
// periodic key may be several key lengths apart.
func FindRepeatedSequences(text string, length int) map[string][]int {
	letters := normalizeLetters(text)
	positions := make(map[string][]int)
	for i := 0; i+length <= len(letters); i++ {
		sequence := string(letters[i : i+length])
		positions[sequence] = append(positions[sequence], i)
	}
	separations := make(map[string][]int)
	for sequence, found := range positions {
		if len(found) < 2 {
			continue
		}
		adjacent := make([]int, 0, len(found)-1)
		for i := 1; i < len(found); i++ {
			adjacent = append(adjacent, found[i]-found[i-1])
		}
		all := append([]int(nil), adjacent...)
		for start := 0; start < len(adjacent); start++ {
			sum := adjacent[start]
			for end := start + 1; end < len(adjacent); end++ {
				sum += adjacent[end]
				all = append(all, sum)
			}
		}
		separations[sequence] = all
	}
	return separations
}

// Substrings de-interleaves the normalized letter stream of text into step
// sequences: sequence i holds every letter at a position congruent with i
// modulo step. Each sequence was ciphered under one single repeating subkey
// character, so it can be attacked as an independent single shift cipher.
func Substrings(text string, step int) []string {
	letters := normalizeLetters(text)
	builders := make([]strings.Builder, step)
	for i, ch := range letters {
		builders[i%step].WriteRune(ch)
	}
	substrings := make([]string, step)
	for i := range builders {
		substrings[i] = builders[i].String()
	}
	return substrings
}

// LikelySubkeys tries every charset letter as the single shift subkey of a
// de-interleaved sequence and returns all letters whose deciphered histogram
// best matches the reference one, sorted ascending. Ties are kept so the
// caller can disambiguate once the whole key is assembled.
func LikelySubkeys(substring string, reference LetterHistogram, charset string) ([]rune, error) {
	// Index by rune position, not byte offset, so multibyte charset
	// letters keep the shifts aligned with the cipher's charset indexing.
	index := make(map[rune]int, len(charset))
	for i, ch := range []rune(charset) {
		index[ch] = i
	}
	bestScore := -1
	var likely []rune
	for _, ch := range charset {
		recovered, err := cipher.Caesar{}.Decipher(substring, index[ch], charset)
		if err != nil {
			return nil, err
		}
		histogram := NewHistogramFromText(recovered, reference.matchingWidth, charset)
		score := MatchScore(histogram, reference)
		switch {
		case score > bestScore:
			bestScore = score
			likely = []rune{ch}
		case score == bestScore:
			likely = append(likely, ch)
		}
	}
	sort.Slice(likely, func(i, j int) bool { return likely[i] < likely[j] })
	return likely, nil
}
