package dictionary

import "context"

// IdentifiedLanguage is the outcome of scoring a text against every stored
// dictionary.
type IdentifiedLanguage struct {
	// Winner is the best matching language, or empty when no language
	// recognized a single word.
	Winner string
	// WinnerProbability is the ratio of text words found in the winner
	// dictionary.
	WinnerProbability float64
	// Candidates maps every checked language to its ratio.
	Candidates map[string]float64
}

// Identified reports whether any language recognized the text at all.
func (il IdentifiedLanguage) Identified() bool {
	return il.Winner != ""
}

// IdentifyLanguage scores a text against every dictionary in the store and
// returns the one that recognizes the most of its words. Languages are
// checked in creation order and ties keep the first seen, so results are
// deterministic for a given database.
func IdentifyLanguage(ctx context.Context, store *Store, text string) (IdentifiedLanguage, error) {
	words := ExtractWords(text)
	languages, err := store.Languages(ctx)
	if err != nil {
		return IdentifiedLanguage{}, err
	}
	identified := IdentifiedLanguage{
		Candidates: make(map[string]float64, len(languages)),
	}
	for _, language := range languages {
		presence, err := store.WordPresence(ctx, language, words)
		if err != nil {
			return IdentifiedLanguage{}, err
		}
		identified.Candidates[language] = presence
		if presence > identified.WinnerProbability {
			identified.Winner = language
			identified.WinnerProbability = presence
		}
	}
	return identified, nil
}
