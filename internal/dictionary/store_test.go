package dictionary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dictionaries.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestCreateAndListDictionaries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, language := range []string{"english", "spanish", "french"} {
		if err := store.CreateDictionary(ctx, language); err != nil {
			t.Fatalf("create %s: %v", language, err)
		}
	}
	// Creating twice is not an error.
	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create english again: %v", err)
	}

	languages, err := store.Languages(ctx)
	if err != nil {
		t.Fatalf("list languages: %v", err)
	}
	if len(languages) != 3 {
		t.Fatalf("expected 3 languages, got %d", len(languages))
	}
	if languages[0] != "english" || languages[1] != "spanish" || languages[2] != "french" {
		t.Fatalf("unexpected language order: %v", languages)
	}

	exists, err := store.HasDictionary(ctx, "english")
	if err != nil {
		t.Fatalf("has dictionary: %v", err)
	}
	if !exists {
		t.Fatalf("expected english dictionary to exist")
	}
	exists, err = store.HasDictionary(ctx, "klingon")
	if err != nil {
		t.Fatalf("has dictionary: %v", err)
	}
	if exists {
		t.Fatalf("did not expect klingon dictionary")
	}
}

func TestRemoveDictionaryRemovesWords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AddWord(ctx, "english", "secret"); err != nil {
		t.Fatalf("add word: %v", err)
	}
	if err := store.RemoveDictionary(ctx, "english"); err != nil {
		t.Fatalf("remove dictionary: %v", err)
	}
	if _, err := store.WordExists(ctx, "english", "secret"); !errors.Is(err, ErrNotExistingLanguage) {
		t.Fatalf("expected ErrNotExistingLanguage, got %v", err)
	}
}

func TestMissingLanguageErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.AddWord(ctx, "klingon", "ghobe"); !errors.Is(err, ErrNotExistingLanguage) {
		t.Fatalf("expected ErrNotExistingLanguage, got %v", err)
	}
	if err := store.RemoveDictionary(ctx, "klingon"); !errors.Is(err, ErrNotExistingLanguage) {
		t.Fatalf("expected ErrNotExistingLanguage, got %v", err)
	}
}

func TestAddAndRemoveWords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AddWord(ctx, "english", "secret"); err != nil {
		t.Fatalf("add word: %v", err)
	}
	// Adding the same word twice keeps a single row.
	if err := store.AddWord(ctx, "english", "secret"); err != nil {
		t.Fatalf("add word again: %v", err)
	}
	count, err := store.WordCount(ctx, "english")
	if err != nil {
		t.Fatalf("word count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 word, got %d", count)
	}

	exists, err := store.WordExists(ctx, "english", "secret")
	if err != nil {
		t.Fatalf("word exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected word to exist")
	}

	if err := store.RemoveWord(ctx, "english", "secret"); err != nil {
		t.Fatalf("remove word: %v", err)
	}
	exists, err = store.WordExists(ctx, "english", "secret")
	if err != nil {
		t.Fatalf("word exists: %v", err)
	}
	if exists {
		t.Fatalf("did not expect word after removal")
	}
}

func TestWordsWithPattern(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create: %v", err)
	}
	words := map[string]struct{}{
		"letter": {},
		"better": {},
		"secret": {},
	}
	if err := store.AddWords(ctx, "english", words); err != nil {
		t.Fatalf("add words: %v", err)
	}

	matches, err := store.WordsWithPattern(ctx, "english", WordPattern("letter"))
	if err != nil {
		t.Fatalf("words with pattern: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
	found := map[string]bool{}
	for _, match := range matches {
		found[match] = true
	}
	if !found["letter"] || !found["better"] {
		t.Fatalf("unexpected matches: %v", matches)
	}
}

func TestWordPresence(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.AddWords(ctx, "english", ExtractWords("common sense is not so common")); err != nil {
		t.Fatalf("add words: %v", err)
	}

	presence, err := store.WordPresence(ctx, "english", ExtractWords("sense is rare"))
	if err != nil {
		t.Fatalf("word presence: %v", err)
	}
	want := 2.0 / 3.0
	if presence < want-0.0001 || presence > want+0.0001 {
		t.Fatalf("expected presence %.4f, got %.4f", want, presence)
	}

	presence, err = store.WordPresence(ctx, "english", nil)
	if err != nil {
		t.Fatalf("word presence with no words: %v", err)
	}
	if presence != 0 {
		t.Fatalf("expected 0 presence for empty word set, got %.4f", presence)
	}
}

func TestWordPresenceBeyondChunkSize(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Query with more words than fit in one IN clause chunk; every even
	// numbered word is stored, so exactly half of them hit.
	total := presenceChunkSize*2 + 100
	stored := make(map[string]struct{}, total/2)
	queried := make(map[string]struct{}, total)
	for i := 0; i < total; i++ {
		word := fmt.Sprintf("palabra%d", i)
		queried[word] = struct{}{}
		if i%2 == 0 {
			stored[word] = struct{}{}
		}
	}
	if err := store.AddWords(ctx, "english", stored); err != nil {
		t.Fatalf("add words: %v", err)
	}

	presence, err := store.WordPresence(ctx, "english", queried)
	if err != nil {
		t.Fatalf("word presence: %v", err)
	}
	want := float64(len(stored)) / float64(total)
	if presence < want-0.0001 || presence > want+0.0001 {
		t.Fatalf("expected presence %.4f, got %.4f", want, presence)
	}
}

func TestPopulateFromFile(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "book.txt")
	content := "This eBook is for the use of anyone anywhere, at no cost.\nThe use is free!"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := store.CreateDictionary(ctx, "english"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Populate(ctx, "english", path); err != nil {
		t.Fatalf("populate: %v", err)
	}

	for _, word := range []string{"this", "ebook", "anywhere", "free"} {
		exists, err := store.WordExists(ctx, "english", word)
		if err != nil {
			t.Fatalf("word exists %q: %v", word, err)
		}
		if !exists {
			t.Fatalf("expected %q in dictionary", word)
		}
	}
	// "use" appears twice in the file but is stored once.
	count, err := store.WordCount(ctx, "english")
	if err != nil {
		t.Fatalf("word count: %v", err)
	}
	if count != 13 {
		t.Fatalf("expected 13 distinct words, got %d", count)
	}
}
