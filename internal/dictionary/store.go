// Package dictionary handles the SQLite-backed word dictionaries used to
// recognize languages during attacks.
//
// A dictionary is a repository of distinct words present in an actual
// language. Every word is stored along its pattern so substitution attacks
// can look up anagram-class candidates by shape.
package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotExistingLanguage reports an operation over a language that has no
// dictionary in the database.
var ErrNotExistingLanguage = errors.New("language does not exist in database")

// Store wraps SQLite access to language dictionaries. Its read path is safe
// for concurrent use by attack workers.
type Store struct {
	db *sql.DB
}

// Open opens or creates the dictionaries database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS languages (
			id INTEGER PRIMARY KEY,
			language TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY,
			word TEXT NOT NULL,
			word_pattern TEXT NOT NULL,
			language_id INTEGER NOT NULL REFERENCES languages(id) ON DELETE CASCADE,
			UNIQUE (language_id, word)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_words_pattern ON words(language_id, word_pattern);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// languageID resolves a language name to its row id.
func (s *Store) languageID(ctx context.Context, language string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM languages WHERE language = ?`, language).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrNotExistingLanguage, language)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Languages returns the names of every dictionary present in the database,
// in creation order.
func (s *Store) Languages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT language FROM languages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var languages []string
	for rows.Next() {
		var language string
		if err := rows.Scan(&language); err != nil {
			return nil, err
		}
		languages = append(languages, language)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return languages, nil
}

// HasDictionary reports whether a dictionary exists for the given language.
func (s *Store) HasDictionary(ctx context.Context, language string) (bool, error) {
	_, err := s.languageID(ctx, language)
	if errors.Is(err, ErrNotExistingLanguage) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateDictionary registers a new language. Creating an already existing
// language does nothing.
func (s *Store) CreateDictionary(ctx context.Context, language string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO languages (language) VALUES (?)`, language); err != nil {
		return fmt.Errorf("failed to create dictionary %s: %w", language, err)
	}
	return nil
}

// RemoveDictionary removes a language from the database. Be aware that all
// its words are removed too.
func (s *Store) RemoveDictionary(ctx context.Context, language string) error {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE language_id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove words of %s: %w", language, err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM languages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove dictionary %s: %w", language, err)
	}
	return nil
}

// AddWord adds a word to a language dictionary. Already present words are
// left alone.
func (s *Store) AddWord(ctx context.Context, language, word string) error {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO words (word, word_pattern, language_id) VALUES (?, ?, ?)`,
		word, WordPattern(word), id); err != nil {
		return fmt.Errorf("failed to add word %q to %s: %w", word, language, err)
	}
	return nil
}

// AddWords adds a set of words to a language dictionary in one transaction.
func (s *Store) AddWords(ctx context.Context, language string, words map[string]struct{}) error {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO words (word, word_pattern, language_id) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for word := range words {
		if _, err = stmt.ExecContext(ctx, word, WordPattern(word), id); err != nil {
			return fmt.Errorf("failed to add word %q to %s: %w", word, language, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// RemoveWord removes a word from a language dictionary. Removing an absent
// word does nothing.
func (s *Store) RemoveWord(ctx context.Context, language, word string) error {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM words WHERE language_id = ? AND word = ?`, id, word); err != nil {
		return fmt.Errorf("failed to remove word %q from %s: %w", word, language, err)
	}
	return nil
}

// WordExists reports whether a word is present in a language dictionary.
func (s *Store) WordExists(ctx context.Context, language, word string) (bool, error) {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return false, err
	}
	var count int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words WHERE language_id = ? AND word = ?`, id, word).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// WordsWithPattern returns every word of a language sharing the given
// pattern.
func (s *Store) WordsWithPattern(ctx context.Context, language, pattern string) ([]string, error) {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT word FROM words WHERE language_id = ? AND word_pattern = ?`, id, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pattern %q in %s: %w", pattern, language, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// presenceChunkSize keeps IN queries well below SQLite's host parameter
// limit, whatever the attacked text throws at us.
const presenceChunkSize = 500

// WordPresence returns how many words of the given set are present in a
// language dictionary, as a ratio from 0 to 1.
func (s *Store) WordPresence(ctx context.Context, language string, words map[string]struct{}) (float64, error) {
	if len(words) == 0 {
		return 0, nil
	}
	id, err := s.languageID(ctx, language)
	if err != nil {
		return 0, err
	}
	pending := make([]string, 0, len(words))
	for word := range words {
		pending = append(pending, word)
	}
	var hits int64
	for len(pending) > 0 {
		chunk := pending
		if len(chunk) > presenceChunkSize {
			chunk = chunk[:presenceChunkSize]
		}
		pending = pending[len(chunk):]

		placeholders := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)+1)
		args = append(args, id)
		for _, word := range chunk {
			placeholders = append(placeholders, "?")
			args = append(args, word)
		}
		query := fmt.Sprintf(
			`SELECT COUNT(DISTINCT word) FROM words WHERE language_id = ? AND word IN (%s)`,
			strings.Join(placeholders, ","))
		var chunkHits int64
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&chunkHits); err != nil {
			return 0, err
		}
		hits += chunkHits
	}
	return float64(hits) / float64(len(words)), nil
}

// WordCount returns how many words a language dictionary holds.
func (s *Store) WordCount(ctx context.Context, language string) (int64, error) {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words WHERE language_id = ?`, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// LanguageWords returns every word stored for a language. Frequency attacks
// use it to build a reference letter histogram for the language.
func (s *Store) LanguageWords(ctx context.Context, language string) ([]string, error) {
	id, err := s.languageID(ctx, language)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT word FROM words WHERE language_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// Populate reads a text file and stores its distinct normalized words in a
// language dictionary.
func (s *Store) Populate(ctx context.Context, language, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read words file %s: %w", path, err)
	}
	return s.AddWords(ctx, language, ExtractWords(string(content)))
}
