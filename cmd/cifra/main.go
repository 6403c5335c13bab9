// Package main provides the CLI entrypoint for cifra.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cifra-cli/cifra/internal/attack"
	"github.com/cifra-cli/cifra/internal/cipher"
	"github.com/cifra-cli/cifra/internal/config"
	"github.com/cifra-cli/cifra/internal/dictionary"
)

var (
	databasePath string

	createWordsFile string

	cipherCharset string
	cipherOutFile string

	decipherCharset string
	decipherOutFile string

	attackCharset      string
	attackOutFile      string
	attackRecoveredKey bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cifra",
		Short:         "Classical cipher cryptanalysis toolkit",
		Long:          "Cipher, decipher and attack texts ciphered with classical methods: caesar, affine, transposition, vigenere and substitution.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&databasePath, "database", "", "dictionaries database path (default: XDG data dir)")

	rootCmd.AddCommand(newDictionaryCmd())
	rootCmd.AddCommand(newCipherCmd())
	rootCmd.AddCommand(newDecipherCmd())
	rootCmd.AddCommand(newAttackCmd())

	return rootCmd
}

// algorithm is the closed set of supported cipher methods. Every variant
// knows how to cipher, decipher and attack, and carries its own key syntax
// and default charset.
type algorithm interface {
	name() string
	defaultCharset() string
	cipher(text, key, charset string) (string, error)
	decipher(text, key, charset string) (string, error)
	attack(ctx context.Context, store *dictionary.Store, text, charset string) (attack.WordResult, error)
}

func algorithmByName(name string) (algorithm, error) {
	switch strings.ToLower(name) {
	case "caesar":
		return caesarAlgorithm{}, nil
	case "affine":
		return affineAlgorithm{}, nil
	case "transposition":
		return transpositionAlgorithm{}, nil
	case "vigenere":
		return vigenereAlgorithm{}, nil
	case "substitution":
		return substitutionAlgorithm{}, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q (supported: caesar, affine, transposition, vigenere, substitution)", name)
}

func integerKey(key string) (int, error) {
	parsed, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("key %q is not an integer: %w", key, err)
	}
	return parsed, nil
}

type caesarAlgorithm struct{}

func (caesarAlgorithm) name() string           { return "caesar" }
func (caesarAlgorithm) defaultCharset() string { return cipher.DefaultCharset }

func (caesarAlgorithm) cipher(text, key, charset string) (string, error) {
	parsed, err := integerKey(key)
	if err != nil {
		return "", err
	}
	return cipher.Caesar{}.Cipher(text, parsed, charset)
}

func (caesarAlgorithm) decipher(text, key, charset string) (string, error) {
	parsed, err := integerKey(key)
	if err != nil {
		return "", err
	}
	return cipher.Caesar{}.Decipher(text, parsed, charset)
}

func (caesarAlgorithm) attack(ctx context.Context, store *dictionary.Store, text, charset string) (attack.WordResult, error) {
	result, err := attack.HackCaesarParallel(ctx, store, text, charset)
	return integerResult(result), err
}

type affineAlgorithm struct{}

func (affineAlgorithm) name() string           { return "affine" }
func (affineAlgorithm) defaultCharset() string { return cipher.DefaultCharset }

func (affineAlgorithm) cipher(text, key, charset string) (string, error) {
	parsed, err := integerKey(key)
	if err != nil {
		return "", err
	}
	return cipher.Affine{}.Cipher(text, parsed, charset)
}

func (affineAlgorithm) decipher(text, key, charset string) (string, error) {
	parsed, err := integerKey(key)
	if err != nil {
		return "", err
	}
	return cipher.Affine{}.Decipher(text, parsed, charset)
}

func (affineAlgorithm) attack(ctx context.Context, store *dictionary.Store, text, charset string) (attack.WordResult, error) {
	result, err := attack.HackAffineParallel(ctx, store, text, charset)
	return integerResult(result), err
}

type transpositionAlgorithm struct{}

func (transpositionAlgorithm) name() string { return "transposition" }

// Transposition reorders characters instead of substituting them, so no
// charset is involved.
func (transpositionAlgorithm) defaultCharset() string { return "" }

func (transpositionAlgorithm) cipher(text, key, _ string) (string, error) {
	parsed, err := integerKey(key)
	if err != nil {
		return "", err
	}
	return cipher.Transposition{}.Cipher(text, parsed)
}

func (transpositionAlgorithm) decipher(text, key, _ string) (string, error) {
	parsed, err := integerKey(key)
	if err != nil {
		return "", err
	}
	return cipher.Transposition{}.Decipher(text, parsed)
}

func (transpositionAlgorithm) attack(ctx context.Context, store *dictionary.Store, text, _ string) (attack.WordResult, error) {
	result, err := attack.HackTranspositionParallel(ctx, store, text)
	return integerResult(result), err
}

type vigenereAlgorithm struct{}

func (vigenereAlgorithm) name() string           { return "vigenere" }
func (vigenereAlgorithm) defaultCharset() string { return cipher.DefaultKeyCharset }

func (vigenereAlgorithm) cipher(text, key, charset string) (string, error) {
	return cipher.Vigenere{}.Cipher(text, key, charset)
}

func (vigenereAlgorithm) decipher(text, key, charset string) (string, error) {
	return cipher.Vigenere{}.Decipher(text, key, charset)
}

func (vigenereAlgorithm) attack(ctx context.Context, store *dictionary.Store, text, charset string) (attack.WordResult, error) {
	return attack.HackVigenereParallel(ctx, store, text, charset)
}

type substitutionAlgorithm struct{}

func (substitutionAlgorithm) name() string           { return "substitution" }
func (substitutionAlgorithm) defaultCharset() string { return cipher.DefaultKeyCharset }

func (substitutionAlgorithm) cipher(text, key, charset string) (string, error) {
	return cipher.Substitution{}.Cipher(text, key, charset)
}

func (substitutionAlgorithm) decipher(text, key, charset string) (string, error) {
	return cipher.Substitution{}.Decipher(text, key, charset)
}

func (substitutionAlgorithm) attack(ctx context.Context, store *dictionary.Store, text, charset string) (attack.WordResult, error) {
	return attack.HackSubstitutionParallel(ctx, store, text, charset)
}

// integerResult adapts an integer keyed attack result to the word keyed
// shape the CLI reports.
func integerResult(result attack.Result) attack.WordResult {
	return attack.WordResult{
		Key:           strconv.Itoa(result.Key),
		RecoveredText: result.RecoveredText,
		Language:      result.Language,
	}
}

func newDictionaryCmd() *cobra.Command {
	dictionaryCmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage language dictionaries",
	}

	createCmd := &cobra.Command{
		Use:   "create <language>",
		Short: "Create a language dictionary",
		Args:  cobra.ExactArgs(1),
		RunE:  runDictionaryCreateCmd,
	}
	createCmd.Flags().StringVar(&createWordsFile, "initial-words-file", "", "text file to populate the dictionary from")

	deleteCmd := &cobra.Command{
		Use:   "delete <language>",
		Short: "Delete a language dictionary and all its words",
		Args:  cobra.ExactArgs(1),
		RunE:  runDictionaryDeleteCmd,
	}

	updateCmd := &cobra.Command{
		Use:   "update <language> <words-file>",
		Short: "Add the words of a text file to a language dictionary",
		Args:  cobra.ExactArgs(2),
		RunE:  runDictionaryUpdateCmd,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored language dictionaries",
		Args:  cobra.NoArgs,
		RunE:  runDictionaryListCmd,
	}

	dictionaryCmd.AddCommand(createCmd)
	dictionaryCmd.AddCommand(deleteCmd)
	dictionaryCmd.AddCommand(updateCmd)
	dictionaryCmd.AddCommand(listCmd)

	return dictionaryCmd
}

func runDictionaryCreateCmd(_ *cobra.Command, args []string) error {
	language := args[0]
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	ctx := context.Background()
	if err := store.CreateDictionary(ctx, language); err != nil {
		return err
	}
	if createWordsFile != "" {
		if err := store.Populate(ctx, language, createWordsFile); err != nil {
			return err
		}
	}
	return nil
}

func runDictionaryDeleteCmd(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	return store.RemoveDictionary(context.Background(), args[0])
}

func runDictionaryUpdateCmd(_ *cobra.Command, args []string) error {
	language := args[0]
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	ctx := context.Background()
	exists, err := store.HasDictionary(ctx, language)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no dictionary for language %q; create it with: cifra dictionary create %s", language, language)
	}
	return store.Populate(ctx, language, args[1])
}

func runDictionaryListCmd(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	ctx := context.Background()
	languages, err := store.Languages(ctx)
	if err != nil {
		return err
	}
	if len(languages) == 0 {
		logErrln("No dictionaries yet. Create one with: cifra dictionary create <language>")
		return nil
	}

	counts := make(map[string]int64, len(languages))
	for _, language := range languages {
		count, err := store.WordCount(ctx, language)
		if err != nil {
			return err
		}
		counts[language] = count
	}
	sort.Strings(languages)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, language := range languages {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", language, counts[language]); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("LANGUAGE", "WORDS")
	for _, language := range languages {
		t.Row(language, strconv.FormatInt(counts[language], 10))
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), t); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCipherCmd() *cobra.Command {
	cipherCmd := &cobra.Command{
		Use:   "cipher <algorithm> <key> <file>",
		Short: "Cipher a text file",
		Args:  cobra.ExactArgs(3),
		RunE:  runCipherCmd,
	}
	cipherCmd.Flags().StringVar(&cipherCharset, "charset", "", "charset to cipher over (default: per algorithm)")
	cipherCmd.Flags().StringVar(&cipherOutFile, "ciphered-file", "", "write the ciphered text to this file instead of stdout")
	return cipherCmd
}

func runCipherCmd(cmd *cobra.Command, args []string) error {
	method, err := algorithmByName(args[0])
	if err != nil {
		return err
	}
	charset, err := resolveCharset(method, cipherCharset)
	if err != nil {
		return err
	}
	text, err := readTextFile(args[2])
	if err != nil {
		return err
	}
	ciphered, err := method.cipher(text, args[1], charset)
	if err != nil {
		return fmt.Errorf("failed to cipher with %s: %w", method.name(), err)
	}
	return writeResult(cmd, cipherOutFile, ciphered)
}

func newDecipherCmd() *cobra.Command {
	decipherCmd := &cobra.Command{
		Use:   "decipher <algorithm> <key> <file>",
		Short: "Decipher a text file",
		Args:  cobra.ExactArgs(3),
		RunE:  runDecipherCmd,
	}
	decipherCmd.Flags().StringVar(&decipherCharset, "charset", "", "charset the text was ciphered over (default: per algorithm)")
	decipherCmd.Flags().StringVar(&decipherOutFile, "deciphered-file", "", "write the deciphered text to this file instead of stdout")
	return decipherCmd
}

func runDecipherCmd(cmd *cobra.Command, args []string) error {
	method, err := algorithmByName(args[0])
	if err != nil {
		return err
	}
	charset, err := resolveCharset(method, decipherCharset)
	if err != nil {
		return err
	}
	text, err := readTextFile(args[2])
	if err != nil {
		return err
	}
	deciphered, err := method.decipher(text, args[1], charset)
	if err != nil {
		return fmt.Errorf("failed to decipher with %s: %w", method.name(), err)
	}
	return writeResult(cmd, decipherOutFile, deciphered)
}

func newAttackCmd() *cobra.Command {
	attackCmd := &cobra.Command{
		Use:   "attack <algorithm> <file>",
		Short: "Attack a ciphered text file to recover its key",
		Args:  cobra.ExactArgs(2),
		RunE:  runAttackCmd,
	}
	attackCmd.Flags().StringVar(&attackCharset, "charset", "", "charset the text was ciphered over (default: per algorithm)")
	attackCmd.Flags().StringVar(&attackOutFile, "deciphered-file", "", "write the recovered text to this file instead of stdout")
	attackCmd.Flags().BoolVar(&attackRecoveredKey, "output-recovered-key", false, "emit a JSON object with the guessed key and the recovered text")
	return attackCmd
}

// recoveredEnvelope is the JSON shape emitted with --output-recovered-key.
type recoveredEnvelope struct {
	GuessedKey    string `json:"guessed_key"`
	RecoveredText string `json:"recovered_text"`
}

func runAttackCmd(cmd *cobra.Command, args []string) error {
	method, err := algorithmByName(args[0])
	if err != nil {
		return err
	}
	charset, err := resolveCharset(method, attackCharset)
	if err != nil {
		return err
	}
	text, err := readTextFile(args[1])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(store)

	result, err := method.attack(context.Background(), store, text, charset)
	if err != nil {
		return fmt.Errorf("%s attack failed: %w", method.name(), err)
	}
	if !result.Language.Identified() {
		logErrln("No key found: the text didn't match any stored language.")
		logErrln("Load dictionaries with: cifra dictionary create <language> --initial-words-file <file>")
		return nil
	}

	logErrf("Guessed key: %s (%s, probability %.2f)\n",
		result.Key, result.Language.Winner, result.Language.WinnerProbability)
	if attackRecoveredKey {
		encoded, err := json.Marshal(recoveredEnvelope{
			GuessedKey:    result.Key,
			RecoveredText: result.RecoveredText,
		})
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return writeResult(cmd, attackOutFile, string(encoded))
	}
	return writeResult(cmd, attackOutFile, result.RecoveredText)
}

func resolveCharset(method algorithm, flagValue string) (string, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if flagValue != "" {
		return flagValue, nil
	}
	switch method.(type) {
	case vigenereAlgorithm, substitutionAlgorithm:
		if fileCfg.Cipher.KeyCharset != nil {
			return *fileCfg.Cipher.KeyCharset, nil
		}
	case transpositionAlgorithm:
		return "", nil
	default:
		if fileCfg.Cipher.Charset != nil {
			return *fileCfg.Cipher.Charset, nil
		}
	}
	return method.defaultCharset(), nil
}

func resolveDatabasePath() (string, error) {
	if databasePath != "" {
		return databasePath, nil
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if fileCfg.Cipher.Database != nil {
		return *fileCfg.Cipher.Database, nil
	}
	return config.DefaultDBPath(), nil
}

func openStore() (*dictionary.Store, error) {
	path, err := resolveDatabasePath()
	if err != nil {
		return nil, err
	}
	store, err := dictionary.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionaries database: %w", err)
	}
	return store, nil
}

func closeStore(store *dictionary.Store) {
	if err := store.Close(); err != nil {
		logErrf("failed to close dictionaries database: %v\n", err)
	}
}

func readTextFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

func writeResult(cmd *cobra.Command, path, text string) error {
	if path == "" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
