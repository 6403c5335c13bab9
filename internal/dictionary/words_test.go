package dictionary

import "testing"

func TestWordPattern(t *testing.T) {
	cases := []struct {
		word, want string
	}{
		{"HGHHU", "0.1.0.0.2"},
		{"letter", "0.1.2.2.1.3"},
		{"better", "0.1.2.2.1.3"},
		{"a", "0"},
		{"", ""},
	}
	for _, c := range cases {
		if got := WordPattern(c.word); got != c.want {
			t.Fatalf("WordPattern(%q) = %q, want %q", c.word, got, c.want)
		}
	}
}

func TestWordPatternIgnoresCase(t *testing.T) {
	if WordPattern("Letter") != WordPattern("letter") {
		t.Fatalf("expected case insensitive patterns")
	}
}

func TestExtractWords(t *testing.T) {
	words := ExtractWords("This is, this IS... my secret message!42 my-secret")
	want := []string{"this", "is", "my", "secret", "message"}
	if len(words) != len(want) {
		t.Fatalf("expected %d words, got %v", len(want), words)
	}
	for _, word := range want {
		if _, ok := words[word]; !ok {
			t.Fatalf("expected word %q in %v", word, words)
		}
	}
}

func TestExtractWordsSplitsApostrophes(t *testing.T) {
	words := ExtractWords("don't")
	if _, ok := words["don"]; !ok {
		t.Fatalf("expected \"don\" in %v", words)
	}
	if _, ok := words["t"]; !ok {
		t.Fatalf("expected \"t\" in %v", words)
	}
}
