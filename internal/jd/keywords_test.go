package jd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/talentops/cv-screener/internal/extract"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) GenerateContent(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testLexicon(t *testing.T, skills ...string) *extract.Lexicon {
	t.Helper()

	lex := &extract.Lexicon{Skills: skills}
	if err := lex.Compile(); err != nil {
		t.Fatalf("compiling lexicon: %v", err)
	}
	return lex
}

func TestLoadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	if err := os.WriteFile(path, []byte("We need a Python developer."), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	text, err := LoadText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "We need a Python developer." {
		t.Fatalf("unexpected text: %q", text)
	}

	if _, err := LoadText(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExtractKeywordsLexiconOnly(t *testing.T) {
	lex := testLexicon(t, "Python", "SQL", "Kubernetes")

	keywords := ExtractKeywords(context.Background(), "Looking for a Python and SQL expert.", lex, nil, nil)

	want := []string{"python", "sql"}
	if !reflect.DeepEqual(keywords, want) {
		t.Fatalf("expected %v, got %v", want, keywords)
	}
}

func TestExtractKeywordsDropsStopwords(t *testing.T) {
	lex := testLexicon(t, "Python", "Cloud")

	keywords := ExtractKeywords(context.Background(), "Python in the cloud.", lex, nil, nil)

	want := []string{"python"}
	if !reflect.DeepEqual(keywords, want) {
		t.Fatalf("expected stopword dropped, got %v", keywords)
	}
}

func TestExtractKeywordsCustomStopwords(t *testing.T) {
	lex := testLexicon(t, "Python", "Cloud")
	cfg := &ExtractorConfig{Stopwords: []string{"python"}}

	keywords := ExtractKeywords(context.Background(), "Python in the cloud.", lex, cfg, nil)

	want := []string{"cloud"}
	if !reflect.DeepEqual(keywords, want) {
		t.Fatalf("expected custom stopwords to replace defaults, got %v", keywords)
	}
}

func TestExtractKeywordsMergesAIKeyphrases(t *testing.T) {
	lex := testLexicon(t, "Python")
	stub := &stubGenerator{response: `["distributed systems", "Python", "team"]`}
	cfg := &ExtractorConfig{Generator: stub}

	keywords := ExtractKeywords(context.Background(), "Python role.", lex, cfg, nil)

	want := []string{"distributed systems", "python"}
	if !reflect.DeepEqual(keywords, want) {
		t.Fatalf("expected %v, got %v", want, keywords)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one generator call, got %d", stub.calls)
	}
}

func TestExtractKeywordsGeneratorFailureFallsBack(t *testing.T) {
	lex := testLexicon(t, "Python")
	cfg := &ExtractorConfig{Generator: &stubGenerator{err: errors.New("quota exceeded")}}

	keywords := ExtractKeywords(context.Background(), "Python role.", lex, cfg, nil)

	want := []string{"python"}
	if !reflect.DeepEqual(keywords, want) {
		t.Fatalf("expected lexicon fallback, got %v", keywords)
	}
}

func TestExtractKeywordsEmptyText(t *testing.T) {
	lex := testLexicon(t, "Python")

	if keywords := ExtractKeywords(context.Background(), "   \n", lex, nil, nil); keywords != nil {
		t.Fatalf("expected nil for empty text, got %v", keywords)
	}
}

func TestCanonicalize(t *testing.T) {
	got := Canonicalize([]string{" SQL ", "python", "SQL", "", "team"}, []string{"Team"})

	want := []string{"python", "sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
