package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadInlineValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: " token-123 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "token-123" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFileTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("file-token\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	secret, err := Load(Source{Name: "api key", Value: "inline-token", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "file-token" {
		t.Fatalf("expected file to win over inline value, got %q", secret)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("CV_SCREENER_TEST_KEY", " env-token ")

	secret, err := Load(Source{Name: "api key", Env: "CV_SCREENER_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "env-token" {
		t.Fatalf("expected env fallback, got %q", secret)
	}
}

func TestLoadInlineWinsOverEnv(t *testing.T) {
	t.Setenv("CV_SCREENER_TEST_KEY", "env-token")

	secret, err := Load(Source{Value: "inline-token", Env: "CV_SCREENER_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "inline-token" {
		t.Fatalf("expected inline value to win, got %q", secret)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "api key") {
		t.Fatalf("expected secret name in error, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(Source{File: path}); err == nil {
		t.Fatalf("expected error for empty secret file")
	}
}

func TestLoadNotConfigured(t *testing.T) {
	_, err := Load(Source{Name: "api key"})
	if err == nil {
		t.Fatalf("expected error for unconfigured secret")
	}
	if !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("unexpected error: %v", err)
	}
}
