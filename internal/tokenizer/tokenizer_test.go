package tokenizer

import (
	"strings"
	"testing"
)

func TestNewRequiresKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid key", "secret", false},
		{"empty key", "", true},
		{"whitespace key", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := New(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for missing key, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tok == nil {
				t.Fatal("expected tokenizer, got nil")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{" rf123 ", "RF123"},
		{"RF123", "RF123"},
		{"rf94907738", "RF94907738"},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTokenDeterminism(t *testing.T) {
	tok, err := New("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	code := "RF94907738000300007643365"
	first := tok.Token(code)
	second := tok.Token(code)

	if first != second {
		t.Errorf("token not deterministic: %q vs %q", first, second)
	}
}

func TestTokenNormalizationEquivalence(t *testing.T) {
	tok, err := New("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tok.Token(" rf123 ") != tok.Token("RF123") {
		t.Error("expected case/whitespace variants of a code to yield the same token")
	}
}

func TestTokenShape(t *testing.T) {
	tok, err := New("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token := tok.Token("RF123")

	// SHA-256 digest renders as 64 hex characters
	if len(token) != 64 {
		t.Errorf("expected 64-character token, got %d", len(token))
	}
	if strings.Trim(token, "0123456789abcdef") != "" {
		t.Errorf("expected lowercase hex token, got %q", token)
	}
}

func TestTokenDistinctness(t *testing.T) {
	tok, err := New("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tok.Token("RF123") == tok.Token("RF124") {
		t.Error("different codes must not collide")
	}

	other, err := New("other-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tok.Token("RF123") == other.Token("RF123") {
		t.Error("different keys must yield different tokens for the same code")
	}
}

func TestTokenEmptyCode(t *testing.T) {
	tok, err := New("secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Empty and blank references still tokenize; they simply all map to
	// the same token under one key.
	if tok.Token("") != tok.Token("   ") {
		t.Error("blank references should normalize to the same token")
	}
	if len(tok.Token("")) != 64 {
		t.Error("empty code should still produce a full-length token")
	}
}
