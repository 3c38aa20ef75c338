// Package tokenizer turns sensitive payment reference codes into stable,
// non-reversible tokens so that raw references never need to be stored in
// indexed lookup paths.
//
// The token is a keyed HMAC-SHA256 digest over the normalized code: same
// code and same key always produce the same token, which is what makes
// cross-collection matching on tokens possible.
package tokenizer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang-recon-agent/pkg/errors"
)

// Tokenizer produces deterministic keyed tokens for reference codes
type Tokenizer struct {
	key []byte
}

// New creates a Tokenizer with the given secret key. An empty key is a
// configuration error: the process must not start without keying material.
func New(key string) (*Tokenizer, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.ConfigurationError(errors.CodeMissingTokenKey, "TOKEN_KEY", nil)
	}

	return &Tokenizer{key: []byte(key)}, nil
}

// Normalize trims surrounding whitespace and upper-cases a reference code.
// Two raw codes that normalize equally always tokenize equally.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Token returns the hex HMAC-SHA256 digest of the normalized code
func (t *Tokenizer) Token(code string) string {
	mac := hmac.New(sha256.New, t.key)
	mac.Write([]byte(Normalize(code)))
	return hex.EncodeToString(mac.Sum(nil))
}
