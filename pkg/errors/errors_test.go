package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected int
	}{
		{CategoryFile, 2},
		{CategoryInput, 3},
		{CategoryParse, 3},
		{CategoryConfiguration, 4},
		{CategoryInternal, 5},
		{CategoryStorage, 6},
		{ErrorCategory("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := New(tt.category, CodeUnexpectedError, "test")
			if got := err.GetExitCode(); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(CategoryInput, CodeInvalidBusinessDate, "bad date")
	if err.Error() != "bad date" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	err.WithSuggestion("use YYYYMMDD")
	if !strings.Contains(err.Error(), "suggestion: use YYYYMMDD") {
		t.Errorf("expected suggestion in message, got %q", err.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, CategoryStorage, CodeStorageUnavailable, "store down")

	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
	if err.Category != CategoryStorage || err.Code != CodeStorageUnavailable {
		t.Errorf("unexpected category/code: %s/%s", err.Category, err.Code)
	}

	if Wrap(nil, CategoryStorage, CodeStorageWrite, "nothing") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "missing").
		WithContext("file_path", "/tmp/feed").
		WithContext("side", "bank")

	if err.Context["file_path"] != "/tmp/feed" {
		t.Errorf("unexpected context: %v", err.Context)
	}
	if err.Context["side"] != "bank" {
		t.Errorf("unexpected context: %v", err.Context)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AgentError
		category ErrorCategory
		code     ErrorCode
	}{
		{
			"missing config",
			ConfigurationError(CodeMissingConfig, "MONGODB_URI", nil),
			CategoryConfiguration, CodeMissingConfig,
		},
		{
			"missing token key",
			ConfigurationError(CodeMissingTokenKey, "TOKEN_KEY", nil),
			CategoryConfiguration, CodeMissingTokenKey,
		},
		{
			"unsupported layout",
			ConfigurationError(CodeUnsupportedLayout, "ledger", nil),
			CategoryConfiguration, CodeUnsupportedLayout,
		},
		{
			"invalid business date",
			InputError(CodeInvalidBusinessDate, "business_date", "2025-11-07", nil),
			CategoryInput, CodeInvalidBusinessDate,
		},
		{
			"file not found",
			FileError(CodeFileNotFound, "/tmp/feed", fmt.Errorf("no such file")),
			CategoryFile, CodeFileNotFound,
		},
		{
			"storage write",
			StorageError(CodeStorageWrite, "bulk insert", fmt.Errorf("timeout")),
			CategoryStorage, CodeStorageWrite,
		},
		{
			"internal",
			InternalError(CodeUnexpectedError, "partition", nil),
			CategoryInternal, CodeUnexpectedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("category = %s, want %s", tt.err.Category, tt.category)
			}
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Suggestion == "" {
				t.Error("constructors must attach a suggestion")
			}
			if len(tt.err.Context) == 0 {
				t.Error("constructors must attach context")
			}
		})
	}
}

func TestAsAgentError(t *testing.T) {
	agent := New(CategoryStorage, CodeStorageRead, "read failed")

	if got, ok := AsAgentError(agent); !ok || got != agent {
		t.Error("expected direct AgentError extraction")
	}

	wrapped := fmt.Errorf("outer: %w", agent)
	if got, ok := AsAgentError(wrapped); !ok || got != agent {
		t.Error("expected extraction through error chain")
	}

	if _, ok := AsAgentError(fmt.Errorf("plain")); ok {
		t.Error("plain errors must not extract")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	agent := New(CategoryInput, CodeInvalidBusinessDate, "bad date")
	if got := WrapIfNeeded(agent, CategoryInternal, CodeUnexpectedError, "outer"); got != agent {
		t.Error("existing AgentError must pass through unchanged")
	}

	plain := fmt.Errorf("plain")
	got := WrapIfNeeded(plain, CategoryInternal, CodeUnexpectedError, "outer")
	if got.Category != CategoryInternal || got.Cause != plain {
		t.Errorf("unexpected wrap: %+v", got)
	}

	if WrapIfNeeded(nil, CategoryInternal, CodeUnexpectedError, "outer") != nil {
		t.Error("nil must stay nil")
	}
}

func TestErrorSummary(t *testing.T) {
	errs := []*AgentError{
		New(CategoryFile, CodeFileNotFound, "missing feed"),
		New(CategoryStorage, CodeStorageWrite, "write failed"),
		New(CategoryStorage, CodeStorageRead, "read failed"),
	}

	summary := NewErrorSummary(errs)
	if summary.Total != 3 {
		t.Errorf("expected total 3, got %d", summary.Total)
	}
	if summary.ByCategory[CategoryStorage] != 2 {
		t.Errorf("expected 2 storage errors, got %d", summary.ByCategory[CategoryStorage])
	}

	// Highest-priority exit code wins
	if summary.GetExitCode() != 6 {
		t.Errorf("expected exit code 6, got %d", summary.GetExitCode())
	}

	if !strings.Contains(summary.Error(), "3 errors occurred") {
		t.Errorf("unexpected summary message: %q", summary.Error())
	}

	empty := NewErrorSummary(nil)
	if empty.GetExitCode() != 0 {
		t.Errorf("expected exit code 0 for empty summary, got %d", empty.GetExitCode())
	}

	single := NewErrorSummary(errs[:1])
	if single.Error() != "missing feed" {
		t.Errorf("single-error summary should render the error itself, got %q", single.Error())
	}
}
