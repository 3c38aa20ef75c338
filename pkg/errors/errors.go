// Package errors defines the categorized error type shared by every component
// of the reconciliation agent.
//
// Errors carry a category (which maps to a process exit code), a machine
// readable code, an operator-facing suggestion, and arbitrary context values.
// The CLI layer renders these into diagnostics; library code only constructs
// and wraps them.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory groups errors by the kind of failure they represent
type ErrorCategory string

const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInput         ErrorCategory = "input"
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryStorage       ErrorCategory = "storage"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode identifies a specific failure within a category
type ErrorCode string

const (
	// Configuration errors
	CodeMissingConfig     ErrorCode = "missing_config"
	CodeInvalidConfig     ErrorCode = "invalid_config"
	CodeMissingTokenKey   ErrorCode = "missing_token_key"
	CodeUnsupportedLayout ErrorCode = "unsupported_layout"

	// Input errors
	CodeInvalidBusinessDate ErrorCode = "invalid_business_date"

	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileRead       ErrorCode = "file_read"

	// Parse errors
	CodeInvalidLine ErrorCode = "invalid_line"

	// Storage errors
	CodeStorageUnavailable ErrorCode = "storage_unavailable"
	CodeStorageWrite       ErrorCode = "storage_write"
	CodeStorageRead        ErrorCode = "storage_read"
	CodeIndexCreation      ErrorCode = "index_creation"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// AgentError is the base error type for all application errors
type AgentError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *AgentError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AgentError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *AgentError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryInput, CategoryParse:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryInternal:
		return 5
	case CategoryStorage:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *AgentError) WithContext(key string, value interface{}) *AgentError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *AgentError) WithSuggestion(suggestion string) *AgentError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AgentError
func New(category ErrorCategory, code ErrorCode, message string) *AgentError {
	return &AgentError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with AgentError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *AgentError {
	if err == nil {
		return nil
	}

	return &AgentError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, err error) *AgentError {
	var message string
	var suggestion string

	switch code {
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "set the environment variable or pass the flag before running"
	case CodeMissingTokenKey:
		message = "tokenization key is not configured"
		suggestion = "set TOKEN_KEY to a non-empty secret before running"
	case CodeUnsupportedLayout:
		message = fmt.Sprintf("unsupported feed layout: %s", setting)
		suggestion = "valid sides are 'scheme' and 'bank'"
	default:
		message = fmt.Sprintf("invalid configuration for '%s'", setting)
		suggestion = "check the configuration documentation for valid values"
	}

	var result *AgentError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting)
}

// InputError creates a user-input error
func InputError(code ErrorCode, field string, value string, err error) *AgentError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidBusinessDate:
		message = fmt.Sprintf("invalid business date '%s'", value)
		suggestion = "use an 8-digit calendar date in YYYYMMDD form, e.g. 20251107"
	default:
		message = fmt.Sprintf("invalid input in field '%s': %s", field, value)
		suggestion = "check the value and try again"
	}

	var result *AgentError
	if err != nil {
		result = Wrap(err, CategoryInput, code, message)
	} else {
		result = New(CategoryInput, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *AgentError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileRead:
		message = fmt.Sprintf("failed reading file: %s", path)
		suggestion = "verify the file is a readable text feed"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *AgentError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// StorageError creates a document-store error
func StorageError(code ErrorCode, operation string, err error) *AgentError {
	var message string
	var suggestion string

	switch code {
	case CodeStorageUnavailable:
		message = fmt.Sprintf("document store unavailable during %s", operation)
		suggestion = "check MONGODB_URI and that the database is reachable"
	case CodeStorageWrite:
		message = fmt.Sprintf("write to document store failed during %s", operation)
		suggestion = "already committed batches remain durable; re-run the operation"
	case CodeStorageRead:
		message = fmt.Sprintf("read from document store failed during %s", operation)
		suggestion = "check connectivity and retry the run"
	case CodeIndexCreation:
		message = fmt.Sprintf("index creation failed during %s", operation)
		suggestion = "verify the database user has index privileges"
	default:
		message = fmt.Sprintf("storage error during %s", operation)
		suggestion = "check the document store and try again"
	}

	var result *AgentError
	if err != nil {
		result = Wrap(err, CategoryStorage, code, message)
	} else {
		result = New(CategoryStorage, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *AgentError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *AgentError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total      int                   `json:"total"`
	ByCategory map[ErrorCategory]int `json:"by_category"`
	ByCode     map[ErrorCode]int     `json:"by_code"`
	Errors     []*AgentError         `json:"errors"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errs []*AgentError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// Utility functions

// IsAgentError checks if an error is an AgentError
func IsAgentError(err error) bool {
	_, ok := err.(*AgentError)
	return ok
}

// AsAgentError extracts an AgentError from an error chain
func AsAgentError(err error) (*AgentError, bool) {
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		return agentErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already an AgentError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *AgentError {
	if err == nil {
		return nil
	}

	if agentErr, ok := AsAgentError(err); ok {
		return agentErr
	}

	return Wrap(err, category, code, message)
}
