// Package errors provides typed errors for figstyle.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrConfigNotFound     ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid      ErrorCode = "CONFIG_INVALID"
	ErrFigmaAuthFailed    ErrorCode = "FIGMA_AUTH_FAILED"
	ErrFigmaFetchFailed   ErrorCode = "FIGMA_FETCH_FAILED"
	ErrInvalidFileURL     ErrorCode = "INVALID_FILE_URL"
	ErrProviderAuthFailed ErrorCode = "PROVIDER_AUTH_FAILED"
	ErrProviderFailed     ErrorCode = "PROVIDER_FAILED"
	ErrGenerationFailed   ErrorCode = "GENERATION_FAILED"
	ErrUnsupportedFormat  ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCacheNotFound      ErrorCode = "CACHE_NOT_FOUND"
	ErrPublishFailed      ErrorCode = "PUBLISH_FAILED"
)

// FigstyleError represents a typed error with user-friendly hints.
type FigstyleError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *FigstyleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FigstyleError) Unwrap() error {
	return e.Cause
}

// New creates a new FigstyleError.
func New(code ErrorCode, message, hint string) *FigstyleError {
	return &FigstyleError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new FigstyleError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *FigstyleError {
	return &FigstyleError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// HasCode reports whether err's chain contains a FigstyleError with code.
func HasCode(err error, code ErrorCode) bool {
	var fe *FigstyleError
	for err != nil {
		if !stderrors.As(err, &fe) {
			return false
		}
		if fe.Code == code {
			return true
		}
		err = fe.Cause
	}
	return false
}

// ConfigNotFound returns an error for missing config file.
func ConfigNotFound(path string) *FigstyleError {
	return &FigstyleError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("config file not found: %s", path),
		Hint:    "Run `figstyle init` to create a configuration",
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *FigstyleError {
	return &FigstyleError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check your config file at ~/.config/figstyle/config.yaml",
	}
}

// FigmaAuthFailed returns an error for a missing or rejected Figma token.
func FigmaAuthFailed(cause error) *FigstyleError {
	return &FigstyleError{
		Code:    ErrFigmaAuthFailed,
		Message: "Figma authentication failed",
		Hint:    "Set FIGMA_TOKEN to a personal access token with file read access",
		Cause:   cause,
	}
}

// FigmaFetchFailed returns an error for design-file API failures.
func FigmaFetchFailed(fileKey string, cause error) *FigstyleError {
	return &FigstyleError{
		Code:    ErrFigmaFetchFailed,
		Message: fmt.Sprintf("failed to fetch styles from file %s", fileKey),
		Hint:    "Check that the file exists and its styles are published",
		Cause:   cause,
	}
}

// InvalidFileURL returns an error for a URL that carries no file key.
func InvalidFileURL(url string) *FigstyleError {
	return &FigstyleError{
		Code:    ErrInvalidFileURL,
		Message: fmt.Sprintf("invalid Figma file URL: %s", url),
		Hint:    "Use a figma.com/file/<key>/... or figma.com/design/<key>/... URL, or a local .json export",
	}
}

// ProviderAuthFailed returns an error when a language-model API key is missing.
func ProviderAuthFailed(provider, envVar string) *FigstyleError {
	return &FigstyleError{
		Code:    ErrProviderAuthFailed,
		Message: fmt.Sprintf("%s API authentication failed", provider),
		Hint:    fmt.Sprintf("Set %s or use `figstyle prompt` to generate prompts without an API call", envVar),
	}
}

// ProviderFailed returns an error for a failed language-model API call.
func ProviderFailed(provider, message string, cause error) *FigstyleError {
	return &FigstyleError{
		Code:    ErrProviderFailed,
		Message: fmt.Sprintf("%s: %s", provider, message),
		Hint:    "Check your API key, model name and network connection",
		Cause:   cause,
	}
}

// GenerationFailed wraps a provider failure for one chunk of a run.
func GenerationFailed(chunk, total int, cause error) *FigstyleError {
	msg := "generation failed"
	if total > 1 {
		msg = fmt.Sprintf("generation failed on chunk %d of %d", chunk, total)
	}
	return &FigstyleError{
		Code:    ErrGenerationFailed,
		Message: msg,
		Hint:    "Retry with --retries, or use `figstyle prompt` and paste the prompt into your own model",
		Cause:   cause,
	}
}

// UnsupportedFormat returns an error for an unknown target format.
func UnsupportedFormat(name string, supported []string) *FigstyleError {
	return &FigstyleError{
		Code:    ErrUnsupportedFormat,
		Message: fmt.Sprintf("unsupported output format: %s", name),
		Hint:    fmt.Sprintf("Supported formats: %v", supported),
	}
}

// CacheNotFound returns an error when no cached styles exist for a file.
func CacheNotFound(fileKey string) *FigstyleError {
	return &FigstyleError{
		Code:    ErrCacheNotFound,
		Message: fmt.Sprintf("no cached styles for %s", fileKey),
		Hint:    "Run `figstyle inspect <url>` to fetch the file",
	}
}

// PublishFailed returns an error for a failed gist upload.
func PublishFailed(cause error) *FigstyleError {
	return &FigstyleError{
		Code:    ErrPublishFailed,
		Message: "failed to publish gist",
		Hint:    "Run `gh auth login` or set GH_TOKEN with the gist scope",
		Cause:   cause,
	}
}
