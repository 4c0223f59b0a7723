package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrPageUnavailable  = errors.New("page endpoint unavailable")
	ErrStoreNotFound    = errors.New("state store not found in host graph")
	ErrBridgeDown       = errors.New("media-control bridge disconnected")
	ErrAPIUnreachable   = errors.New("control API unreachable")
	ErrPortInUse        = errors.New("control API port already in use")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrDuplicateBinding = errors.New("duplicate hotkey binding")
)

// CompanionError wraps an error with a user-friendly suggestion.
type CompanionError struct {
	Err        error
	Suggestion string
}

func (e *CompanionError) Error() string {
	return e.Err.Error()
}

func (e *CompanionError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &CompanionError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var companionErr *CompanionError
	if errors.As(err, &companionErr) && companionErr.Suggestion != "" {
		return companionErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrPageUnavailable) || strings.Contains(errStr, "dial page endpoint") {
		return "Start the wrapper shell, or point page_url at its websocket endpoint"
	}

	if errors.Is(err, ErrStoreNotFound) {
		return "The host page may have changed; the markup adapter still works. Try adapter = \"dom\" in the config"
	}

	if errors.Is(err, ErrAPIUnreachable) || strings.Contains(errStr, "connection refused") {
		return "Run 'stagehand serve' first, or check the [api] port in your config"
	}

	if errors.Is(err, ErrPortInUse) || strings.Contains(errStr, "address already in use") {
		return "Another process holds the control API port. Change [api] port in the config"
	}

	if errors.Is(err, ErrConfigNotFound) || strings.Contains(errStr, "config") {
		return "Run 'stagehand config init' to create a configuration file"
	}

	if strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") {
		return "Check your connection and try again"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
