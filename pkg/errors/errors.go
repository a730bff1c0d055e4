package errors

import (
	"errors"
	"fmt"
)

var (
	ErrRequestFailed        = errors.New("backend request failed")
	ErrEmptyURL             = errors.New("url must not be empty")
	ErrAnalysisInFlight     = errors.New("an analysis is already in progress")
	ErrUnknownTab           = errors.New("unknown tab")
	ErrRecordNotFound       = errors.New("analysis record not found")
	ErrHistoryDisabled      = errors.New("analysis history is not configured")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrDiscordNotConfigured = errors.New("discord client not configured")
)

// FailureMessage is the only text users see when an analysis cannot complete.
const FailureMessage = "Analysis failed. The service could not reach the backend endpoint."

type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func NewConfigError(field string, value interface{}, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
