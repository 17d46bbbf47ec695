package errors

import (
	"fmt"
)

// WordPressAPIError represents an error returned by the WordPress REST API
type WordPressAPIError struct {
	Operation string
	Status    int
	Message   string
}

// Error returns the error message
func (e *WordPressAPIError) Error() string {
	return fmt.Sprintf("WordPress API error during %s (status %d): %s", e.Operation, e.Status, e.Message)
}

// ValidationError represents an error when input validation fails
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// StateError represents an error related to conversation state
type StateError struct {
	ChatID   int64
	Workflow string
	Message  string
}

// Error returns the error message
func (e *StateError) Error() string {
	return fmt.Sprintf("state error for chat %d in workflow %s: %s", e.ChatID, e.Workflow, e.Message)
}

// PermissionError represents an error related to user permissions
type PermissionError struct {
	UserID        int64
	Level         string
	RequiredLevel string
}

// Error returns the error message
func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission error for user %d: has %s access, requires %s access", e.UserID, e.Level, e.RequiredLevel)
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Section string
	Message string
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Section, e.Message)
}
