package errors

import "fmt"

// Common error wrapping patterns used throughout the codebase

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapParseError wraps a parser failure for the given file
func WrapParseError(file string, cause error) *SyntaxError {
	err := &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, "failed to parse source", cause),
	}
	err.WithLocation(SourceLocation{File: file})
	return err
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// WrapStoreError wraps persistent cache failures
func WrapStoreError(operation string, cause error) *BaseError {
	return Wrap(StoreErrorCode, fmt.Sprintf("tree store %s failed", operation), cause).
		WithContext("operation", operation)
}

// FileNotFound creates a file system error for a missing source file
func FileNotFound(path string, searched []string) *BaseError {
	err := New(FileSystemErrorCode, fmt.Sprintf("source file '%s' not found", path)).
		WithContext("path", path)
	if len(searched) > 0 {
		err.WithContext("searched", searched)
	}
	return err
}

// ConfigurationError creates a configuration error
func ConfigurationError(field, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", field, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("field", field)
}
