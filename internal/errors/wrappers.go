package errors

import "fmt"

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

// WrapLoadError wraps a failure to load or type-check packages
func WrapLoadError(patterns []string, cause error) *BaseError {
	return Wrap(LoadErrorCode, "failed to load packages", cause).
		WithContext("patterns", patterns).
		WithSuggestion("Check that the patterns name packages of the current module").
		WithSuggestion("Run 'go build' on the packages to see compiler errors")
}

// LoadError creates an error for a package that failed to type-check
func LoadError(pkgPath string, loc SourceLocation, message string) *BaseError {
	return New(LoadErrorCode, message).
		WithLocation(loc).
		WithContext("package", pkgPath)
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err LintError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}
