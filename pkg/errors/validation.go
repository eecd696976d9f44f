package errors

// ValidationError is a specialized error type for configuration validation
// failures. It embeds baseError to inherit chaining, codes and structured
// details — the only specialization this domain needs, since
// NewConfigurationValidationError reports which field and rule failed
// through the generic details map.
type ValidationError struct {
	*baseError
}

// NewValidationError creates a new validation-specific error with the
// provided context.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// WithDetail overrides the base method to return *ValidationError instead
// of *baseError, so the fluent interface keeps its concrete type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// NewConfigurationValidationError creates an error for invalid configuration
// objects. options.Load does not call it: a config file that fails to parse
// is skipped rather than reported.
func NewConfigurationValidationError(field string, issue string) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidInput,
		"Configuration validation failed",
	).WithDetail("field", field).
		WithDetail("rule", "configuration_integrity").
		WithDetail("validationIssue", issue)
}
