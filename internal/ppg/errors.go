package ppg

import "errors"

// ProcessingError represents pipeline configuration and input errors
type ProcessingError struct {
	Code    string `json:"code"`
	Op      string `json:"op"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error codes
const (
	ErrCodeConfiguration = "CONFIGURATION_INVALID"
	ErrCodeInvalidInput  = "INPUT_INVALID"
)

func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return e.Op + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Op + ": " + e.Message
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a construction-time configuration error
func NewConfigurationError(op, message string) *ProcessingError {
	return &ProcessingError{
		Code:    ErrCodeConfiguration,
		Op:      op,
		Message: message,
	}
}

// NewInvalidInputError creates a per-window input error
func NewInvalidInputError(op, message string) *ProcessingError {
	return &ProcessingError{
		Code:    ErrCodeInvalidInput,
		Op:      op,
		Message: message,
	}
}

// IsConfigurationError reports whether err is a configuration error
func IsConfigurationError(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe) && pe.Code == ErrCodeConfiguration
}

// IsInvalidInputError reports whether err is an invalid input error
func IsInvalidInputError(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe) && pe.Code == ErrCodeInvalidInput
}
