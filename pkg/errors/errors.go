package errors

import "errors"

// Error codes shared across domains.
const (
	CodeInvalidInput   = "invalid_input"
	CodeLLMError       = "llm_error"
	CodeGeoError       = "geo_error"
	CodeStorageError   = "storage_error"
	CodeSessionUnknown = "session_not_found"
	CodeWizardState    = "wizard_state"
	CodeAuthError      = "auth_error"
)

// AppError carries a stable code alongside a human readable message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
