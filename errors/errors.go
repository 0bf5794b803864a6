package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error classes used across the aggregation tool
var (
	ErrInvalidInput      = new(ErrCodeInvalidInput, "invalid input")
	ErrDelimiterMismatch = new(ErrCodeDelimiterMismatch, "delimiter does not match the input file")
	ErrHeaderMismatch    = new(ErrCodeHeaderMismatch, "header line does not match the header setting")
	ErrNumericConversion = new(ErrCodeNumericConversion, "numeric field could not be converted")
	ErrStorage           = new(ErrCodeStorage, "storage error")
	ErrSystem            = new(ErrCodeSystemError, "system error")
)

const (
	ErrCodeInvalidInput      = "invalid_input"
	ErrCodeDelimiterMismatch = "delimiter_mismatch"
	ErrCodeHeaderMismatch    = "header_mismatch"
	ErrCodeNumericConversion = "numeric_conversion"
	ErrCodeStorage           = "storage_error"
	ErrCodeSystemError       = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsInvalidInput checks if an error is caused by bad caller input or configuration
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDelimiterMismatch checks if an error signals a wrong delimiter for the file
func IsDelimiterMismatch(err error) bool {
	return errors.Is(err, ErrDelimiterMismatch)
}

// IsHeaderMismatch checks if an error signals an undeclared header line
func IsHeaderMismatch(err error) bool {
	return errors.Is(err, ErrHeaderMismatch)
}

// IsNumericConversion checks if an error signals a corrupt measurement value
func IsNumericConversion(err error) bool {
	return errors.Is(err, ErrNumericConversion)
}

// IsStorage checks if an error comes from the history store
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

func IsSystem(err error) bool {
	return errors.Is(err, ErrSystem)
}

// IsFatalIngestion reports whether err aborts a whole ingestion attempt
func IsFatalIngestion(err error) bool {
	return IsDelimiterMismatch(err) || IsHeaderMismatch(err) || IsNumericConversion(err)
}

// Hint returns the first user facing hint attached to err, or the error text
func Hint(err error) string {
	if err == nil {
		return ""
	}
	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		return hints[0]
	}
	return err.Error()
}
