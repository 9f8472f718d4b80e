package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	ErrNotFound      = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation    = new(ErrCodeValidation, "validation error")
	ErrHTTPClient    = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase      = new(ErrCodeDatabase, "database error")
	ErrSystem        = new(ErrCodeSystemError, "system error")

	// Tax service sentinels. Callers branch on these instead of inspecting
	// response payloads.
	ErrTaxService        = new(ErrCodeTaxService, "error in tax")
	ErrTaxCancel         = new(ErrCodeTaxCancel, "error in cancel tax")
	ErrAddressValidation = new(ErrCodeAddressValidation, "error in address validation")

	// maps errors to http status codes, first match wins. Tax sentinels
	// come first since they wrap transport errors.
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrTaxService, http.StatusBadGateway},
		{ErrTaxCancel, http.StatusBadGateway},
		{ErrAddressValidation, http.StatusBadGateway},
		{ErrValidation, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrHTTPClient, http.StatusInternalServerError},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
	}
)

const (
	ErrCodeHTTPClient        = "http_client_error"
	ErrCodeSystemError       = "system_error"
	ErrCodeNotFound          = "not_found"
	ErrCodeAlreadyExists     = "already_exists"
	ErrCodeValidation        = "validation_error"
	ErrCodeDatabase          = "database_error"
	ErrCodeTaxService        = "tax_service_error"
	ErrCodeTaxCancel         = "tax_cancel_error"
	ErrCodeAddressValidation = "address_validation_error"
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

// New creates an InternalError carrying the given code
func New(code string, message string) *InternalError {
	return new(code, message)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsTaxService reports whether a quote/commit call to the tax service failed
func IsTaxService(err error) bool {
	return errors.Is(err, ErrTaxService)
}

// IsTaxCancel reports whether a cancel call to the tax service failed
func IsTaxCancel(err error) bool {
	return errors.Is(err, ErrTaxCancel)
}

// IsAddressValidation reports whether an address validation call failed
func IsAddressValidation(err error) bool {
	return errors.Is(err, ErrAddressValidation)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
