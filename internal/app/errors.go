package app

import "fmt"

// DomainError is a console-level failure with a wire taxonomy: the HTTP
// status, a stable machine code, and an operator-facing message. Errors from
// the stack backend keep their own type (*backend.Error) and map to their
// upstream status instead.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}
