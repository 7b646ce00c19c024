// Package sdk presents one stable method surface per backend domain to the
// console, dispatching internally to whichever backend API major version is
// live for the stack and reshaping version-specific responses into
// normalized models.
package sdk

import "fmt"

// ValidationError is an application-level 422: the normalized request cannot
// be mapped onto the resolved backend version. It is raised before any
// backend call is attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
