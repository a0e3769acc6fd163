package models

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed input to the exporter, importer or
// injector. Never retried; the caller has to fix the payload.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NewValidationError builds a ValidationError from individual findings
func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{Errors: errs}
}

// PreconditionError reports a deployment that is not in an eligible state or
// is missing required configuration. Not retried automatically.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// CollaboratorError reports a failed external provisioning or hosting call.
// The collaborator's message is surfaced verbatim in the deployment's
// lastError; retry happens by re-invoking deploy.
type CollaboratorError struct {
	Service string
	Message string
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

// NotFoundError reports an unknown deployment or project id
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}
