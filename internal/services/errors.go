package services

import "fmt"

// ExternalServiceError wraps a transport-level failure from a collaborator
// API. It is terminal for the current scenario evaluation; the caller decides
// whether to retry the whole scenario.
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
