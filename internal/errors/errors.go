// Package errors defines the domain error taxonomy shared across services.
// Every user-visible failure carries a machine-readable code alongside the
// human-readable message.
package errors

import "fmt"

// DomainError is a typed, user-visible failure.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches domain errors by code so wrapped values still compare.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}
