package returns

import "fmt"

// InvalidRequestError names the missing or malformed field.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid return request: %s %s", e.Field, e.Reason)
}
