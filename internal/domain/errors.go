package domain

import "fmt"

// ValidationError is returned for input that breaks a field rule. It is
// reported to the caller as is and never corrected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
