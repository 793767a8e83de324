package payments

import "fmt"

// ValidationError reports malformed caller input. It is raised before any
// gateway or storage access happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var ErrEmptyReference = &ValidationError{Field: "reference", Message: "reference is required"}
