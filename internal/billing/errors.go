package billing

import "fmt"

// ValidationError reports a rejected input value. Field names the offending
// field, using items[i].<name> for line item fields.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}
