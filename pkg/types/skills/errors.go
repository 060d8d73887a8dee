package skills

import "fmt"

// ValidationError reports the first input field that violated the skill's
// declared schema. Validation is fail-fast in declaration order, so Field
// and Rule identify exactly one offending field and the rule it broke.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: field %q: %s", e.Field, e.Rule)
}

// NotFoundError is returned by registry lookups for names that were never
// registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("skill %q is not registered", e.Name)
}

// DuplicateRegistrationError is returned when a registration collides with
// an existing name. The original mapping is left untouched.
type DuplicateRegistrationError struct {
	Name string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("skill %q is already registered", e.Name)
}
