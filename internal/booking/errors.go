package booking

import "errors"

// ValidationError is returned when a booking request breaks a business
// rule.  Reason is safe to show to the customer.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(reason string) error { return &ValidationError{Reason: reason} }

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrEventNotFound  = invalid("Event not found.")
)

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
